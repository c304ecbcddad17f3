// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/internal/reply"
)

// maxBody caps POST /api/v1/messages payloads.
const maxBody = 64 << 10

// Quote is the JSON body for a found paragraph.
type Quote struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

// Message is the JSON body accepted by POST /api/v1/messages.
type Message struct {
	Content string `json:"content"`
}

// Answer is the JSON body returned for a handled message.
type Answer struct {
	Outcome   string `json:"outcome"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Truncated bool   `json:"truncated"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"document_loaded": s.docs.Loaded(),
	})
}

func (s *Server) getParagraph(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rep := s.replies.Lookup(r.Context(), id, source)
	switch rep.Kind {
	case reply.KindFound:
		writeJSON(w, http.StatusOK, Quote{
			ID:        rep.ID,
			Title:     rep.Title(),
			Text:      rep.Body,
			Truncated: rep.Truncated,
		})
	case reply.KindNotFound:
		writeError(w, http.StatusNotFound, rep.Text())
	default:
		writeError(w, http.StatusServiceUnavailable, rep.Text())
	}
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var msg Message
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rep, ok := s.replies.Handle(r.Context(), msg.Content, source)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, Answer{
		Outcome:   string(rep.Kind.Outcome()),
		ID:        rep.ID,
		Text:      rep.Text(),
		Truncated: rep.Truncated,
	})
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	if err := s.docs.Reload(s.path); err != nil {
		var le *document.LoadError
		msg := "reload failed"
		if errors.As(err, &le) {
			msg = "reload failed: " + le.Kind.String()
		}
		log.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("document reload failed")
		writeError(w, http.StatusInternalServerError, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "reloaded",
		"document_loaded": true,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("writing response body")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
