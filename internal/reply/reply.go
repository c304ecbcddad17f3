// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reply turns free-text chat messages into answers: it spots
// paragraph requests like "CCC 27", runs the extractor against the held
// document and shapes the result for display.
package reply

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/internal/extract"
	"github.com/pdiddy/catechism-bot/pkg/types"
)

// TruncationSuffix is appended to quotes cut at the display limit.
const TruncationSuffix = "...\n(Quote too long, truncated.)"

const (
	defaultMarker    = "CCC"
	defaultMaxLength = 4000
)

// Kind classifies a Reply.
type Kind int

const (
	KindFound Kind = iota + 1
	KindNotFound
	KindNotLoaded
)

func (k Kind) Outcome() types.Outcome {
	switch k {
	case KindFound:
		return types.OutcomeFound
	case KindNotFound:
		return types.OutcomeNotFound
	default:
		return types.OutcomeNotLoaded
	}
}

// Reply is the answer to one request.
type Reply struct {
	Kind Kind

	// ID is the requested paragraph number.
	ID string

	// Body is the cleaned quote, already truncated. Empty unless Kind is
	// KindFound.
	Body string

	// Truncated reports whether Body was cut at the display limit.
	Truncated bool

	// Marker is the request prefix used in the title, e.g. "CCC".
	Marker string

	// File names the expected document in the not-loaded message.
	File string
}

// Title is the heading shown above a found quote.
func (r Reply) Title() string {
	return fmt.Sprintf("%s %s", r.Marker, r.ID)
}

// Text renders the reply as plain text.
func (r Reply) Text() string {
	switch r.Kind {
	case KindFound:
		return r.Title() + "\n" + r.Body
	case KindNotFound:
		return fmt.Sprintf("Could not find Catechism quote with ID: `%s`. Please check the number.", r.ID)
	default:
		return fmt.Sprintf("Sorry, the Catechism text is not loaded. Please ensure the '%s' file exists.", r.File)
	}
}

// Recorder receives every handled request. The stats store implements it.
type Recorder interface {
	Record(ctx context.Context, l types.Lookup) error
}

// Options configures a Handler. Zero values fall back to defaults.
type Options struct {
	Marker    string
	MaxLength int
	Recorder  Recorder
}

// Handler answers paragraph requests against the document in a Holder.
// It is safe for concurrent use.
type Handler struct {
	docs      *document.Holder
	file      string
	marker    string
	maxLength int
	requestRe *regexp.Regexp
	recorder  Recorder
}

// NewHandler builds a Handler over docs. file is the configured document
// path, quoted back to users when nothing is loaded.
func NewHandler(docs *document.Holder, file string, opts Options) *Handler {
	marker := opts.Marker
	if marker == "" {
		marker = defaultMarker
	}
	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = defaultMaxLength
	}
	return &Handler{
		docs:      docs,
		file:      filepath.Base(file),
		marker:    marker,
		maxLength: maxLength,
		requestRe: requestPattern(marker),
		recorder:  opts.Recorder,
	}
}

// requestPattern matches the marker in any case, an optional period,
// optional whitespace, then the paragraph number.
func requestPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(marker) + `\.?\s*(\d+)`)
}

// ParseRequest returns the paragraph number of the first request in msg.
func (h *Handler) ParseRequest(msg string) (string, bool) {
	m := h.requestRe.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Handle answers the first request in msg. It returns false when msg
// contains no request.
func (h *Handler) Handle(ctx context.Context, msg, source string) (Reply, bool) {
	id, ok := h.ParseRequest(msg)
	if !ok {
		return Reply{}, false
	}
	log.Debug().Str("id", id).Str("source", source).Msg("paragraph requested")
	return h.Lookup(ctx, id, source), true
}

// Lookup answers a request for paragraph id.
func (h *Handler) Lookup(ctx context.Context, id, source string) Reply {
	r := Reply{ID: id, Marker: h.marker, File: h.file}

	q, err := extract.Find(h.docs.Current(), id)
	switch {
	case err == nil:
		r.Kind = KindFound
		r.Body, r.Truncated = truncate(q.Text, h.maxLength)
	case errors.Is(err, extract.ErrDocumentAbsent):
		r.Kind = KindNotLoaded
		log.Warn().Str("id", id).Msg("request received before catechism text was loaded")
	default:
		r.Kind = KindNotFound
		log.Debug().Str("id", id).Msg("paragraph not found")
	}

	h.record(ctx, r, source)
	return r
}

func (h *Handler) record(ctx context.Context, r Reply, source string) {
	if h.recorder == nil {
		return
	}
	err := h.recorder.Record(ctx, types.Lookup{
		ID:        r.ID,
		Outcome:   r.Kind.Outcome(),
		Source:    source,
		Truncated: r.Truncated,
		At:        time.Now().UTC(),
	})
	if err != nil {
		log.Warn().Err(err).Str("id", r.ID).Msg("recording lookup failed")
	}
}

// truncate keeps the first max characters of text and appends
// TruncationSuffix when anything was cut.
func truncate(text string, max int) (string, bool) {
	if utf8.RuneCountInString(text) <= max {
		return text, false
	}
	runes := []rune(text)
	return string(runes[:max]) + TruncationSuffix, true
}
