// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/catechism-bot/internal/document"
	"github.com/pdiddy/catechism-bot/internal/reply"
	"github.com/pdiddy/catechism-bot/pkg/types"
)

const sample = "26 We begin our profession of faith.\n27 The desire for God is written in the human heart.\n28 In many ways men have expressed their quest for God.\n"

type fixture struct {
	handler http.Handler
	docs    *document.Holder
	path    string
}

func newFixture(t *testing.T, loaded bool) fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catechism.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	docs := document.NewHolder(nil)
	if loaded {
		require.NoError(t, docs.Reload(path))
	}
	replies := reply.NewHandler(docs, path, reply.Options{})
	srv := NewServer(replies, docs, path, types.HTTPConfig{AllowedOrigins: []string{"http://localhost:5173"}})
	return fixture{handler: srv.Handler(), docs: docs, path: path}
}

func (f fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	for _, loaded := range []bool{true, false} {
		f := newFixture(t, loaded)
		rr := f.do(http.MethodGet, "/health", "")

		require.Equal(t, http.StatusOK, rr.Code)
		body := decode[map[string]any](t, rr)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, loaded, body["document_loaded"])
	}
}

func TestGetParagraph(t *testing.T) {
	tests := []struct {
		name       string
		loaded     bool
		target     string
		wantStatus int
		wantText   string
	}{
		{name: "found", loaded: true, target: "/api/v1/paragraphs/27", wantStatus: http.StatusOK, wantText: "The desire for God is written in the human heart."},
		{name: "not found", loaded: true, target: "/api/v1/paragraphs/9999", wantStatus: http.StatusNotFound},
		{name: "not loaded", loaded: false, target: "/api/v1/paragraphs/27", wantStatus: http.StatusServiceUnavailable},
		{name: "non numeric", loaded: true, target: "/api/v1/paragraphs/abc", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.loaded)
			rr := f.do(http.MethodGet, tt.target, "")

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantText != "" {
				q := decode[Quote](t, rr)
				assert.Equal(t, "27", q.ID)
				assert.Equal(t, "CCC 27", q.Title)
				assert.Equal(t, tt.wantText, q.Text)
				assert.False(t, q.Truncated)
			}
		})
	}
}

func TestGetParagraph_ErrorBodies(t *testing.T) {
	f := newFixture(t, false)
	rr := f.do(http.MethodGet, "/api/v1/paragraphs/27", "")
	body := decode[errorBody](t, rr)
	assert.Equal(t, "Sorry, the Catechism text is not loaded. Please ensure the 'catechism.txt' file exists.", body.Error)

	f = newFixture(t, true)
	rr = f.do(http.MethodGet, "/api/v1/paragraphs/5", "")
	body = decode[errorBody](t, rr)
	assert.Equal(t, "Could not find Catechism quote with ID: `5`. Please check the number.", body.Error)
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantOutcome string
		wantText    string
	}{
		{
			name:        "found",
			body:        `{"content":"please show ccc 28"}`,
			wantStatus:  http.StatusOK,
			wantOutcome: "found",
			wantText:    "CCC 28\nIn many ways men have expressed their quest for God.",
		},
		{
			name:        "not found",
			body:        `{"content":"CCC.404"}`,
			wantStatus:  http.StatusOK,
			wantOutcome: "not_found",
			wantText:    "Could not find Catechism quote with ID: `404`. Please check the number.",
		},
		{name: "no request", body: `{"content":"hello"}`, wantStatus: http.StatusNoContent},
		{name: "bad json", body: `{"content":`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, true)
			rr := f.do(http.MethodPost, "/api/v1/messages", tt.body)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantOutcome == "" {
				return
			}
			a := decode[Answer](t, rr)
			assert.Equal(t, tt.wantOutcome, a.Outcome)
			assert.Equal(t, tt.wantText, a.Text)
		})
	}
}

func TestReload(t *testing.T) {
	f := newFixture(t, false)
	assert.False(t, f.docs.Loaded())

	rr := f.do(http.MethodPost, "/api/v1/reload", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, f.docs.Loaded())

	rr = f.do(http.MethodGet, "/api/v1/paragraphs/26", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestReload_FailureKeepsDocument(t *testing.T) {
	f := newFixture(t, true)
	require.NoError(t, os.Remove(f.path))

	rr := f.do(http.MethodPost, "/api/v1/reload", "")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "reload failed: not found", decode[errorBody](t, rr).Error)

	assert.True(t, f.docs.Loaded())
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/paragraphs/27", "").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, true)
	rr := f.do(http.MethodDelete, "/api/v1/paragraphs/27", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, true)

	rr := f.do(http.MethodGet, "/health", "")
	assert.Len(t, rr.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))
}

func TestCORS(t *testing.T) {
	f := newFixture(t, true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	docs := document.NewHolder(&document.Document{Text: sample})
	replies := reply.NewHandler(docs, "catechism.txt", reply.Options{})
	h := NewServer(replies, docs, "catechism.txt", types.HTTPConfig{RateLimit: 0.001, RateBurst: 2}).Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/paragraphs/27", nil))
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code, "health is not limited")
}
