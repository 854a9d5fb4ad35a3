package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"budgetly/internal/log"
)

func TestGenerateRequestID(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.True(t, strings.HasPrefix(a, "req_"))
	assert.Len(t, a, len("req_")+16)
	assert.NotEqual(t, a, b)
}

func TestMiddlewareLogsByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.NewTextConfig(&buf, slog.LevelInfo, log.ComponentApp))

	var seen string
	h := NewMiddleware(logger, func(*http.Request) string { return "203.0.113.1" }).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
			w.WriteHeader(http.StatusNotFound)
		}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/x", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "status_code=404")
	assert.Contains(t, out, "client_ip=203.0.113.1")
	assert.Contains(t, out, "request_id="+seen)
	assert.NotContains(t, out, "HTTP request started")
}

func TestRequestIDFromRequestWithoutMiddleware(t *testing.T) {
	assert.Empty(t, RequestIDFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestMiddlewareReusesInboundRequestID(t *testing.T) {
	logger := log.New(log.NewTextConfig(&bytes.Buffer{}, slog.LevelInfo, log.ComponentApp))
	h := NewMiddleware(logger, nil).Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	tests := []struct {
		inbound string
		reused  bool
	}{
		{"edge-7f3a_01", true},
		{"has space", false},
		{"<script>", false},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, tt.inbound)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		if tt.reused {
			assert.Equal(t, tt.inbound, got)
		} else {
			assert.True(t, strings.HasPrefix(got, "req_"), "inbound %q", tt.inbound)
		}
	}
}
