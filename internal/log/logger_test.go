package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestComponentAppearsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := New(NewTextConfig(&buf, slog.LevelInfo, ComponentApp)).WithComponent(ComponentHTTP)

	logger.InfoContext(context.Background(), "hello")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "component="))
	assert.Contains(t, out, "component=http")
}

func TestMiddlewareCarriesRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(NewTextConfig(&buf, slog.LevelInfo, ComponentHTTP))

	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).LogError(r.Context(), "boom", errors.New("bad"), OpRead, NewFields().WithUser("u1"))
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	out := buf.String()
	assert.Contains(t, out, "request_id=req_1")
	assert.Contains(t, out, "error=bad")
	assert.Contains(t, out, "operation=read")
	assert.Contains(t, out, "user_id=u1")
}

func TestFromContextFallsBack(t *testing.T) {
	l := FromContext(context.Background())
	assert.Equal(t, "unknown", l.Component())
}
