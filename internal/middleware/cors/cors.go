package cors

import (
	"net/http"
	"strings"
)

const (
	allowHeaders = "Content-Type, Authorization"
	allowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
)

// Middleware answers cross-origin requests for a fixed set of origins.
type Middleware struct {
	allowAll bool
	origins  map[string]struct{}
}

// NewMiddleware builds a CORS middleware. An origin of "*" allows any caller.
func NewMiddleware(allowedOrigins []string) *Middleware {
	m := &Middleware{origins: make(map[string]struct{}, len(allowedOrigins))}
	for _, origin := range allowedOrigins {
		origin = strings.ToLower(strings.TrimSpace(origin))
		if origin == "" {
			continue
		}
		if origin == "*" {
			m.allowAll = true
			continue
		}
		m.origins[origin] = struct{}{}
	}
	return m
}

func (m *Middleware) allowed(origin string) bool {
	if m.allowAll {
		return true
	}
	_, ok := m.origins[strings.ToLower(origin)]
	return ok
}

// Middleware returns the HTTP middleware function
func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && m.allowed(origin) {
			h := w.Header()
			if m.allowAll {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Allow-Methods", allowMethods)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
