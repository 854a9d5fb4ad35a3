package http

import (
	"context"
	"net/http"
	"time"

	"budgetly/internal/auth"
	"budgetly/internal/log"
	"budgetly/internal/middleware/cors"
	"budgetly/internal/middleware/security"
	"budgetly/internal/middleware/trace"
	"budgetly/internal/services"
	"budgetly/internal/storage"
)

// Deps are the collaborators the API needs.
type Deps struct {
	Store          storage.Store
	Expenses       *services.ExpenseService
	Tokens         *auth.TokenManager
	Hasher         *auth.Hasher
	Logger         *log.Logger
	AllowedOrigins []string

	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

type Server struct {
	http.Server
	store    storage.Store
	expenses *services.ExpenseService
	tokens   *auth.TokenManager
	hasher   *auth.Hasher
	logger   *log.Logger
	now      func() time.Time
}

// authedHandler receives the identity resolved from the bearer token.
type authedHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 16,
		},
		store:    deps.Store,
		expenses: deps.Expenses,
		tokens:   deps.Tokens,
		hasher:   deps.Hasher,
		logger:   deps.Logger.WithComponent(log.ComponentHTTP),
		now:      now,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.HandleFunc("GET /categories", s.requireAuth(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.requireAuth(s.handleCreateCategory))
	mux.HandleFunc("GET /categories/{id}", s.requireAuth(s.handleGetCategory))
	mux.HandleFunc("PATCH /categories/{id}", s.requireAuth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.requireAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /expenses", s.requireAuth(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.requireAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /expenses/{id}", s.requireAuth(s.handleGetExpense))
	mux.HandleFunc("PATCH /expenses/{id}", s.requireAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.requireAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /user", s.requireAuth(s.handleGetUser))
	mux.HandleFunc("PATCH /user", s.requireAuth(s.handleUpdateUser))
	mux.HandleFunc("POST /user/password", s.requireAuth(s.handleChangePassword))

	mux.HandleFunc("GET /dashboard", s.requireAuth(s.handleDashboard))

	ipResolver := security.NewClientIPResolver()
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(deps.Logger, ipResolver.ClientIP)

	var handler http.Handler = mux
	handler = log.RequestIDMiddleware(trace.RequestIDFromRequest)(handler)
	handler = tracer.Middleware(handler)
	handler = log.Middleware(s.logger)(handler)
	handler = headers.Middleware(handler)
	handler = cors.NewMiddleware(deps.AllowedOrigins).Middleware(handler)
	s.Handler = handler

	return s
}

// requireAuth answers 401 unless the request carries a valid bearer token.
// It runs before any body is read.
func (s *Server) requireAuth(next authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.tokens.Authenticate(r)
		if err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rejected request",
				log.FieldError, err,
				log.FieldErrorType, log.ErrorTypeAuth,
				"path", r.URL.Path)
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		next(w, r, id)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.FromContext(r.Context()).LogError(r.Context(), "Readiness check failed", err, log.OpRead,
			log.NewFields().WithErrorType(log.ErrorTypeDatabase))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
