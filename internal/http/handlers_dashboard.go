package http

import (
	"net/http"

	"budgetly/internal/auth"
	"budgetly/internal/core"
	"budgetly/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	expenses, err := s.expenses.List(r.Context(), id.UserID)
	if err != nil {
		internalError(w, r, log.OpList, err, log.NewFields().WithUser(id.UserID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]core.Summary{"summary": core.Summarize(expenses, s.now())})
}
