package http

import (
	"errors"
	"net/http"
	"strings"

	"budgetly/internal/auth"
	"budgetly/internal/core"
	"budgetly/internal/log"
	"budgetly/internal/storage"
	"budgetly/internal/validation"
)

const msgCategoryDenied = "Category not found or access denied"

type expenseBody struct {
	Expense core.Expense `json:"expense"`
}

type expenseListBody struct {
	Expenses   []core.Expense `json:"expenses"`
	Pagination pagination     `json:"pagination"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	page, query := parseExpenseQuery(r.URL.Query())

	expenses, err := s.expenses.ListPage(r.Context(), id.UserID, query)
	if err != nil {
		internalError(w, r, log.OpList, err, log.NewFields().WithUser(id.UserID))
		return
	}

	writeJSON(w, http.StatusOK, expenseListBody{
		Expenses: expenses,
		Pagination: pagination{
			Page:    page,
			Limit:   query.Limit,
			HasMore: len(expenses) == query.Limit,
		},
	})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var in validation.CreateExpenseInput
	if !bind(w, r, &in) {
		return
	}

	categoryID := normalizeCategoryID(in.CategoryID)
	if categoryID != nil && !s.categoryAccessible(w, r, *categoryID, id) {
		return
	}

	expense, err := s.expenses.Create(r.Context(), storage.NewExpense{
		UserID:      id.UserID,
		CategoryID:  categoryID,
		Amount:      in.Amount,
		Description: in.Description,
		Date:        in.Date.Time,
	})
	if err != nil {
		internalError(w, r, log.OpCreate, err, log.NewFields().WithUser(id.UserID))
		return
	}

	writeJSON(w, http.StatusCreated, expenseBody{Expense: expense})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	expense, ok := s.loadExpense(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, expenseBody{Expense: expense})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var in validation.UpdateExpenseInput
	if !bind(w, r, &in) {
		return
	}

	existing, ok := s.loadExpense(w, r, id)
	if !ok {
		return
	}

	patch := storage.ExpensePatch{
		Amount:      in.Amount,
		Description: in.Description,
	}
	if in.Date != nil {
		patch.Date = &in.Date.Time
	}
	if in.CategoryID.Set {
		patch.SetCategory = true
		patch.CategoryID = normalizeCategoryID(in.CategoryID.Value)
		if patch.CategoryID != nil && !s.categoryAccessible(w, r, *patch.CategoryID, id) {
			return
		}
	}

	expense, err := s.expenses.Update(r.Context(), existing.ID, id.UserID, patch)
	if errors.Is(err, storage.ErrNotFound) {
		invariantViolation(w, r, log.OpUpdate, "Failed to update expense", err, expenseFields(id, existing.ID))
		return
	}
	if err != nil {
		internalError(w, r, log.OpUpdate, err, expenseFields(id, existing.ID))
		return
	}

	writeJSON(w, http.StatusOK, expenseBody{Expense: expense})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	existing, ok := s.loadExpense(w, r, id)
	if !ok {
		return
	}

	err := s.expenses.Delete(r.Context(), existing)
	if errors.Is(err, storage.ErrNotFound) {
		invariantViolation(w, r, log.OpDelete, "Failed to delete expense", err, expenseFields(id, existing.ID))
		return
	}
	if err != nil {
		internalError(w, r, log.OpDelete, err, expenseFields(id, existing.ID))
		return
	}

	writeSuccess(w)
}

// loadExpense fetches the path expense under the caller's scope. Foreign
// and missing expenses are both 404.
func (s *Server) loadExpense(w http.ResponseWriter, r *http.Request, id auth.Identity) (core.Expense, bool) {
	expenseID := r.PathValue("id")
	expense, err := s.expenses.Get(r.Context(), expenseID, id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Expense not found")
		return core.Expense{}, false
	}
	if err != nil {
		internalError(w, r, log.OpRead, err, expenseFields(id, expenseID))
		return core.Expense{}, false
	}
	return expense, true
}

// categoryAccessible answers 400 unless categoryID is a default category
// or one the caller owns.
func (s *Server) categoryAccessible(w http.ResponseWriter, r *http.Request, categoryID string, id auth.Identity) bool {
	category, err := s.store.GetCategory(r.Context(), categoryID, id.UserID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		internalError(w, r, log.OpRead, err, categoryFields(id, categoryID))
		return false
	}
	if err != nil || !category.VisibleTo(id.UserID) {
		writeError(w, http.StatusBadRequest, msgCategoryDenied)
		return false
	}
	return true
}

// normalizeCategoryID treats an empty id as no category.
func normalizeCategoryID(v *string) *string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil
	}
	return v
}

func expenseFields(id auth.Identity, expenseID string) log.LogFields {
	return log.NewFields().WithUser(id.UserID).With(log.FieldExpenseID, expenseID)
}
