package http

import (
	"errors"
	"net/http"

	"budgetly/internal/auth"
	"budgetly/internal/core"
	"budgetly/internal/log"
	"budgetly/internal/storage"
	"budgetly/internal/validation"
)

type categoryBody struct {
	Category core.Category `json:"category"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	categories, err := s.store.ListCategoriesForUser(r.Context(), id.UserID)
	if err != nil {
		internalError(w, r, log.OpList, err, log.NewFields().WithUser(id.UserID))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]core.Category{"categories": categories})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var in validation.CreateCategoryInput
	if !bind(w, r, &in) {
		return
	}

	category, err := s.store.CreateCategory(r.Context(), storage.NewCategory{
		Name:   in.Name,
		Color:  in.Color,
		Icon:   in.Icon,
		UserID: id.UserID,
	})
	if err != nil {
		internalError(w, r, log.OpCreate, err, log.NewFields().WithUser(id.UserID))
		return
	}

	writeJSON(w, http.StatusCreated, categoryBody{Category: category})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	categoryID := r.PathValue("id")

	category, err := s.store.GetCategory(r.Context(), categoryID, id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		s.writeCategoryMiss(w, r, categoryID, id)
		return
	}
	if err != nil {
		internalError(w, r, log.OpRead, err, categoryFields(id, categoryID))
		return
	}
	if !category.VisibleTo(id.UserID) {
		writeError(w, http.StatusForbidden, msgForbidden)
		return
	}

	writeJSON(w, http.StatusOK, categoryBody{Category: category})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var in validation.UpdateCategoryInput
	if !bind(w, r, &in) {
		return
	}

	categoryID := r.PathValue("id")
	if !s.authorizeCategoryMutation(w, r, categoryID, id) {
		return
	}

	category, err := s.store.UpdateCategory(r.Context(), categoryID, id.UserID, storage.CategoryPatch{
		Name:  in.Name,
		Color: in.Color,
		Icon:  in.Icon,
	})
	if errors.Is(err, storage.ErrNotFound) {
		invariantViolation(w, r, log.OpUpdate, "Failed to update category", err, categoryFields(id, categoryID))
		return
	}
	if err != nil {
		internalError(w, r, log.OpUpdate, err, categoryFields(id, categoryID))
		return
	}

	writeJSON(w, http.StatusOK, categoryBody{Category: category})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	categoryID := r.PathValue("id")
	if !s.authorizeCategoryMutation(w, r, categoryID, id) {
		return
	}

	err := s.store.DeleteCategory(r.Context(), categoryID, id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		invariantViolation(w, r, log.OpDelete, "Failed to delete category", err, categoryFields(id, categoryID))
		return
	}
	if err != nil {
		internalError(w, r, log.OpDelete, err, categoryFields(id, categoryID))
		return
	}

	writeSuccess(w)
}

// authorizeCategoryMutation lets the request through only for a category
// the acting user owns. Defaults and foreign rows get 403, missing rows 404.
func (s *Server) authorizeCategoryMutation(w http.ResponseWriter, r *http.Request, categoryID string, id auth.Identity) bool {
	category, err := s.store.GetCategory(r.Context(), categoryID, id.UserID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.writeCategoryMiss(w, r, categoryID, id)
		return false
	case err != nil:
		internalError(w, r, log.OpRead, err, categoryFields(id, categoryID))
		return false
	case !category.OwnedBy(id.UserID):
		writeError(w, http.StatusForbidden, msgForbidden)
		return false
	}
	return true
}

// writeCategoryMiss tells a category that does not exist (404) from one
// that belongs to somebody else (403).
func (s *Server) writeCategoryMiss(w http.ResponseWriter, r *http.Request, categoryID string, id auth.Identity) {
	_, err := s.store.GetCategory(r.Context(), categoryID, "")
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "Category not found")
	case err != nil:
		internalError(w, r, log.OpRead, err, categoryFields(id, categoryID))
	default:
		writeError(w, http.StatusForbidden, msgForbidden)
	}
}

func categoryFields(id auth.Identity, categoryID string) log.LogFields {
	return log.NewFields().WithUser(id.UserID).With(log.FieldCategoryID, categoryID)
}
