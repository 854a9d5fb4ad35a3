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

const msgUserNotFound = "User not found"

type userBody struct {
	User core.User `json:"user"`
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	user, err := s.store.GetUserByID(r.Context(), id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	if err != nil {
		internalError(w, r, log.OpRead, err, log.NewFields().WithUser(id.UserID))
		return
	}
	writeJSON(w, http.StatusOK, userBody{User: user})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var in validation.UpdateProfileInput
	if !bind(w, r, &in) {
		return
	}

	patch := storage.UserPatch{Name: in.Name}
	if in.Email != nil {
		email := core.NormalizeEmail(*in.Email)
		patch.Email = &email
	}

	user, err := s.store.UpdateUser(r.Context(), id.UserID, patch)
	switch {
	case errors.Is(err, storage.ErrAlreadyExists):
		writeError(w, http.StatusBadRequest, "Email already in use")
		return
	case errors.Is(err, storage.ErrNotFound):
		invariantViolation(w, r, log.OpUpdate, "Failed to update profile", err, log.NewFields().WithUser(id.UserID))
		return
	case err != nil:
		internalError(w, r, log.OpUpdate, err, log.NewFields().WithUser(id.UserID))
		return
	}

	writeJSON(w, http.StatusOK, userBody{User: user})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var in validation.ChangePasswordInput
	if !bind(w, r, &in) {
		return
	}

	user, err := s.store.GetUserByID(r.Context(), id.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	}
	if err != nil {
		internalError(w, r, log.OpRead, err, log.NewFields().WithUser(id.UserID))
		return
	}

	if err := s.hasher.Compare(user.PasswordHash, in.CurrentPassword); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			internalError(w, r, log.OpUpdate, err, log.NewFields().WithUser(id.UserID))
			return
		}
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		internalError(w, r, log.OpUpdate, err, log.NewFields().WithUser(id.UserID))
		return
	}

	if _, err := s.store.UpdateUser(r.Context(), id.UserID, storage.UserPatch{PasswordHash: &hash}); err != nil {
		internalError(w, r, log.OpUpdate, err, log.NewFields().WithUser(id.UserID))
		return
	}

	writeSuccess(w)
}
