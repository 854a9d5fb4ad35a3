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

type sessionBody struct {
	User  core.User `json:"user"`
	Token string    `json:"token"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in validation.RegisterInput
	if !bind(w, r, &in) {
		return
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		internalError(w, r, log.OpRegister, err, nil)
		return
	}

	user, err := s.store.CreateUser(r.Context(), storage.NewUser{
		Email:        core.NormalizeEmail(in.Email),
		Name:         in.Name,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		internalError(w, r, log.OpRegister, err, nil)
		return
	}

	s.writeSession(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in validation.LoginInput
	if !bind(w, r, &in) {
		return
	}

	user, err := s.store.GetUserByEmail(r.Context(), core.NormalizeEmail(in.Email))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		internalError(w, r, log.OpLogin, err, nil)
		return
	}
	if err == nil {
		err = s.hasher.Compare(user.PasswordHash, in.Password)
	}
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) && !errors.Is(err, auth.ErrPasswordMismatch) {
			internalError(w, r, log.OpLogin, err, nil)
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	s.writeSession(w, r, http.StatusOK, user)
}

func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, status int, user core.User) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		internalError(w, r, log.OpLogin, err, log.NewFields().WithUser(user.ID))
		return
	}
	writeJSON(w, status, sessionBody{User: user, Token: token})
}
