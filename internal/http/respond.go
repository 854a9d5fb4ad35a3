package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"budgetly/internal/log"
	"budgetly/internal/validation"
)

// maxBodyBytes bounds request bodies; every payload here is a small object.
const maxBodyBytes = 1 << 20

const (
	msgInvalidJSON  = "Invalid JSON payload"
	msgValidation   = "Validation error"
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden"
	msgInternal     = "Internal server error"
)

var errInvalidJSON = errors.New("invalid JSON payload")

type errorBody struct {
	Error   string             `json:"error"`
	Details []validation.Issue `json:"details,omitempty"`
}

type successBody struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, successBody{Success: true})
}

// decodeJSON reads exactly one JSON value from the body into v.
func decodeJSON(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data", errInvalidJSON)
	}
	return nil
}

// bind decodes and validates the body into v, answering 400 on failure.
// It reports whether the handler may continue.
func bind(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(r, w, v); err != nil {
		if issue, ok := validation.DecodeIssue(err); ok {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgValidation, Details: []validation.Issue{issue}})
			return false
		}
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	if err := validation.Validate(v); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: msgValidation, Details: verr.Issues})
			return false
		}
		writeError(w, http.StatusBadRequest, msgValidation)
		return false
	}
	return true
}

// internalError logs err with the request's logger and answers 500 with
// a generic body. Store messages never reach the client.
func internalError(w http.ResponseWriter, r *http.Request, operation string, err error, fields log.LogFields) {
	log.FromContext(r.Context()).LogError(r.Context(), "Request failed", err, operation,
		orFields(fields).WithErrorType(log.ErrorTypeDatabase))
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// invariantViolation answers 500 with msg for a mutation that matched no
// row after its target was confirmed to exist.
func invariantViolation(w http.ResponseWriter, r *http.Request, operation, msg string, err error, fields log.LogFields) {
	log.FromContext(r.Context()).LogError(r.Context(), msg, err, operation,
		orFields(fields).WithErrorType(log.ErrorTypeInvariant))
	writeError(w, http.StatusInternalServerError, msg)
}

func orFields(f log.LogFields) log.LogFields {
	if f == nil {
		return log.NewFields()
	}
	return f
}
