package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the only place errors become HTTP statuses.
func writeError(log *zerolog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ce *domain.ConstraintError
	if errors.As(err, &ce) {
		status := http.StatusInternalServerError
		if ce.Kind == domain.ConstraintUnique {
			status = http.StatusConflict
		} else {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("constraint violation")
		}
		writeJSON(w, status, ce)
		return
	}

	status, ok := statusFor(err)
	if !ok {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("unhandled error")
		writeJSON(w, http.StatusInternalServerError, &domain.ConstraintError{Kind: domain.ConstraintUnknown})
		return
	}
	writeJSON(w, status, messageResponse{Message: err.Error()})
}

func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, true
	}
	return 0, false
}

// decodeJSON reads a request body into v, reporting malformed bodies as invalid input.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &invalidBodyError{err: err}
	}
	return nil
}

type invalidBodyError struct {
	err error
}

func (e *invalidBodyError) Error() string {
	return "invalid request body: " + e.err.Error()
}

func (e *invalidBodyError) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

func (e *invalidBodyError) Unwrap() error {
	return e.err
}
