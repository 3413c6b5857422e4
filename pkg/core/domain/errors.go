package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrUnauthorized    = errors.New("not logged in")
	ErrForbidden       = errors.New("forbidden")
	ErrQuotaExceeded   = errors.New("link quota exceeded")
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidInput    = errors.New("invalid input")
)

// ConstraintKind names the database rule that rejected a write.
type ConstraintKind string

const (
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintNotNull    ConstraintKind = "not null"
	ConstraintForeignKey ConstraintKind = "foreign key"
	ConstraintUnknown    ConstraintKind = "unknown"
)

// ConstraintError is how every persistence failure leaves a repository.
// It is safe to send to clients: Err is never encoded.
type ConstraintError struct {
	Kind    ConstraintKind `json:"type"`
	Column  string         `json:"columnName,omitempty"`
	Message string         `json:"message,omitempty"`
	Err     error          `json:"-"`
}

func (e *ConstraintError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s constraint violated on %s", e.Kind, e.Column)
	}
	return fmt.Sprintf("%s constraint violated", e.Kind)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Is reports unique violations as ErrConflict.
func (e *ConstraintError) Is(target error) bool {
	return target == ErrConflict && e.Kind == ConstraintUnique
}
