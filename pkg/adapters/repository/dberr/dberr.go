// Package dberr turns driver errors into domain.ConstraintError values so the
// HTTP layer never sees raw database messages.
package dberr

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
)

// PostgreSQL SQLSTATE codes for integrity violations.
const (
	pgNotNull    = "23502"
	pgForeignKey = "23503"
	pgUnique     = "23505"
	pgCheck      = "23514"
)

// SQLite reports constraint failures only through the message text, e.g.
// "UNIQUE constraint failed: users.username".
var sqliteConstraint = regexp.MustCompile(`(UNIQUE|NOT NULL|CHECK|FOREIGN KEY) constraint failed(?::\s*([\w.]+))?`)

// Classify wraps err in a *domain.ConstraintError. It returns nil for nil and
// passes through errors that already are one.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var ce *domain.ConstraintError
	if errors.As(err, &ce) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.ConstraintError{
			Kind:    pgKind(pgErr.Code),
			Column:  pgColumn(pgErr),
			Message: pgErr.Message,
			Err:     err,
		}
	}

	if m := sqliteConstraint.FindStringSubmatch(err.Error()); m != nil {
		return &domain.ConstraintError{
			Kind:    sqliteKind(m[1]),
			Column:  column(m[2]),
			Message: m[0],
			Err:     err,
		}
	}

	return &domain.ConstraintError{Kind: domain.ConstraintUnknown, Err: err}
}

func pgKind(code string) domain.ConstraintKind {
	switch code {
	case pgUnique:
		return domain.ConstraintUnique
	case pgCheck:
		return domain.ConstraintCheck
	case pgNotNull:
		return domain.ConstraintNotNull
	case pgForeignKey:
		return domain.ConstraintForeignKey
	}
	return domain.ConstraintUnknown
}

func pgColumn(e *pgconn.PgError) string {
	if e.ColumnName != "" {
		return e.ColumnName
	}
	// Unique violations name the index rather than the column.
	return e.ConstraintName
}

func sqliteKind(s string) domain.ConstraintKind {
	switch s {
	case "UNIQUE":
		return domain.ConstraintUnique
	case "CHECK":
		return domain.ConstraintCheck
	case "NOT NULL":
		return domain.ConstraintNotNull
	case "FOREIGN KEY":
		return domain.ConstraintForeignKey
	}
	return domain.ConstraintUnknown
}

// column strips the table prefix: "users.username" -> "username".
func column(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}
