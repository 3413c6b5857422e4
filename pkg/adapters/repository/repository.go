// Package repository opens the store backend named by a database URL.
package repository

import (
	"strings"

	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository/postgres"
	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

// Open returns the PostgreSQL store for postgres:// URLs and the SQLite store
// (local file, memory, or libsql) for everything else.
func Open(dbURL string) (ports.Store, error) {
	if IsPostgres(dbURL) {
		repo, err := postgres.NewPostgresRepository(dbURL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	repo, err := sqlite.NewSQLiteRepository(dbURL)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func IsPostgres(dbURL string) bool {
	return strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://")
}
