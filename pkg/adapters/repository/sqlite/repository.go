package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	_ "modernc.org/sqlite"                               // Local SQLite driver

	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository/dberr"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	if driverName == "sqlite" {
		dbURL = withForeignKeys(dbURL)
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	if driverName == "sqlite" {
		// SQLite allows a single writer; one connection also keeps shared
		// in-memory databases alive for the life of the pool.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

// withForeignKeys enables foreign key enforcement, which SQLite sets per connection.
func withForeignKeys(dbURL string) string {
	if strings.Contains(dbURL, "foreign_keys") {
		return dbURL
	}
	sep := "?"
	if strings.Contains(dbURL, "?") {
		sep = "&"
	}
	return dbURL + sep + "_pragma=foreign_keys(1)"
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT 0,
		is_pro BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS links (
		link_id TEXT PRIMARY KEY,
		original_url TEXT NOT NULL,
		num_hits INTEGER NOT NULL DEFAULT 0 CONSTRAINT num_hits_non_negative CHECK (num_hits >= 0),
		last_accessed_on DATETIME NOT NULL,
		user_id TEXT NOT NULL,
		FOREIGN KEY(user_id) REFERENCES users(user_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_links_user_id ON links(user_id);
	`
	_, err := db.Exec(query)
	return err
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// --- Account Store ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (user_id, username, password_hash, is_admin, is_pro, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash, user.IsAdmin, user.IsPro, user.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create user: %w", dberr.Classify(err))
	}
	return nil
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT user_id, username, password_hash, is_admin, is_pro, created_at
			  FROM users WHERE username = ?`

	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *SQLiteRepository) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT user_id, username, password_hash, is_admin, is_pro, created_at
			  FROM users WHERE user_id = ?`

	user, err := r.scanUser(r.db.QueryRowContext(ctx, query, userID))
	if err != nil || user == nil {
		return user, err
	}

	user.Links, err = r.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.IsPro, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return &u, nil
}

func (r *SQLiteRepository) SetFlags(ctx context.Context, userID string, isAdmin, isPro bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_admin = ?, is_pro = ? WHERE user_id = ?`, isAdmin, isPro, userID)
	if err != nil {
		return dberr.Classify(err)
	}
	return expectRow(res)
}

// --- Link Store ---

// linkColumns selects a link joined with its owner projection.
const linkColumns = `l.link_id, l.original_url, l.num_hits, l.last_accessed_on,
			  u.user_id, u.username, u.is_admin, u.is_pro
			  FROM links l JOIN users u ON u.user_id = l.user_id`

func (r *SQLiteRepository) CreateLink(ctx context.Context, link *domain.Link) error {
	query := `INSERT INTO links (link_id, original_url, num_hits, last_accessed_on, user_id)
			  VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, link.ID, link.OriginalURL, link.NumHits, link.LastAccessedOn.UTC(), link.Owner.ID)
	if err != nil {
		return fmt.Errorf("create link: %w", dberr.Classify(err))
	}
	return nil
}

func (r *SQLiteRepository) FindLinkByID(ctx context.Context, linkID string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` WHERE l.link_id = ?`

	var l domain.Link
	err := scanLink(r.db.QueryRowContext(ctx, query, linkID), &l)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Classify(err)
	}
	return &l, nil
}

// RecordVisit counts a visit in a single statement so concurrent visits
// cannot overwrite each other's increments.
func (r *SQLiteRepository) RecordVisit(ctx context.Context, linkID string, at time.Time) (*domain.Link, error) {
	query := `UPDATE links SET num_hits = num_hits + 1, last_accessed_on = ? WHERE link_id = ?`

	res, err := r.db.ExecContext(ctx, query, at.UTC(), linkID)
	if err != nil {
		return nil, fmt.Errorf("record visit: %w", dberr.Classify(err))
	}
	if err := expectRow(res); err != nil {
		return nil, err
	}

	return r.FindLinkByID(ctx, linkID)
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` WHERE l.user_id = ? ORDER BY l.link_id`
	return r.queryLinks(ctx, query, ownerID)
}

func (r *SQLiteRepository) DeleteLink(ctx context.Context, linkID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE link_id = ?`, linkID)
	if err != nil {
		return fmt.Errorf("delete link: %w", dberr.Classify(err))
	}
	return expectRow(res)
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` ORDER BY u.username, l.link_id`
	return r.queryLinks(ctx, query)
}

func (r *SQLiteRepository) queryLinks(ctx context.Context, query string, args ...interface{}) ([]domain.Link, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dberr.Classify(err)
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		var l domain.Link
		if err := scanLink(rows, &l); err != nil {
			return nil, dberr.Classify(err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Classify(err)
	}
	return links, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(s scanner, l *domain.Link) error {
	return s.Scan(
		&l.ID, &l.OriginalURL, &l.NumHits, &l.LastAccessedOn,
		&l.Owner.ID, &l.Owner.Username, &l.Owner.IsAdmin, &l.Owner.IsPro,
	)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dberr.Classify(err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Ensure interface compliance
var _ ports.Store = (*SQLiteRepository)(nil)
