package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
)

// UserRepository defines storage operations for accounts.
// Finders return nil, nil when nothing matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, userID string) (*domain.User, error) // Includes the user's links
	SetFlags(ctx context.Context, userID string, isAdmin, isPro bool) error
}

// LinkRepository defines storage operations for links
type LinkRepository interface {
	CreateLink(ctx context.Context, link *domain.Link) error
	FindLinkByID(ctx context.Context, linkID string) (*domain.Link, error)
	RecordVisit(ctx context.Context, linkID string, at time.Time) (*domain.Link, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error)
	DeleteLink(ctx context.Context, linkID string) error
	Dump(ctx context.Context) ([]domain.Link, error) // For migration
}

// Store is a database backend holding both accounts and links.
type Store interface {
	UserRepository
	LinkRepository
	Ping(ctx context.Context) error
	Close() error
}

// PasswordHasher hashes and verifies passwords with a one-way function.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// SessionStore loads and persists the caller's session across requests.
type SessionStore interface {
	Load(r *http.Request) (domain.Session, error)
	// Save replaces whatever session the request carried.
	Save(w http.ResponseWriter, r *http.Request, session domain.Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

// AccountService defines registration and login
type AccountService interface {
	Register(ctx context.Context, username, password string) (domain.UserView, error)
	Login(ctx context.Context, username, password string) (domain.Session, error)
}

// LinkService defines the business logic operations
type LinkService interface {
	Shorten(ctx context.Context, session domain.Session, originalURL string) (domain.LinkView, error)
	Resolve(ctx context.Context, linkID string) (*domain.Link, error)
	ListForUser(ctx context.Context, session domain.Session, targetUserID string) ([]domain.LinkView, error)
	DeleteLink(ctx context.Context, session domain.Session, targetUserID, linkID string) error
}
