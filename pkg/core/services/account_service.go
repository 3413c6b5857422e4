package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

type AccountService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

func NewAccountService(users ports.UserRepository, hasher ports.PasswordHasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

func (s *AccountService) Register(ctx context.Context, username, password string) (domain.UserView, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.UserView{}, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.UserView{}, err
	}
	if existing != nil {
		return domain.UserView{}, &domain.ConstraintError{
			Kind:    domain.ConstraintUnique,
			Column:  "username",
			Message: fmt.Sprintf("username %q is taken", username),
		}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return domain.UserView{}, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	// A concurrent registration can still lose the race on the unique index.
	if err := s.users.CreateUser(ctx, user); err != nil {
		return domain.UserView{}, err
	}

	return domain.NewUserView(user), nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (domain.Session, error) {
	if username == "" || password == "" {
		return domain.Anonymous(), fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Anonymous(), err
	}
	if user == nil {
		return domain.Anonymous(), fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return domain.Anonymous(), fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return domain.Anonymous(), domain.ErrInvalidPassword
	}

	return domain.NewSession(user), nil
}

var _ ports.AccountService = (*AccountService)(nil)
