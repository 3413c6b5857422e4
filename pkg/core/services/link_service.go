package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/policy"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/shortid"
	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

// LinkService runs each request as session, existence, authorization and
// quota checks followed by a single store operation.
type LinkService struct {
	users ports.UserRepository
	links ports.LinkRepository
	now   func() time.Time
}

func NewLinkService(users ports.UserRepository, links ports.LinkRepository) *LinkService {
	return &LinkService{users: users, links: links, now: time.Now}
}

func (s *LinkService) Shorten(ctx context.Context, session domain.Session, originalURL string) (domain.LinkView, error) {
	if err := policy.RequireSession(session); err != nil {
		return domain.LinkView{}, err
	}
	if strings.TrimSpace(originalURL) == "" {
		return domain.LinkView{}, fmt.Errorf("%w: originalUrl is required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, session.UserID())
	if err != nil {
		return domain.LinkView{}, err
	}
	if user == nil {
		return domain.LinkView{}, fmt.Errorf("%w: user %s", domain.ErrNotFound, session.UserID())
	}

	if err := policy.CheckQuota(session, len(user.Links)); err != nil {
		return domain.LinkView{}, err
	}

	link := domain.Link{
		ID:             shortid.Derive(originalURL, user.ID),
		OriginalURL:    originalURL,
		Owner:          user.Owner(),
		NumHits:        0,
		LastAccessedOn: s.now(),
	}

	// Identifier collisions surface as a unique ConstraintError.
	if err := s.links.CreateLink(ctx, &link); err != nil {
		return domain.LinkView{}, err
	}

	return domain.ProjectLink(link, domain.ViewFull), nil
}

// Resolve records a visit and returns the updated link. The visit is stored
// before the caller sends the redirect.
func (s *LinkService) Resolve(ctx context.Context, linkID string) (*domain.Link, error) {
	link, err := s.links.FindLinkByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, fmt.Errorf("%w: link %s", domain.ErrNotFound, linkID)
	}

	return s.links.RecordVisit(ctx, link.ID, s.now())
}

func (s *LinkService) ListForUser(ctx context.Context, session domain.Session, targetUserID string) ([]domain.LinkView, error) {
	user, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, targetUserID)
	}

	return domain.ProjectLinks(user.Links, policy.LinkListView(session, targetUserID)), nil
}

func (s *LinkService) DeleteLink(ctx context.Context, session domain.Session, targetUserID, linkID string) error {
	if err := policy.RequireSession(session); err != nil {
		return err
	}

	link, err := s.links.FindLinkByID(ctx, linkID)
	if err != nil {
		return err
	}
	if link == nil || link.Owner.ID != targetUserID {
		return fmt.Errorf("%w: link %s of user %s", domain.ErrNotFound, linkID, targetUserID)
	}

	if err := policy.CanDeleteLink(session, *link); err != nil {
		return err
	}

	return s.links.DeleteLink(ctx, link.ID)
}

var _ ports.LinkService = (*LinkService)(nil)
