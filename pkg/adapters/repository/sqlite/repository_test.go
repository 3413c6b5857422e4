package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := NewSQLiteRepository(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, id, username string) *domain.User {
	t.Helper()
	u := &domain.User{ID: id, Username: username, PasswordHash: "hash", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func seedLink(t *testing.T, repo *SQLiteRepository, id string, owner *domain.User) {
	t.Helper()
	link := &domain.Link{ID: id, OriginalURL: "https://example.com/" + id, Owner: owner.Owner(), LastAccessedOn: time.Now()}
	require.NoError(t, repo.CreateLink(context.Background(), link))
}

func TestUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := seedUser(t, repo, "u-1", "alice")

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	missing, err := repo.FindByUsername(ctx, "Alice")
	require.NoError(t, err)
	assert.Nil(t, missing, "usernames are case-sensitive")

	err = repo.CreateUser(ctx, &domain.User{ID: "u-2", Username: "alice", PasswordHash: "x", CreatedAt: time.Now()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	var ce *domain.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "username", ce.Column)
}

func TestFindByIDIncludesLinks(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	alice := seedUser(t, repo, "u-1", "alice")
	seedLink(t, repo, "aaa", alice)
	seedLink(t, repo, "bbb", alice)

	got, err := repo.FindByID(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Links, 2)

	none, err := repo.FindByID(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestCreateLinkRejectsDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "u-1", "alice")
	seedLink(t, repo, "dup", alice)

	err := repo.CreateLink(context.Background(), &domain.Link{ID: "dup", OriginalURL: "https://other", Owner: alice.Owner(), LastAccessedOn: time.Now()})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateLinkRequiresOwner(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.CreateLink(context.Background(), &domain.Link{ID: "orphan", OriginalURL: "https://x", Owner: domain.Owner{ID: "ghost"}, LastAccessedOn: time.Now()})

	var ce *domain.ConstraintError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.ConstraintForeignKey, ce.Kind)
}

func TestFindLinkByIDIncludesOwner(t *testing.T) {
	repo := newTestRepo(t)
	alice := seedUser(t, repo, "u-1", "alice")
	require.NoError(t, repo.SetFlags(context.Background(), alice.ID, false, true))
	seedLink(t, repo, "abc", alice)

	link, err := repo.FindLinkByID(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, domain.Owner{ID: "u-1", Username: "alice", IsPro: true}, link.Owner)
	assert.EqualValues(t, 0, link.NumHits)

	missing, err := repo.FindLinkByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecordVisit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "u-1", "alice")
	seedLink(t, repo, "abc", alice)

	var last time.Time
	for i := 0; i < 3; i++ {
		last = time.Now().Add(time.Duration(i) * time.Minute)
		link, err := repo.RecordVisit(ctx, "abc", last)
		require.NoError(t, err)
		assert.EqualValues(t, i+1, link.NumHits)
	}

	link, err := repo.FindLinkByID(ctx, "abc")
	require.NoError(t, err)
	assert.EqualValues(t, 3, link.NumHits)
	assert.WithinDuration(t, last, link.LastAccessedOn, time.Millisecond)

	_, err = repo.RecordVisit(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteLink(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "u-1", "alice")
	seedLink(t, repo, "keep", alice)
	seedLink(t, repo, "drop", alice)

	require.NoError(t, repo.DeleteLink(ctx, "drop"))
	assert.ErrorIs(t, repo.DeleteLink(ctx, "drop"), domain.ErrNotFound)

	links, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "keep", links[0].ID)

	user, err := repo.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, user, "deleting a link leaves its owner")
}

func TestListByOwnerAndDump(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "u-1", "alice")
	bob := seedUser(t, repo, "u-2", "bob")
	seedLink(t, repo, "a1", alice)
	seedLink(t, repo, "b1", bob)
	seedLink(t, repo, "b2", bob)

	links, err := repo.ListByOwner(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	for _, l := range links {
		assert.Equal(t, "bob", l.Owner.Username)
	}

	empty, err := repo.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	all, err := repo.Dump(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSetFlagsUnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	assert.ErrorIs(t, repo.SetFlags(context.Background(), "ghost", true, true), domain.ErrNotFound)
}
