package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/password"
	"github.com/wadjakorntonsri/shrink-ray/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
)

var testParams = password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

type fixture struct {
	repo     *sqlite.SQLiteRepository
	accounts *AccountService
	links    *LinkService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := sqlite.NewSQLiteRepository(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return &fixture{
		repo:     repo,
		accounts: NewAccountService(repo, password.NewArgon2Hasher(testParams)),
		links:    NewLinkService(repo, repo),
	}
}

// login registers username and returns its session with the given flags.
func (f *fixture) login(t *testing.T, username string, isAdmin, isPro bool) domain.Session {
	t.Helper()
	ctx := context.Background()
	view, err := f.accounts.Register(ctx, username, "pw-"+username)
	require.NoError(t, err)
	if isAdmin || isPro {
		require.NoError(t, f.repo.SetFlags(ctx, view.UserID, isAdmin, isPro))
	}
	session, err := f.accounts.Login(ctx, username, "pw-"+username)
	require.NoError(t, err)
	return session
}
