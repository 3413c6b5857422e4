package shortid

import (
	"crypto/md5"
	"encoding/base64"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var urlSafe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive("https://example.com", "4f1c2a36-0000-4000-8000-000000000001")
	b := Derive("https://example.com", "4f1c2a36-0000-4000-8000-000000000001")

	assert.Equal(t, a, b)
	assert.Len(t, a, 13)
	assert.Equal(t, 13, Length)
	assert.Regexp(t, urlSafe, a)
}

func TestDeriveMatchesDigestSuffix(t *testing.T) {
	sum := md5.Sum([]byte("https://example.comuser-1"))
	full := base64.RawURLEncoding.EncodeToString(sum[:])
	require.Len(t, full, 22)

	assert.Equal(t, full[9:], Derive("https://example.com", "user-1"))
}

func TestDeriveDistinguishesInputs(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		owner string
	}{
		{name: "other url", url: "https://example.org", owner: "user-1"},
		{name: "other owner", url: "https://example.com", owner: "user-2"},
		{name: "empty owner", url: "https://example.com", owner: ""},
	}

	base := Derive("https://example.com", "user-1")
	seen := map[string]string{base: "base"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.url, tt.owner)
			prev, dup := seen[got]
			assert.False(t, dup, "identifier %q collides with %s", got, prev)
			seen[got] = tt.name
		})
	}
}

func TestDeriveHasNoDelimiter(t *testing.T) {
	// Concatenation without a separator means these two pairs share a digest.
	assert.Equal(t, Derive("https://a.io/x", "y"), Derive("https://a.io/", "xy"))
}
