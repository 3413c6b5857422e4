package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/shrink-ray/pkg/app"
	"github.com/wadjakorntonsri/shrink-ray/pkg/config"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/domain"
	"github.com/wadjakorntonsri/shrink-ray/pkg/core/policy"
)

func newServer(t *testing.T, dbName string) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		DatabaseURL:   "file:" + dbName + "?mode=memory&cache=shared",
		AppEnv:        "test",
		SessionSecret: "e2e-secret",
		SessionTTL:    time.Hour,
		SessionStore:  config.SessionStoreCookie,
	}
	log := zerolog.Nop()
	application, err := app.New(cfg, &log)
	require.NoError(t, err)

	server := httptest.NewServer(application.Handler)
	t.Cleanup(func() {
		server.Close()
		application.Close()
	})
	return server
}

// newClient keeps cookies and does not follow redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postJSON(t *testing.T, client *http.Client, url string, payload interface{}, out interface{}) int {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestIntegration(t *testing.T) {
	server := newServer(t, "e2e_flow")
	client := newClient(t)
	creds := map[string]string{"username": "alice", "password": "pw123"}

	// Register, then log in to get the session cookie
	var user domain.UserView
	require.Equal(t, http.StatusCreated, postJSON(t, client, server.URL+"/api/users", creds, &user))
	assert.Equal(t, "alice", user.Username)

	var sessionUser domain.SessionUser
	require.Equal(t, http.StatusOK, postJSON(t, client, server.URL+"/api/login", creds, &sessionUser))
	assert.Equal(t, user.UserID, sessionUser.UserID)

	// Shorten
	var link domain.LinkView
	require.Equal(t, http.StatusCreated, postJSON(t, client, server.URL+"/api/links",
		map[string]string{"originalUrl": "https://example.com/a/very/long/path"}, &link))
	require.NotEmpty(t, link.LinkID)

	hits := func() int64 {
		resp, err := client.Get(server.URL + "/api/users/" + user.UserID + "/links")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var links []domain.LinkView
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&links))
		require.Len(t, links, 1)
		require.NotNil(t, links[0].NumHits)
		return *links[0].NumHits
	}
	assert.EqualValues(t, 0, hits())

	// Each redirect is counted before the response is sent
	for want := int64(1); want <= 2; want++ {
		resp, err := client.Get(server.URL + "/" + link.LinkID)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://example.com/a/very/long/path", resp.Header.Get("Location"))
		assert.Equal(t, want, hits())
	}

	// Anonymous callers only get the restricted view
	resp, err := http.Get(server.URL + "/api/users/" + user.UserID + "/links")
	require.NoError(t, err)
	defer resp.Body.Close()
	var restricted []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&restricted))
	require.Len(t, restricted, 1)
	assert.NotContains(t, restricted[0], "numHits")
}

func TestQuotaAndDeletion(t *testing.T) {
	server := newServer(t, "e2e_quota")
	alice := newClient(t)
	bob := newClient(t)

	signup := func(client *http.Client, name string) string {
		creds := map[string]string{"username": name, "password": "pw-" + name}
		var user domain.UserView
		require.Equal(t, http.StatusCreated, postJSON(t, client, server.URL+"/api/users", creds, &user))
		require.Equal(t, http.StatusOK, postJSON(t, client, server.URL+"/api/login", creds, nil))
		return user.UserID
	}
	aliceID := signup(alice, "alice")
	signup(bob, "bob")

	var ids []string
	for i := 0; i < policy.LinkQuota; i++ {
		var link domain.LinkView
		require.Equal(t, http.StatusCreated, postJSON(t, alice, server.URL+"/api/links",
			map[string]string{"originalUrl": fmt.Sprintf("https://example.com/%d", i)}, &link))
		ids = append(ids, link.LinkID)
	}
	assert.Equal(t, http.StatusForbidden, postJSON(t, alice, server.URL+"/api/links",
		map[string]string{"originalUrl": "https://example.com/over"}, nil))

	del := func(client *http.Client, linkID string) int {
		req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/users/"+aliceID+"/links/"+linkID, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusForbidden, del(bob, ids[0]))
	assert.Equal(t, http.StatusOK, del(alice, ids[0]))
	assert.Equal(t, http.StatusNotFound, del(alice, ids[0]))

	// Deleting frees quota
	assert.Equal(t, http.StatusCreated, postJSON(t, alice, server.URL+"/api/links",
		map[string]string{"originalUrl": "https://example.com/over"}, nil))
}
