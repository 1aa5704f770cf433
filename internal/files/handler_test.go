package files

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supan/storage-service/internal/middleware"
	"github.com/supan/storage-service/internal/storage"
)

type fileServer struct {
	svc    *Service
	tokens *TokenService
	store  *storage.MemoryStore
	ts     *httptest.Server
}

func newFileServer(t *testing.T) *fileServer {
	t.Helper()

	store := storage.NewMemoryStore()
	tokens := NewTokenService("test-secret", 5*time.Minute)
	svc := NewService(store, tokens, "http://localhost:8080")

	r := chi.NewRouter()
	r.Route("/api/files", func(r chi.Router) {
		r.Use(middleware.RequireFileToken(tokens))
		r.Get("/*", NewHandler(svc).Serve)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return &fileServer{svc: svc, tokens: tokens, store: store, ts: ts}
}

func (f *fileServer) get(t *testing.T, route, token string) *http.Response {
	t.Helper()
	url := f.ts.URL + "/api/files/" + route
	if token != "" {
		url += "?token=" + token
	}
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp
}

func TestServeFileWithValidToken(t *testing.T) {
	f := newFileServer(t)
	ctx := context.Background()

	path := ProfilePicturePath(42)
	_, err := f.svc.Store(ctx, path, strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)

	token, err := f.tokens.IssueDefault(path)
	require.NoError(t, err)

	resp := f.get(t, "users/42/profile-picture", token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="profile.jpg"`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "public, max-age=3600", resp.Header.Get("Cache-Control"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(body))
}

func TestServeFileIgnoresRouteUsesTokenPath(t *testing.T) {
	f := newFileServer(t)
	ctx := context.Background()

	path := ProfilePicturePath(42)
	_, err := f.svc.Store(ctx, path, strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)

	token, err := f.tokens.IssueDefault(path)
	require.NoError(t, err)

	// A mismatched route still serves the token's bound object.
	resp := f.get(t, "products/1/thumbnail", token)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(body))
}

func TestServeFileMissingToken(t *testing.T) {
	f := newFileServer(t)

	resp := f.get(t, "users/42/profile-picture", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeFileTamperedToken(t *testing.T) {
	f := newFileServer(t)
	ctx := context.Background()

	path := ProfilePicturePath(42)
	_, err := f.svc.Store(ctx, path, strings.NewReader("abc"), 3, "image/jpeg")
	require.NoError(t, err)

	token, err := f.tokens.IssueDefault(path)
	require.NoError(t, err)
	tampered := token[:len(token)/2] + "x" + token[len(token)/2+1:]
	if tampered == token {
		tampered = token[:len(token)/2] + "y" + token[len(token)/2+1:]
	}

	resp := f.get(t, "users/42/profile-picture", tampered)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeFileExpiredToken(t *testing.T) {
	f := newFileServer(t)
	ctx := context.Background()

	path := ProductThumbnailPath(7)
	_, err := f.svc.Store(ctx, path, strings.NewReader("thumb"), 5, "image/jpeg")
	require.NoError(t, err)

	issued := time.Now()
	f.tokens.now = func() time.Time { return issued }
	token, err := f.tokens.Issue(path, time.Second)
	require.NoError(t, err)

	// Advance the clock past issuance + ttl.
	f.tokens.now = func() time.Time { return issued.Add(2 * time.Second) }

	resp := f.get(t, "products/7/thumbnail", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Expiry gates access only; the object itself is untouched.
	_, err = f.store.Stat(ctx, path)
	assert.NoError(t, err)
}

func TestServeFileMissingObject(t *testing.T) {
	f := newFileServer(t)

	token, err := f.tokens.IssueDefault(ProfilePicturePath(404))
	require.NoError(t, err)

	resp := f.get(t, "users/404/profile-picture", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
