package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"taskchat/internal/apierr"
	"taskchat/internal/credential"
)

func newStore(t *testing.T) *credential.Store {
	t.Helper()
	store, err := credential.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func signedInStore(t *testing.T) *credential.Store {
	t.Helper()
	store := newStore(t)
	require.NoError(t, store.Set(credential.Credential{
		Token:     oauth2.Token{AccessToken: "tok-1", TokenType: "bearer"},
		UserID:    "user-1",
		UserEmail: "a@x.com",
	}))
	return store
}

func newGateway(t *testing.T, baseURL string, store *credential.Store, onExpired func()) *Gateway {
	t.Helper()
	gw, err := New(Config{
		BaseURL:          baseURL,
		Credentials:      store,
		OnSessionExpired: onExpired,
	})
	require.NoError(t, err)
	return gw
}

func TestSendAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	gw := newGateway(t, srv.URL, signedInStore(t), nil)

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, gw.Send(context.Background(), http.MethodGet, "/tasks", nil, &out))
	assert.True(t, out.OK)
	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestSendAnonymousWithoutCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := newGateway(t, srv.URL, newStore(t), nil)
	require.NoError(t, gw.Send(context.Background(), http.MethodPost, "/auth/signin", map[string]string{"email": "a@x.com"}, nil))
	assert.Empty(t, gotAuth)
}

func TestUnauthorizedClearsCredentialAndFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid token"}`))
	}))
	defer srv.Close()

	store := signedInStore(t)
	hookCalls := 0
	gw := newGateway(t, srv.URL, store, func() { hookCalls++ })

	err := gw.Send(context.Background(), http.MethodGet, "/tasks", nil, nil)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeSessionExpired))

	// Credential wiped before the error was returned.
	_, ok := store.Get()
	assert.False(t, ok)
	assert.Equal(t, 1, hookCalls)
}

func TestRejectedCarriesServerDetailVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail":"Email already exists"}`))
	}))
	defer srv.Close()

	gw := newGateway(t, srv.URL, newStore(t), nil)
	err := gw.Send(context.Background(), http.MethodPost, "/auth/signup", map[string]string{}, nil)
	require.Error(t, err)

	var e *apierr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierr.CodeRejected, e.Code)
	assert.Equal(t, 409, e.Status)
	assert.Equal(t, "Email already exists", e.Message)
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Task not found"}`))
	}))
	defer srv.Close()

	gw := newGateway(t, srv.URL, signedInStore(t), nil)
	err := gw.Send(context.Background(), http.MethodDelete, "/tasks/99", nil, nil)
	assert.True(t, apierr.Is(err, apierr.CodeNotFound))
}

func TestTransportUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	store := signedInStore(t)
	gw := newGateway(t, url, store, nil)
	err := gw.Send(context.Background(), http.MethodGet, "/tasks", nil, nil)
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.CodeUnreachable))
	assert.Contains(t, err.Error(), "unable to reach the server")

	// Transport failures do not touch the credential.
	_, ok := store.Get()
	assert.True(t, ok)
}

func TestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`boom`))
	}))
	defer srv.Close()

	gw := newGateway(t, srv.URL, newStore(t), nil)
	err := gw.Send(context.Background(), http.MethodGet, "/tasks", nil, nil)
	require.Error(t, err)

	var e *apierr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apierr.CodeUnexpected, e.Code)
	assert.Equal(t, 500, e.Status)
	assert.Contains(t, e.Message, "boom")
}

func TestEmptySuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	gw := newGateway(t, srv.URL, signedInStore(t), nil)
	assert.NoError(t, gw.Send(context.Background(), http.MethodDelete, "/tasks/1", nil, nil))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{BaseURL: "http://x", Credentials: nil})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "not a url", Credentials: newStore(t)})
	assert.Error(t, err)
}
