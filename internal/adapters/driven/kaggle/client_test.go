package kaggle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ytengage/internal/core/domain"
)

var basicCreds = Credentials{Username: "alice", Key: "secret"}

// newTestClient points a client at server with a limiter that never blocks.
func newTestClient(server *httptest.Server, creds CredentialsFunc) *Client {
	c := NewClient(domain.ProviderSettings{BaseURL: server.URL, Timeout: 5 * time.Second}, creds)
	c.rateLimiter = NewRateLimiter(1000, 1000)
	return c
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(domain.ProviderSettings{}, nil)

	assert.Equal(t, domain.DefaultKaggleBaseURL, c.baseURL)
	assert.NotNil(t, c.credentials)
	assert.NotNil(t, c.rateLimiter)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient(domain.ProviderSettings{BaseURL: "http://example.test/api/v1/"}, nil)

	assert.Equal(t, "http://example.test/api/v1", c.baseURL)
}

func TestClient_Authenticate_BasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/list", r.URL.Path)
		user, key, ok := r.BasicAuth()
		if !ok || user != "alice" || key != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	err := newTestClient(server, StaticCredentials(basicCreds)).Authenticate(context.Background())

	assert.NoError(t, err)
}

func TestClient_Authenticate_BearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := newTestClient(server, StaticCredentials(Credentials{Token: "tok-123"}))

	assert.NoError(t, client.Authenticate(context.Background()))
}

func TestClient_Authenticate_Rejected(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		err := newTestClient(server, StaticCredentials(basicCreds)).Authenticate(context.Background())
		server.Close()

		assert.ErrorIs(t, err, domain.ErrAuthInvalid, "status %d", status)
	}
}

func TestClient_Authenticate_MissingCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected without credentials")
	}))
	defer server.Close()

	client := newTestClient(server, StaticCredentials(Credentials{Username: "alice"}))

	err := client.Authenticate(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestClient_DownloadBundle(t *testing.T) {
	payload := []byte("PK\x03\x04 fake archive bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datasets/download/datasnaek/youtube-new", r.URL.Path)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	dir := t.TempDir()
	client := newTestClient(server, StaticCredentials(basicCreds))

	path, err := client.DownloadBundle(context.Background(), "datasnaek", "youtube-new", dir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "youtube-new.zip"), path)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, content)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no partial files left behind")
}

func TestClient_DownloadBundle_FollowsRedirectWithoutCredentials(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		checkAuth func(t *testing.T, r *http.Request)
	}{
		{
			name:  "basic auth",
			creds: basicCreds,
			checkAuth: func(t *testing.T, r *http.Request) {
				_, _, ok := r.BasicAuth()
				assert.True(t, ok)
			},
		},
		{
			name:  "bearer token",
			creds: Credentials{Token: "tok-123"},
			checkAuth: func(t *testing.T, r *http.Request) {
				assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var storageAuth atomic.Value
			storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				storageAuth.Store(r.Header.Get("Authorization"))
				_, _ = w.Write([]byte("zip"))
			}))
			defer storage.Close()

			api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tt.checkAuth(t, r)
				http.Redirect(w, r, storage.URL+"/bucket/archive.zip", http.StatusFound)
			}))
			defer api.Close()

			path, err := newTestClient(api, StaticCredentials(tt.creds)).
				DownloadBundle(context.Background(), "datasnaek", "youtube-new", t.TempDir())

			require.NoError(t, err)
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "zip", string(content))
			assert.Equal(t, "", storageAuth.Load(), "storage host must not see credentials")
		})
	}
}

func TestClient_DownloadBundle_NotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	dir := t.TempDir()
	_, err := newTestClient(server, StaticCredentials(basicCreds)).
		DownloadBundle(context.Background(), "nobody", "nothing", dir)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestClient_DownloadBundle_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server, StaticCredentials(basicCreds)).
		DownloadBundle(context.Background(), "a", "b", t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_RateLimitedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server, StaticCredentials(basicCreds))

	err := client.Authenticate(context.Background())

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, client.rateLimiter.Allow(), "backoff window should be active")
}

func TestClient_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestClient(server, StaticCredentials(basicCreds)).Authenticate(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, 30*time.Second, retryAfter("30"))
	assert.Zero(t, retryAfter(""))
	assert.Zero(t, retryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
	assert.Zero(t, retryAfter("-5"))
}
