package fenixv24

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthedClient wires a client against a test server that issues tokens
// on /auth/token and delegates everything else to api.
func newAuthedClient(t *testing.T, tokenRequests *atomic.Int64, expiresIn int, api http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/token" {
			tokenRequests.Add(1)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"test-token","refresh_token":"test-refresh","expires_in":`+
				strconv.Itoa(expiresIn)+`,"token_type":"Bearer"}`)
			return
		}
		if api != nil {
			api(w, r)
			return
		}
		t.Fatalf("unexpected path: %s", r.URL.Path)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient("me@example.com", "secret", "smart-1",
		WithBaseURL(server.URL),
		WithTokenURL(server.URL+"/auth/token"))
	require.NoError(t, err)
	return client
}

func TestEnsureToken_CachesWithinWindow(t *testing.T) {
	var tokenRequests atomic.Int64
	client := newAuthedClient(t, &tokenRequests, 3600, nil)

	ctx := context.Background()
	first, err := client.ensureToken(ctx)
	require.NoError(t, err)
	second, err := client.ensureToken(ctx)
	require.NoError(t, err)

	assert.Equal(t, "test-token", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), tokenRequests.Load())
}

func TestEnsureToken_ReauthenticatesInsideMargin(t *testing.T) {
	// A token expiring in 20s is already inside the 30s refresh margin,
	// so the second call must authenticate again.
	var tokenRequests atomic.Int64
	client := newAuthedClient(t, &tokenRequests, 20, nil)

	ctx := context.Background()
	_, err := client.ensureToken(ctx)
	require.NoError(t, err)
	_, err = client.ensureToken(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), tokenRequests.Load())
}

func TestEnsureToken_CollapsesConcurrentCallers(t *testing.T) {
	var tokenRequests atomic.Int64

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		time.Sleep(50 * time.Millisecond) // hold callers in flight
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"test-token","refresh_token":"test-refresh","expires_in":3600,"token_type":"Bearer"}`)
	}))
	defer server.Close()

	client, err := NewClient("me@example.com", "secret", "smart-1",
		WithBaseURL(server.URL),
		WithTokenURL(server.URL+"/auth/token"))
	require.NoError(t, err)

	const callers = 10
	tokens := make([]string, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = client.ensureToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "test-token", tokens[i])
	}
	assert.Equal(t, int64(1), tokenRequests.Load())
}

func TestEnsureToken_SendsPasswordGrant(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "app-front", r.PostForm.Get("client_id"))
		assert.Equal(t, "me@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "secret", r.PostForm.Get("password"))
		assert.Equal(t, "openid email profile", r.PostForm.Get("scope"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"test-token","refresh_token":"test-refresh","expires_in":3600,"token_type":"Bearer"}`)
	}))
	defer server.Close()

	client, err := NewClient("me@example.com", "secret", "smart-1",
		WithBaseURL(server.URL),
		WithTokenURL(server.URL+"/auth/token"))
	require.NoError(t, err)

	_, err = client.ensureToken(context.Background())
	require.NoError(t, err)
}

func TestEnsureToken_RejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid user credentials"}`)
	}))
	defer server.Close()

	client, err := NewClient("me@example.com", "wrong", "smart-1",
		WithBaseURL(server.URL),
		WithTokenURL(server.URL+"/auth/token"))
	require.NoError(t, err)

	err = client.Authenticate(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
}

func TestEnsureToken_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token_type":"Bearer"}`)
	}))
	defer server.Close()

	client, err := NewClient("me@example.com", "secret", "smart-1",
		WithBaseURL(server.URL),
		WithTokenURL(server.URL+"/auth/token"))
	require.NoError(t, err)

	_, err = client.ensureToken(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestEnsureToken_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient("me@example.com", "secret", "smart-1",
		WithBaseURL(server.URL),
		WithTokenURL(server.URL+"/auth/token"))
	require.NoError(t, err)

	_, err = client.ensureToken(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestEnsureToken_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient("me@example.com", "secret", "smart-1",
		WithBaseURL(url),
		WithTokenURL(url+"/auth/token"))
	require.NoError(t, err)

	_, err = client.ensureToken(context.Background())
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}
