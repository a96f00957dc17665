package token_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-booking-sync/internal/config"
	"github.com/jrsteele09/go-booking-sync/internal/errors"
	"github.com/jrsteele09/go-booking-sync/token"
	"github.com/jrsteele09/go-booking-sync/token/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-1"
	testClientSecret = "secret-1"
	testRedirectURI  = "http://localhost:8080/crm/callback"
)

var fixedNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

// testFixture holds a store wired to a fake token endpoint
type testFixture struct {
	repo     *repofake.FakeCredentialRepo
	store    *token.Store
	server   *httptest.Server
	hits     atomic.Int32
	status   int
	body     string
	lastForm map[string]string
	mu       sync.Mutex
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		repo:   repofake.NewFakeCredentialRepo(),
		status: http.StatusOK,
		body:   `{"access_token":"new-access","refresh_token":"new-refresh","expires_in":3600,"token_type":"bearer"}`,
	}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		_ = r.ParseForm()

		f.mu.Lock()
		f.lastForm = map[string]string{}
		for k := range r.PostForm {
			f.lastForm[k] = r.PostForm.Get(k)
		}
		status, body := f.status, f.body
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.server.Close)

	cfg := config.New(&config.Settings{
		CRM: config.CRMSettings{
			ClientID:     testClientID,
			ClientSecret: testClientSecret,
			RedirectURI:  testRedirectURI,
			AuthorizeURL: "https://accounts.example.com/app/oauth/authorize",
			TokenURL:     f.server.URL + "/token",
		},
	})

	f.store = token.NewStore(f.repo, cfg,
		token.WithNowFunc(func() time.Time { return fixedNow }),
		token.WithHTTPClient(f.server.Client()),
	)
	return f
}

func (f *testFixture) respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = body
}

func (f *testFixture) form(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastForm[key]
}

func (f *testFixture) seed(t *testing.T, c token.Credential) {
	t.Helper()
	require.NoError(t, f.repo.Upsert(&c))
}

func TestAccessTokenReturnsCachedTokenWhenValid(t *testing.T) {
	f := setupTestFixture(t)
	f.seed(t, token.Credential{AccessToken: "cached", RefreshToken: "r1", ExpiresAt: fixedNow.Add(time.Minute)})

	tok, err := f.store.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cached", tok)
	require.Equal(t, int32(0), f.hits.Load())
	require.Equal(t, token.StateValid, f.store.State())
}

func TestAccessTokenRefreshesOnceWhenExpired(t *testing.T) {
	f := setupTestFixture(t)
	f.seed(t, token.Credential{AccessToken: "stale", RefreshToken: "r1", ExpiresAt: fixedNow})
	require.Equal(t, token.StateExpired, f.store.State())

	tok, err := f.store.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new-access", tok)
	require.Equal(t, int32(1), f.hits.Load())

	require.Equal(t, "refresh_token", f.form("grant_type"))
	require.Equal(t, "r1", f.form("refresh_token"))
	require.Equal(t, testClientID, f.form("client_id"))
	require.Equal(t, testClientSecret, f.form("client_secret"))

	stored, err := f.repo.Get()
	require.NoError(t, err)
	require.Equal(t, "new-refresh", stored.RefreshToken)
	require.True(t, fixedNow.Add(time.Hour).Equal(stored.ExpiresAt))

	// Second call is served from the refreshed credential.
	tok, err = f.store.AccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new-access", tok)
	require.Equal(t, int32(1), f.hits.Load())
}

func TestConcurrentAccessTokenRefreshesOnce(t *testing.T) {
	f := setupTestFixture(t)
	f.seed(t, token.Credential{AccessToken: "stale", RefreshToken: "r1", ExpiresAt: fixedNow.Add(-time.Hour)})

	var wg sync.WaitGroup
	tokens := make([]string, 10)
	errs := make([]error, 10)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = f.store.AccessToken(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range tokens {
		require.NoError(t, errs[i])
		require.Equal(t, "new-access", tokens[i])
	}
	require.Equal(t, int32(1), f.hits.Load())
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	f := setupTestFixture(t)
	f.seed(t, token.Credential{AccessToken: "stale", ExpiresAt: fixedNow.Add(-time.Hour)})

	_, err := f.store.Refresh(context.Background())

	var authErr *errors.AuthError
	require.ErrorAs(t, err, &authErr)
	require.ErrorIs(t, err, errors.ErrMissingRefreshToken)
	require.Equal(t, int32(0), f.hits.Load())
}

func TestRefreshRejected(t *testing.T) {
	f := setupTestFixture(t)
	f.seed(t, token.Credential{AccessToken: "stale", RefreshToken: "revoked", ExpiresAt: fixedNow.Add(-time.Hour)})
	f.respond(http.StatusUnauthorized, `{"error":"invalid_grant","error_description":"refresh token revoked"}`)

	_, err := f.store.Refresh(context.Background())

	var authErr *errors.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, http.StatusUnauthorized, authErr.Status)
	require.Contains(t, authErr.Body, "invalid_grant")
	require.Contains(t, err.Error(), "401")

	stored, err := f.repo.Get()
	require.NoError(t, err)
	require.Equal(t, "revoked", stored.RefreshToken)
}

func TestAccessTokenWithoutCredential(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.store.AccessToken(context.Background())
	require.ErrorIs(t, err, errors.ErrNoCredential)
	require.Equal(t, token.StateNoCredential, f.store.State())
}

func TestExchange(t *testing.T) {
	f := setupTestFixture(t)

	credential, err := f.store.Exchange(context.Background(), "auth-code")
	require.NoError(t, err)
	require.Equal(t, "new-access", credential.AccessToken)
	require.Equal(t, "new-refresh", credential.RefreshToken)

	require.Equal(t, "authorization_code", f.form("grant_type"))
	require.Equal(t, "auth-code", f.form("code"))
	require.Equal(t, testRedirectURI, f.form("redirect_uri"))
	require.Equal(t, testClientID, f.form("client_id"))

	require.Equal(t, token.StateValid, f.store.State())
	require.Equal(t, 1, f.repo.Upserts())
}

func TestExchangeMissingCode(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.store.Exchange(context.Background(), "")

	var authErr *errors.AuthError
	require.ErrorAs(t, err, &authErr)
	require.ErrorIs(t, err, errors.ErrMissingCode)
	require.Equal(t, int32(0), f.hits.Load())
}

func TestExchangeRejected(t *testing.T) {
	f := setupTestFixture(t)
	f.respond(http.StatusBadRequest, `{"error":"invalid_grant"}`)

	_, err := f.store.Exchange(context.Background(), "used-code")

	var authErr *errors.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, http.StatusBadRequest, authErr.Status)
	require.Equal(t, 0, f.repo.Upserts())
}

func TestRefreshTransportFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.seed(t, token.Credential{RefreshToken: "r1"})
	f.server.Close()

	_, err := f.store.Refresh(context.Background())

	var transportErr *errors.TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestAuthCodeURL(t *testing.T) {
	f := setupTestFixture(t)

	u := f.store.AuthCodeURL("xyz")
	require.Contains(t, u, "https://accounts.example.com/app/oauth/authorize?")
	require.Contains(t, u, "client_id="+testClientID)
	require.Contains(t, u, "response_type=code")
	require.Contains(t, u, "state=xyz")
}
