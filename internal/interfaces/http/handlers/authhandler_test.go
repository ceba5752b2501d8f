package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/cache"
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/handlers/testutil"
	"github.com/ezpsa-inc/ezpsa/internal/shared/config"
	"github.com/ezpsa-inc/ezpsa/internal/shared/utils"
)

type mockOAuthProvider struct {
	exchangeErr error
	userInfoErr error
	gotVerifier string
}

func (m *mockOAuthProvider) GetAuthURL(state string) (string, string) {
	return "https://login.example.com/authorize?state=" + state, "verifier-" + state
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (string, error) {
	m.gotVerifier = codeVerifier
	if m.exchangeErr != nil {
		return "", m.exchangeErr
	}
	return "access-token", nil
}

func (m *mockOAuthProvider) GetUserInfo(ctx context.Context, accessToken string) (*auth.UserInfo, error) {
	if m.userInfoErr != nil {
		return nil, m.userInfoErr
	}
	return &auth.UserInfo{Subject: "sub-1", Name: "Dana", Email: "dana@example.com"}, nil
}

func (m *mockOAuthProvider) LogoutURL(postLogoutRedirect string) string {
	return "https://login.example.com/logout?post_logout_redirect_uri=" + url.QueryEscape(postLogoutRedirect)
}

type memoryStateStore struct {
	states map[string]cache.LoginState
	err    error
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: make(map[string]cache.LoginState)}
}

func (s *memoryStateStore) Save(ctx context.Context, state, codeVerifier, nextURL string) error {
	if s.err != nil {
		return s.err
	}
	s.states[state] = cache.LoginState{CodeVerifier: codeVerifier, NextURL: nextURL}
	return nil
}

func (s *memoryStateStore) Consume(ctx context.Context, state string) (*cache.LoginState, error) {
	ls, ok := s.states[state]
	if !ok {
		return nil, cache.ErrStateNotFound
	}
	delete(s.states, state)
	return &ls, nil
}

type stubSessions struct {
	err error
}

func (s *stubSessions) Generate(user *auth.UserInfo) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "session-for-" + user.Subject, nil
}

func (s *stubSessions) Expiry() time.Duration { return 2 * time.Hour }

func newTestAuthHandler() (*AuthHandler, *mockOAuthProvider, *memoryStateStore, *stubSessions) {
	provider := &mockOAuthProvider{}
	states := newMemoryStateStore()
	sessions := &stubSessions{}
	h := NewAuthHandler(provider, states, sessions, config.CookieConfig{Path: "/", SameSite: "Lax"}, testutil.NewMockLogger())
	return h, provider, states, sessions
}

func onlyState(t *testing.T, states *memoryStateStore) string {
	t.Helper()
	require.Len(t, states.states, 1)
	for s := range states.states {
		return s
	}
	return ""
}

func TestLogin_RedirectsAndStoresState(t *testing.T) {
	h, _, states, _ := newTestAuthHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/login", nil)
	testutil.SetQueryParams(c, map[string]string{"next": "/leaderboard?year=2024"})
	h.Login(c)

	require.Equal(t, http.StatusFound, w.Code)
	state := onlyState(t, states)
	assert.Equal(t, "https://login.example.com/authorize?state="+state, w.Header().Get("Location"))
	assert.Equal(t, "verifier-"+state, states.states[state].CodeVerifier)
	assert.Equal(t, "/leaderboard?year=2024", states.states[state].NextURL)
}

func TestLogin_StateStoreFailure(t *testing.T) {
	h, _, states, _ := newTestAuthHandler()
	states.err = errors.New("redis down")

	c, w := testutil.NewTestContext(http.MethodGet, "/login", nil)
	h.Login(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCallback_SetsSessionAndRedirects(t *testing.T) {
	h, provider, states, _ := newTestAuthHandler()
	states.states["abc"] = cache.LoginState{CodeVerifier: "v-abc", NextURL: "/newTicket"}

	c, w := testutil.NewTestContext(http.MethodGet, "/auth", nil)
	testutil.SetQueryParams(c, map[string]string{"code": "the-code", "state": "abc"})
	h.Callback(c)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/newTicket", w.Header().Get("Location"))
	assert.Equal(t, "v-abc", provider.gotVerifier)
	assert.Empty(t, states.states, "state is one-shot")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.SessionCookie, cookies[0].Name)
	assert.Equal(t, "session-for-sub-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 7200, cookies[0].MaxAge)
}

func TestCallback_DefaultsToRoot(t *testing.T) {
	h, _, states, _ := newTestAuthHandler()
	states.states["abc"] = cache.LoginState{CodeVerifier: "v"}

	c, w := testutil.NewTestContext(http.MethodGet, "/auth", nil)
	testutil.SetQueryParams(c, map[string]string{"code": "c", "state": "abc"})
	h.Callback(c)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestCallback_Failures(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		setup  func(p *mockOAuthProvider, s *stubSessions)
	}{
		{name: "provider error", params: map[string]string{"error": "access_denied", "state": "abc"}},
		{name: "missing code", params: map[string]string{"state": "abc"}},
		{name: "unknown state", params: map[string]string{"code": "c", "state": "nope"}},
		{name: "exchange fails", params: map[string]string{"code": "c", "state": "abc"}, setup: func(p *mockOAuthProvider, s *stubSessions) {
			p.exchangeErr = errors.New("invalid_grant")
		}},
		{name: "user info fails", params: map[string]string{"code": "c", "state": "abc"}, setup: func(p *mockOAuthProvider, s *stubSessions) {
			p.userInfoErr = errors.New("status 401")
		}},
		{name: "session signing fails", params: map[string]string{"code": "c", "state": "abc"}, setup: func(p *mockOAuthProvider, s *stubSessions) {
			s.err = errors.New("boom")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, provider, states, sessions := newTestAuthHandler()
			states.states["abc"] = cache.LoginState{CodeVerifier: "v"}
			if tt.setup != nil {
				tt.setup(provider, sessions)
			}

			c, w := testutil.NewTestContext(http.MethodGet, "/auth", nil)
			testutil.SetQueryParams(c, tt.params)
			h.Callback(c)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, "Authentication failed", resp.Error.Message)
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestLogout(t *testing.T) {
	h, _, _, _ := newTestAuthHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/logout", nil)
	c.Request.Host = "dash.example.com"
	h.Logout(c)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t,
		"https://login.example.com/logout?post_logout_redirect_uri="+url.QueryEscape("http://dash.example.com/"),
		w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, utils.SessionCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSafeNextURL(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"/":                   "/",
		"/newTicket":          "/newTicket",
		"/leaderboard?year=1": "/leaderboard?year=1",
		"//evil.example.com":  "",
		"/\\evil.example.com": "",
		"https://evil.com/":   "",
		"relative":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeNextURL(in), "next=%q", in)
	}
}
