package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/config"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
	sharedConfig "github.com/ezpsa-inc/ezpsa/internal/shared/config"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
	"github.com/ezpsa-inc/ezpsa/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/service/tickets" || r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{
			"id": 4242,
			"summary": "Printer offline",
			"status": {"name": "New"},
			"company": {"name": "Acme & Co"},
			"owner": {"name": "Dana"},
			"_info": {"lastUpdated": "2025-06-01T14:00:00Z"}
		}]`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestConfig(t *testing.T, mr *miniredis.Miniredis, upstreamURL string) *config.Config {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	return &config.Config{
		Server: sharedConfig.ServerConfig{Host: "127.0.0.1", Port: 5000, Mode: "test"},
		Manage: sharedConfig.ManageConfig{
			BaseURL:        upstreamURL,
			Company:        "acme",
			PublicKey:      "pub",
			PrivateKey:     "priv",
			TicketLinkBase: "https://example.test/ticket",
		},
		Sync: sharedConfig.SyncConfig{PageSize: 100, MaxPages: 10, RecencyWindow: 100},
		Display: sharedConfig.DisplayConfig{
			Timezone:            "America/New_York",
			HiddenStatuses:      []string{">Closed"},
			CloseStatusPrimary:  ">Closed (No Email)",
			CloseStatusFallback: ">Closed",
		},
		OAuth: sharedConfig.OAuthConfig{Azure: sharedConfig.AzureOAuthConfig{
			ClientID:    "client",
			TenantID:    "tenant",
			RedirectURL: "http://localhost:5000/auth",
		}},
		Auth: sharedConfig.AuthConfig{
			JWT:    sharedConfig.JWTConfig{Secret: "test-secret", SessionExpHours: 12},
			Cookie: sharedConfig.CookieConfig{Path: "/", SameSite: "Lax"},
		},
		Redis: sharedConfig.RedisConfig{Host: mr.Host(), Port: port},
	}
}

func newTestContainer(t *testing.T) (*Container, *miniredis.Miniredis) {
	t.Helper()
	biztime.MustInit("America/New_York")

	mr := miniredis.RunT(t)
	cfg := newTestConfig(t, mr, newTestUpstream(t).URL)

	c, err := NewContainer(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	c.SetupRoutes()
	return c, mr
}

func sessionCookie(t *testing.T, c *Container) *http.Cookie {
	t.Helper()
	token, err := c.jwtSvc.Generate(&auth.UserInfo{Name: "Dana", Email: "dana@example.test"})
	require.NoError(t, err)
	return &http.Cookie{Name: utils.SessionCookie, Value: token}
}

func TestContainer_HealthCheck(t *testing.T) {
	c, _ := newTestContainer(t)

	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestContainer_GetTicketsRendersBoard(t *testing.T) {
	c, _ := newTestContainer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/getTickets?board=Help+Desk", nil)
	req.AddCookie(sessionCookie(t, c))
	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, w.Body.String(), "Printer offline")
	assert.Contains(t, w.Body.String(), `data-ticket-id="4242"`)

	entry, ok := c.boardCache.Get("Help Desk")
	require.True(t, ok)
	assert.Len(t, entry.Tickets, 1)
}

func TestContainer_APIRequiresSession(t *testing.T) {
	c, _ := newTestContainer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/getBoards", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestContainer_LoginStoresStateInRedis(t *testing.T) {
	c, mr := newTestContainer(t)

	w := httptest.NewRecorder()
	c.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?next=/api/getBoards", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "login.microsoftonline.com/tenant")

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], loginStatePrefix))
}

func TestNewContainer_FailsWhenRedisUnreachable(t *testing.T) {
	biztime.MustInit("America/New_York")
	mr := miniredis.RunT(t)
	cfg := newTestConfig(t, mr, "http://upstream.test")
	mr.Close()

	_, err := NewContainer(cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestNewContainer_RegistersBoardRefreshJobs(t *testing.T) {
	biztime.MustInit("America/New_York")
	mr := miniredis.RunT(t)
	cfg := newTestConfig(t, mr, newTestUpstream(t).URL)
	cfg.Sync.RefreshIntervalMinutes = 5
	cfg.Sync.Boards = []string{"Help Desk", "Projects"}

	c, err := NewContainer(cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	require.NotNil(t, c.scheduler)
	assert.Len(t, c.scheduler.Jobs(), 2)
}
