package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
	"github.com/ezpsa-inc/ezpsa/internal/shared/utils"
)

func newAuthEngine(t *testing.T) (*gin.Engine, *auth.JWTService, *quartz.Mock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := quartz.NewMock(t)
	jwtService := auth.NewJWTService("test-secret", 1, clock)
	mw := NewAuthMiddleware(jwtService, logger.NewNop())

	engine := gin.New()
	protected := func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextKeyUserEmail))
	}
	engine.GET("/", mw.RequireAuth(), protected)
	engine.GET("/api/getTickets", mw.RequireAuth(), protected)
	engine.POST("/api/closeTicket", mw.RequireAuth(), protected)
	return engine, jwtService, clock
}

func TestRequireAuth_ValidSession(t *testing.T) {
	engine, jwtService, _ := newAuthEngine(t)
	token, err := jwtService.Generate(&auth.UserInfo{Subject: "sub-1", Email: "dana@example.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/getTickets?board=x", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dana@example.com", w.Body.String())
}

func TestRequireAuth_BrowserRedirectsToLogin(t *testing.T) {
	engine, _, _ := newAuthEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/?tab=open", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2F%3Ftab%3Dopen", w.Header().Get("Location"))
}

func TestRequireAuth_APIGets401(t *testing.T) {
	engine, _, _ := newAuthEngine(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/getTickets", nil),
		httptest.NewRequest(http.MethodPost, "/api/closeTicket", nil),
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, req.URL.Path)
	}
}

func TestRequireAuth_ExpiredSession(t *testing.T) {
	engine, jwtService, clock := newAuthEngine(t)
	token, err := jwtService.Generate(&auth.UserInfo{Subject: "sub-1"})
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/api/getTickets", nil)
	req.AddCookie(&http.Cookie{Name: utils.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Recovery(logger.NewNop()))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error occurred")
}
