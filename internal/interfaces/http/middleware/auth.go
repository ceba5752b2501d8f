package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
	"github.com/ezpsa-inc/ezpsa/internal/shared/utils"
)

// Context keys set by RequireAuth.
const (
	ContextKeyUserSubject = "user_subject"
	ContextKeyUserName    = "user_name"
	ContextKeyUserEmail   = "user_email"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth admits requests carrying a valid session cookie. Browser page
// loads without one are sent to /login and return to the requested URL
// afterwards; API calls get 401.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetSessionToken(c)
		if token == "" {
			m.reject(c, "missing session")
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify session token", "error", err, "path", c.Request.URL.Path)
			m.reject(c, "invalid or expired session")
			return
		}

		c.Set(ContextKeyUserSubject, claims.Subject)
		c.Set(ContextKeyUserName, claims.Name)
		c.Set(ContextKeyUserEmail, claims.Email)

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, message string) {
	if c.Request.Method == http.MethodGet && !strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
		return
	}
	utils.ErrorResponse(c, http.StatusUnauthorized, message)
	c.Abort()
}
