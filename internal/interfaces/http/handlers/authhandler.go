package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ezpsa-inc/ezpsa/internal/shared/config"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
	"github.com/ezpsa-inc/ezpsa/internal/shared/utils"
)

type AuthHandler struct {
	provider     OAuthProvider
	states       LoginStateStore
	sessions     SessionIssuer
	cookieConfig config.CookieConfig
	logger       logger.Interface
}

func NewAuthHandler(
	provider OAuthProvider,
	states LoginStateStore,
	sessions SessionIssuer,
	cookieConfig config.CookieConfig,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		provider:     provider,
		states:       states,
		sessions:     sessions,
		cookieConfig: cookieConfig,
		logger:       logger,
	}
}

// Login handles GET /login. It records a fresh state and PKCE verifier and
// redirects to the identity provider.
func (h *AuthHandler) Login(c *gin.Context) {
	state := uuid.NewString()
	authURL, verifier := h.provider.GetAuthURL(state)

	if err := h.states.Save(c.Request.Context(), state, verifier, safeNextURL(c.Query("next"))); err != nil {
		h.logger.Errorw("failed to store login state", "error", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to start login")
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Callback handles GET /auth, the identity provider's redirect target.
func (h *AuthHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("OAuth provider returned error",
			"error_code", errParam,
			"error_description", c.Query("error_description"),
		)
		h.authFailed(c)
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		h.logger.Warnw("OAuth callback missing parameters", "has_code", code != "", "has_state", state != "")
		h.authFailed(c)
		return
	}

	ctx := c.Request.Context()

	pending, err := h.states.Consume(ctx, state)
	if err != nil {
		h.logger.Warnw("OAuth callback with unknown state", "error", err)
		h.authFailed(c)
		return
	}

	accessToken, err := h.provider.ExchangeCode(ctx, code, pending.CodeVerifier)
	if err != nil {
		h.logger.Errorw("failed to exchange authorization code", "error", err)
		h.authFailed(c)
		return
	}

	user, err := h.provider.GetUserInfo(ctx, accessToken)
	if err != nil {
		h.logger.Errorw("failed to read user info", "error", err)
		h.authFailed(c)
		return
	}

	token, err := h.sessions.Generate(user)
	if err != nil {
		h.logger.Errorw("failed to issue session token", "error", err)
		h.authFailed(c)
		return
	}

	utils.SetSessionCookie(c, h.cookieConfig, token, int(h.sessions.Expiry().Seconds()))
	h.logger.Infow("user signed in", "email", user.Email)

	next := pending.NextURL
	if next == "" {
		next = "/"
	}
	c.Redirect(http.StatusFound, next)
}

// Logout handles GET /logout. It clears the session and signs out of the
// identity provider, which returns the browser to this host.
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, h.cookieConfig)
	c.Redirect(http.StatusFound, h.provider.LogoutURL(hostURL(c)))
}

func (h *AuthHandler) authFailed(c *gin.Context) {
	utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication failed")
}

// safeNextURL keeps only same-site relative paths so the callback cannot be
// used as an open redirect.
func safeNextURL(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}

func hostURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + "/"
}
