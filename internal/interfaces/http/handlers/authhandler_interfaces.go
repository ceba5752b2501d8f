package handlers

import (
	"context"
	"time"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/cache"
)

// OAuthProvider is the identity provider side of the login flow.
type OAuthProvider interface {
	GetAuthURL(state string) (authURL, codeVerifier string)
	ExchangeCode(ctx context.Context, code, codeVerifier string) (string, error)
	GetUserInfo(ctx context.Context, accessToken string) (*auth.UserInfo, error)
	LogoutURL(postLogoutRedirect string) string
}

// LoginStateStore holds pending logins between the redirect and the callback.
type LoginStateStore interface {
	Save(ctx context.Context, state, codeVerifier, nextURL string) error
	Consume(ctx context.Context, state string) (*cache.LoginState, error)
}

// SessionIssuer signs session tokens for authenticated users.
type SessionIssuer interface {
	Generate(user *auth.UserInfo) (string, error)
	Expiry() time.Duration
}
