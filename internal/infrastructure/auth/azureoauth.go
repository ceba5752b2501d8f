package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/ezpsa-inc/ezpsa/internal/shared/config"
)

const (
	// httpClientTimeout is the timeout for HTTP requests to the identity provider
	httpClientTimeout = 30 * time.Second

	azureUserInfoURL = "https://graph.microsoft.com/oidc/userinfo"
	azureLogoutURL   = "https://login.microsoftonline.com/%s/oauth2/v2.0/logout"
)

// UserInfo is the signed-in user as reported by the identity provider.
type UserInfo struct {
	Subject string
	Name    string
	Email   string
}

type azureUserInfo struct {
	Sub               string `json:"sub"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
}

// AzureOAuthClient signs users in with Azure AD using the authorization code
// flow with PKCE.
type AzureOAuthClient struct {
	config      *oauth2.Config
	tenantID    string
	userInfoURL string
	httpClient  *http.Client
}

func NewAzureOAuthClient(cfg config.AzureOAuthConfig) *AzureOAuthClient {
	return newAzureOAuthClient(cfg, microsoft.AzureADEndpoint(cfg.TenantID), azureUserInfoURL)
}

func newAzureOAuthClient(cfg config.AzureOAuthConfig, endpoint oauth2.Endpoint, userInfoURL string) *AzureOAuthClient {
	return &AzureOAuthClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		tenantID:    cfg.TenantID,
		userInfoURL: userInfoURL,
		httpClient:  &http.Client{Timeout: httpClientTimeout},
	}
}

// GetAuthURL returns the authorize URL for state and the PKCE verifier the
// callback must present.
func (c *AzureOAuthClient) GetAuthURL(state string) (authURL, codeVerifier string) {
	codeVerifier = oauth2.GenerateVerifier()
	authURL = c.config.AuthCodeURL(state, oauth2.S256ChallengeOption(codeVerifier))
	return authURL, codeVerifier
}

// ExchangeCode trades the authorization code for an access token.
func (c *AzureOAuthClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.config.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	return token.AccessToken, nil
}

// GetUserInfo reads the OIDC userinfo document for accessToken.
func (c *AzureOAuthClient) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: status %d, body: %s", resp.StatusCode, string(body))
	}

	var info azureUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("user info has no subject")
	}

	email := info.Email
	if email == "" {
		email = info.PreferredUsername
	}
	return &UserInfo{
		Subject: info.Sub,
		Name:    info.Name,
		Email:   email,
	}, nil
}

// LogoutURL is the tenant sign-out URL that returns the browser to
// postLogoutRedirect.
func (c *AzureOAuthClient) LogoutURL(postLogoutRedirect string) string {
	return fmt.Sprintf(azureLogoutURL, url.PathEscape(c.tenantID)) +
		"?post_logout_redirect_uri=" + url.QueryEscape(postLogoutRedirect)
}
