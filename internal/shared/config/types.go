package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ManageConfig describes the upstream ticketing API.
type ManageConfig struct {
	BaseURL               string `mapstructure:"base_url"`
	Company               string `mapstructure:"company"`
	PublicKey             string `mapstructure:"public_key"`
	PrivateKey            string `mapstructure:"private_key"`
	ClientID              string `mapstructure:"client_id"`
	TicketLinkBase        string `mapstructure:"ticket_link_base"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	MaxRetries            int    `mapstructure:"max_retries"`
}

func (m *ManageConfig) RequestTimeout() time.Duration {
	if m.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(m.RequestTimeoutSeconds) * time.Second
}

type SyncConfig struct {
	PageSize               int      `mapstructure:"page_size"`
	MaxPages               int      `mapstructure:"max_pages"`
	RecencyWindow          int      `mapstructure:"recency_window"`
	RefreshIntervalMinutes int      `mapstructure:"refresh_interval_minutes"`
	Boards                 []string `mapstructure:"boards"`
}

type DisplayConfig struct {
	Timezone            string   `mapstructure:"timezone"`
	HiddenStatuses      []string `mapstructure:"hidden_statuses"`
	CloseStatusPrimary  string   `mapstructure:"close_status_primary"`
	CloseStatusFallback string   `mapstructure:"close_status_fallback"`
}

type AzureOAuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TenantID     string `mapstructure:"tenant_id"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type OAuthConfig struct {
	Azure AzureOAuthConfig `mapstructure:"azure"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	SessionExpHours int    `mapstructure:"session_exp_hours"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"`
}

type AuthConfig struct {
	JWT    JWTConfig    `mapstructure:"jwt"`
	Cookie CookieConfig `mapstructure:"cookie"`
}

type RedisConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	Password              string `mapstructure:"password"`
	DB                    int    `mapstructure:"db"`
	StateTTLMinutes       int    `mapstructure:"state_ttl_minutes"`
	LeaderboardTTLMinutes int    `mapstructure:"leaderboard_ttl_minutes"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}
