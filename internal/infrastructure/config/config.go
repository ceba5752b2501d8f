package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	sharedConfig "github.com/ezpsa-inc/ezpsa/internal/shared/config"
)

type Config struct {
	Server  sharedConfig.ServerConfig  `mapstructure:"server"`
	Logger  sharedConfig.LoggerConfig  `mapstructure:"logger"`
	Manage  sharedConfig.ManageConfig  `mapstructure:"manage"`
	Sync    sharedConfig.SyncConfig    `mapstructure:"sync"`
	Display sharedConfig.DisplayConfig `mapstructure:"display"`
	OAuth   sharedConfig.OAuthConfig   `mapstructure:"oauth"`
	Auth    sharedConfig.AuthConfig    `mapstructure:"auth"`
	Redis   sharedConfig.RedisConfig   `mapstructure:"redis"`
}

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults and EZPSA_* variables apply.
func Load(env string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	v.SetEnvPrefix("EZPSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:5000")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	// Upstream ticketing API defaults
	v.SetDefault("manage.base_url", "https://api-na.myconnectwise.net/v4_6_release/apis/3.0")
	v.SetDefault("manage.company", "")
	v.SetDefault("manage.public_key", "")
	v.SetDefault("manage.private_key", "")
	v.SetDefault("manage.client_id", "")
	v.SetDefault("manage.ticket_link_base", "https://na.myconnectwise.net/v4_6_release/services/system_io/Service/fv_sr100_request.rails")
	v.SetDefault("manage.request_timeout_seconds", 30)
	v.SetDefault("manage.max_retries", 2)

	// Sync defaults
	v.SetDefault("sync.page_size", 100)
	v.SetDefault("sync.max_pages", 10)
	v.SetDefault("sync.recency_window", 100)
	v.SetDefault("sync.refresh_interval_minutes", 0)
	v.SetDefault("sync.boards", []string{})

	// Display defaults
	v.SetDefault("display.timezone", "America/New_York")
	v.SetDefault("display.hidden_statuses", []string{">Closed", ">Closed (NO EMAIL)", ">Cancelled"})
	v.SetDefault("display.close_status_primary", ">Closed (No Email)")
	v.SetDefault("display.close_status_fallback", ">Closed")

	// OAuth defaults (empty by default, must be configured)
	v.SetDefault("oauth.azure.client_id", "")
	v.SetDefault("oauth.azure.client_secret", "")
	v.SetDefault("oauth.azure.tenant_id", "")
	v.SetDefault("oauth.azure.redirect_url", "http://localhost:5000/auth")

	// Auth defaults
	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.session_exp_hours", 12)
	v.SetDefault("auth.cookie.domain", "")
	v.SetDefault("auth.cookie.path", "/")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.state_ttl_minutes", 10)
	v.SetDefault("redis.leaderboard_ttl_minutes", 15)
}
