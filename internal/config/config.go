package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds process configuration, loaded once at startup from an
// optional config.yaml plus NGO_POSTINGS_* environment overrides.
type Config struct {
	Server struct {
		Addr         string        `mapstructure:"addr"`
		ReadTimeout  time.Duration `mapstructure:"read_timeout"`
		WriteTimeout time.Duration `mapstructure:"write_timeout"`
		IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	} `mapstructure:"server"`

	Postgres struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"postgres"`

	Auth struct {
		// Secret is shared with the user service that issues tokens.
		Secret string `mapstructure:"secret"`
		// TokenTTL applies only to tokens minted by the mktoken dev tool.
		TokenTTL time.Duration `mapstructure:"token_ttl"`
		// AllowAnonymousRead opens GET endpoints to unauthenticated
		// callers; mutating endpoints always require identity.
		AllowAnonymousRead bool `mapstructure:"allow_anonymous_read"`
	} `mapstructure:"auth"`

	Limits struct {
		RateBurst     int   `mapstructure:"rate_burst"`
		RatePerSecond int   `mapstructure:"rate_per_second"`
		MaxBodyBytes  int64 `mapstructure:"max_body_bytes"`
	} `mapstructure:"limits"`
}

// Load reads configuration. A missing config file is fine; a missing auth
// secret is not.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("postgres.dsn", "")
	// Empty defaults register the keys so AutomaticEnv can see them.
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.allow_anonymous_read", false)
	v.SetDefault("limits.rate_burst", 50)
	v.SetDefault("limits.rate_per_second", 25)
	v.SetDefault("limits.max_body_bytes", int64(1<<20))

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("NGO_POSTINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("auth.secret is required (NGO_POSTINGS_AUTH_SECRET)")
	}
	return &cfg, nil
}
