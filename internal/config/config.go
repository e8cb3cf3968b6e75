package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	DB         DBConfig         `mapstructure:"db"`
	Session    SessionConfig    `mapstructure:"session"`
	OIDC       OIDCConfig       `mapstructure:"oidc"`
	Log        LogConfig        `mapstructure:"log"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Email      EmailConfig      `mapstructure:"email"`
	Newsletter NewsletterConfig `mapstructure:"newsletter"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Port    string    `mapstructure:"port"`
	BaseURL string    `mapstructure:"base_url"`
	TLS     TLSConfig `mapstructure:"tls"`
}

// TLSConfig holds TLS-specific configuration.
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
}

// DBConfig holds database-specific configuration.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite3" or "mysql"
	DSN    string `mapstructure:"dsn"`
}

// SessionConfig holds admin session configuration.
type SessionConfig struct {
	Lifetime   int    `mapstructure:"lifetime"` // hours
	CookieName string `mapstructure:"cookie_name"`
}

// OIDCConfig holds OIDC client configuration. Single sign-on is only
// offered when an issuer is configured.
type OIDCConfig struct {
	IssuerURL    string `mapstructure:"issuer_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

// Enabled reports whether OIDC login should be wired.
func (c OIDCConfig) Enabled() bool {
	return c.IssuerURL != ""
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // e.g., "debug", "info", "warn", "error"
	Format string `mapstructure:"format"` // e.g., "json", "console"
}

// CacheConfig holds the read cache configuration.
type CacheConfig struct {
	FilePath string        `mapstructure:"file_path"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// EmailConfig points at the hosted transactional email API.
type EmailConfig struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	From         string `mapstructure:"from"`
	AdminAddress string `mapstructure:"admin_address"`
}

// NewsletterConfig points at the mailing-list provider.
type NewsletterConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	ListID   string `mapstructure:"list_id"`
}

// AnalyticsConfig holds the web analytics tag settings.
type AnalyticsConfig struct {
	MeasurementID string `mapstructure:"measurement_id"`
}

var defaults = map[string]interface{}{
	"server.port":              "8080",
	"server.base_url":          "http://localhost:8080",
	"server.tls.enabled":       false,
	"server.tls.certFile":      "",
	"server.tls.keyFile":       "",
	"db.driver":                "sqlite3",
	"db.dsn":                   "site.db",
	"session.lifetime":         24,
	"session.cookie_name":      "studio_session",
	"oidc.issuer_url":          "",
	"oidc.client_id":           "",
	"oidc.client_secret":       "",
	"oidc.redirect_url":        "",
	"log.level":                "info",
	"log.format":               "console",
	"cache.file_path":          "cache.db",
	"cache.ttl":                "10m",
	"email.endpoint":           "",
	"email.api_key":            "",
	"email.from":               "",
	"email.admin_address":      "",
	"newsletter.endpoint":      "",
	"newsletter.api_key":       "",
	"newsletter.list_id":       "",
	"analytics.measurement_id": "",
}

// LoadConfig reads configuration from file and environment variables.
// An explicit path takes precedence over the standard search locations.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/studio-site/")
		v.AddConfigPath("$HOME/.studio-site")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// Config file not found; proceed with defaults and env vars
	}

	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	return &cfg, nil
}
