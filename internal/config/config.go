package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Database DatabaseConfig
	Session  SessionConfig
	Listing  ListingConfig
	Sidebar  SidebarConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host          string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port          int    `env:"SERVER_PORT" envDefault:"8080"`
	SecureCookies bool   `env:"SERVER_SECURE_COOKIES" envDefault:"false"`
}

// APIConfig points at the remote society API.
type APIConfig struct {
	BaseURL string        `env:"SOCIETY_API_BASE_URL" envDefault:"http://api.fbareaadmin.cloud/api"`
	Timeout time.Duration `env:"SOCIETY_API_TIMEOUT" envDefault:"30s"`
}

// DatabaseConfig holds the action journal database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/admin-console.db"`
}

// SessionConfig holds admin session configuration.
type SessionConfig struct {
	Secret      string        `env:"SESSION_SECRET"`
	Duration    time.Duration `env:"SESSION_DURATION" envDefault:"24h"`
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
}

// ListingConfig holds list page fetch behaviour.
type ListingConfig struct {
	SearchDebounce time.Duration `env:"LIST_SEARCH_DEBOUNCE" envDefault:"500ms"`
	SimpleDebounce time.Duration `env:"LIST_SIMPLE_DEBOUNCE" envDefault:"300ms"`
}

// SidebarConfig holds badge polling configuration.
type SidebarConfig struct {
	PollInterval time.Duration `env:"SIDEBAR_POLL_INTERVAL" envDefault:"2m"`
}

// MetricsConfig protects the prometheus endpoint. An empty token leaves it open.
type MetricsConfig struct {
	Token string `env:"METRICS_TOKEN"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

// GetSessionSecretBytes returns the session secret as bytes, or nil when no
// secret is configured.
func (c *SessionConfig) GetSessionSecretBytes() ([]byte, error) {
	if c.Secret == "" {
		return nil, nil
	}
	// 64 hex chars = 32 bytes
	if len(c.Secret) == 64 {
		decoded, err := hex.DecodeString(c.Secret)
		if err == nil {
			return decoded, nil
		}
	}
	if len(c.Secret) != 32 {
		return nil, fmt.Errorf("SESSION_SECRET must be 32 bytes (or 64 hex characters)")
	}
	return []byte(c.Secret), nil
}

// Load loads configuration from environment variables, after applying the
// optional dotenv file named by ENV_FILE (default ".env").
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.API); err != nil {
		return nil, fmt.Errorf("parsing api config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Session); err != nil {
		return nil, fmt.Errorf("parsing session config: %w", err)
	}
	if err := env.Parse(&cfg.Listing); err != nil {
		return nil, fmt.Errorf("parsing listing config: %w", err)
	}
	if err := env.Parse(&cfg.Sidebar); err != nil {
		return nil, fmt.Errorf("parsing sidebar config: %w", err)
	}
	if err := env.Parse(&cfg.Metrics); err != nil {
		return nil, fmt.Errorf("parsing metrics config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SOCIETY_API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("SOCIETY_API_TIMEOUT must be positive")
	}
	if _, err := c.Session.GetSessionSecretBytes(); err != nil {
		return err
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive")
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.Listing.SearchDebounce <= 0 || c.Listing.SimpleDebounce <= 0 {
		return fmt.Errorf("LIST_SEARCH_DEBOUNCE and LIST_SIMPLE_DEBOUNCE must be positive")
	}
	if c.Sidebar.PollInterval <= 0 {
		return fmt.Errorf("SIDEBAR_POLL_INTERVAL must be positive")
	}
	if c.Database.Driver != "sqlite3" && c.Database.Driver != "postgres" {
		return fmt.Errorf("DB_DRIVER must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// NewLogger builds the application logger.
func (c *LogConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.Level); err == nil {
		logger.SetLevel(level)
	}
	if c.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
