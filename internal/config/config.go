// Package config loads application settings from the environment with
// defaults and validates them on startup so misconfiguration fails fast.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration. Each section reads the
// environment variables under its prefix, e.g. Server.Port is SERVER_PORT.
type Config struct {
	Server   ServerConfig    `envconfig:"SERVER"`
	Upload   UploadConfig    `envconfig:"UPLOAD"`
	Examples ExamplesConfig  `envconfig:"EXAMPLES"`
	Session  SessionConfig   `envconfig:"SESSION"`
	Rate     RateLimitConfig `envconfig:"RATE_LIMIT"`
	Security SecurityConfig  `envconfig:"SECURITY"`
	Logging  LoggingConfig   `envconfig:"LOG"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`

	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s" validate:"gte=0"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s" validate:"gte=0"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s" validate:"gte=0"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`

	// RequestTimeout is the per-request middleware timeout.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s" validate:"gt=0"`
}

// UploadConfig holds dataset upload and parse settings.
type UploadConfig struct {
	// MaxFileSize is the largest accepted upload in bytes (default: 50MB).
	MaxFileSize int64 `envconfig:"MAX_FILE_SIZE" default:"52428800" validate:"gt=0"`

	// MaxConcurrent is the number of datasets parsed at once.
	MaxConcurrent int `envconfig:"MAX_CONCURRENT" default:"4" validate:"gt=0"`

	// MaxWaitTime is how long a load waits for a parse slot.
	MaxWaitTime time.Duration `envconfig:"MAX_WAIT_TIME" default:"30s" validate:"gt=0"`
}

// ExamplesConfig locates the example dataset repository.
type ExamplesConfig struct {
	BaseURL string `envconfig:"BASE_URL" default:"https://raw.githubusercontent.com/mwaskom/seaborn-data/master" validate:"required,url"`

	// CacheDir keeps downloaded examples across restarts; empty disables it.
	CacheDir string `envconfig:"CACHE_DIR"`

	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s" validate:"gt=0"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	CookieName      string        `envconfig:"COOKIE_NAME" default:"dataview_session" validate:"required"`
	TTL             time.Duration `envconfig:"TTL" default:"30m" validate:"gt=0"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"1m" validate:"gt=0"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled           bool `envconfig:"ENABLED" default:"true"`
	RequestsPerMinute int  `envconfig:"REQUESTS_PER_MINUTE" default:"120"`
	Burst             int  `envconfig:"BURST" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies lists proxy CIDRs whose forwarding headers are honoured.
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES" validate:"dive,cidr"`

	EnableCSP bool `envconfig:"ENABLE_CSP" default:"true"`

	// RequireAPIKey gates /api behind X-API-Key or a bearer token.
	RequireAPIKey bool     `envconfig:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `envconfig:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `envconfig:"LEVEL" default:"info"`

	// Format is text or json.
	Format string `envconfig:"FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
