// Package config loads server and engine settings from environment
// variables, applies defaults and validates everything on startup so a bad
// deployment fails before it accepts a request.
package config

import (
	"net"
	"strconv"
	"time"
	"unicode/utf8"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Engine   EngineConfig
	Export   ExportConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout bounds reading a request, body included (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout bounds writing a response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is how long graceful shutdown may take (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the per-request middleware timeout (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// EngineConfig holds table engine settings.
type EngineConfig struct {
	// SampleSize is how many leading rows type inference inspects (default: 100)
	SampleSize int `env:"TABLE_SAMPLE_SIZE" default:"100"`

	// Delimiter is the single-character field separator (default: ",")
	Delimiter string `env:"TABLE_DELIMITER" default:","`

	// MaxUploadBytes caps an uploaded CSV body (default: 100MB)
	MaxUploadBytes int64 `env:"TABLE_MAX_UPLOAD_BYTES" default:"104857600"`

	// MaxTables caps how many tables the workspace holds at once (default: 64)
	MaxTables int `env:"TABLE_MAX_TABLES" default:"64"`

	// MaxConcurrentUploads is how many uploads are parsed in parallel (default: 4)
	MaxConcurrentUploads int `env:"TABLE_MAX_CONCURRENT_UPLOADS" default:"4"`

	// UploadWait is how long an upload waits for a parsing slot (default: 10s)
	UploadWait time.Duration `env:"TABLE_UPLOAD_WAIT" default:"10s"`
}

// ExportConfig holds PostgreSQL export settings. Export is disabled when no
// database URL is configured.
type ExportConfig struct {
	// DatabaseURL is the PostgreSQL connection string (optional)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Schema receives exported tables (default: public)
	Schema string `env:"EXPORT_SCHEMA" default:"public"`

	// MaxConns is the maximum number of pooled connections (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// Timeout bounds a single export (default: 5m)
	Timeout time.Duration `env:"EXPORT_TIMEOUT" default:"5m"`
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the sustained rate per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// Burst is how many requests an idle IP may send at once (default: 20)
	Burst int `env:"RATE_LIMIT_BURST" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Forwarded-For / X-Real-IP headers are honoured
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DelimiterRune returns the configured delimiter as a rune.
func (c *EngineConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// ExportEnabled reports whether a database is configured.
func (c *ExportConfig) ExportEnabled() bool {
	return c.DatabaseURL != ""
}
