// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/joho/godotenv"
	"github.com/nasermirzaei89/env"

	"techblog/internal/storage"
)

// Content sources.
const (
	SourceRemote   = "remote"
	SourcePostgres = "postgres"
	SourceMemory   = "memory"
)

// Session backends.
const (
	SessionCookie = "cookie"
	SessionValkey = "valkey"
)

// Where editor images are stored.
const (
	ImagesAuto   = "auto"   // S3 when configured, else the API
	ImagesS3     = "s3"
	ImagesAPI    = "api"
	ImagesInline = "inline" // base64 data URLs in the markdown
)

const devSessionSecret = "techblog-development-secret-change-me"

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Content
	ContentSource string
	APIBaseURL    string
	APITimeout    time.Duration

	// Sessions
	SessionBackend string
	SessionSecret  string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int
	CacheTTL       time.Duration

	// Editor image storage and its S3 settings
	EditorImages string
	S3           storage.Config

	// Requests per minute per client IP on write endpoints
	WriteRateLimit int
}

// LoadDotEnv reads a .env file into the process environment when present.
// Variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate, and validates the result.
func Load() (*Config, error) {
	var errs criterio.FieldErrorsBuilder

	cfg := &Config{
		Host:     env.GetString("APP_HOST", "0.0.0.0"),
		Port:     env.GetString("APP_PORT", "8080"),
		Env:      env.GetString("APP_ENV", "development"),
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		ContentSource: env.GetString("CONTENT_SOURCE", SourceRemote),
		APIBaseURL:    env.GetString("API_BASE_URL", "http://localhost:8081/api"),

		SessionBackend: env.GetString("SESSION_BACKEND", SessionCookie),
		SessionSecret:  env.GetString("SESSION_SECRET", ""),

		DBHost:     env.GetString("POSTGRES_HOST", "localhost"),
		DBPort:     env.GetString("POSTGRES_PORT", "5432"),
		DBUser:     env.GetString("POSTGRES_USER", "techblog"),
		DBPassword: env.GetString("POSTGRES_PASSWORD", "changeme"),
		DBName:     env.GetString("POSTGRES_DB", "techblog"),

		ValkeyHost:     env.GetString("VALKEY_HOST", ""),
		ValkeyPort:     env.GetString("VALKEY_PORT", "6379"),
		ValkeyPassword: env.GetString("VALKEY_PASSWORD", ""),

		EditorImages: env.GetString("EDITOR_IMAGES", ImagesAuto),
		S3: storage.Config{
			Endpoint:  env.GetString("S3_ENDPOINT", ""),
			Region:    env.GetString("S3_REGION", "us-east-1"),
			AccessKey: env.GetString("S3_ACCESS_KEY", ""),
			SecretKey: env.GetString("S3_SECRET_KEY", ""),
			Bucket:    env.GetString("S3_BUCKET", ""),
			PublicURL: env.GetString("S3_PUBLIC_URL", ""),
		},
	}

	cfg.APITimeout = durationVar(&errs, "API_TIMEOUT", 10*time.Second)
	cfg.CacheTTL = durationVar(&errs, "CACHE_TTL", 2*time.Minute)
	cfg.ValkeyDB = intVar(&errs, "VALKEY_DB", 0)
	cfg.WriteRateLimit = intVar(&errs, "WRITE_RATE_LIMIT", 30)

	if cfg.SessionSecret == "" && cfg.Env != "production" {
		cfg.SessionSecret = devSessionSecret
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func intVar(errs *criterio.FieldErrorsBuilder, key string, fallback int) int {
	raw := env.GetString(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*errs = errs.Append(key, fmt.Errorf("not an integer: %q", raw))
		return fallback
	}
	return n
}

func durationVar(errs *criterio.FieldErrorsBuilder, key string, fallback time.Duration) time.Duration {
	raw := env.GetString(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = errs.Append(key, fmt.Errorf("not a duration: %q", raw))
		return fallback
	}
	return d
}

// Validate checks that the settings are coherent. Production requires an
// explicit session secret.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("CONTENT_SOURCE", c.ContentSource, oneOf(SourceRemote, SourcePostgres, SourceMemory)),
		criterio.Run("SESSION_BACKEND", c.SessionBackend, oneOf(SessionCookie, SessionValkey)),
		criterio.Run("SESSION_SECRET", c.SessionSecret, c.secretStrength),
		criterio.Run("API_BASE_URL", c.APIBaseURL, c.apiURL),
		criterio.Run("VALKEY_HOST", c.ValkeyHost, c.valkeyRequired),
		criterio.Run("APP_PORT", c.Port, port),
		criterio.Run("WRITE_RATE_LIMIT", c.WriteRateLimit, positive),
		criterio.Run("EDITOR_IMAGES", c.EditorImages, c.editorImages),
	)
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fmt.Errorf("must be one of %v, got %q", allowed, v)
	}
}

func (c *Config) secretStrength(v string) error {
	if v == "" {
		return fmt.Errorf("required in production")
	}
	if c.Env == "production" && (v == devSessionSecret || len(v) < 32) {
		return fmt.Errorf("must be at least 32 characters in production")
	}
	return nil
}

func (c *Config) apiURL(v string) error {
	if c.ContentSource != SourceRemote {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute URL, got %q", v)
	}
	return nil
}

func (c *Config) editorImages(v string) error {
	if err := oneOf(ImagesAuto, ImagesS3, ImagesAPI, ImagesInline)(v); err != nil {
		return err
	}
	if v == ImagesS3 && !c.S3.Enabled() {
		return fmt.Errorf("s3 needs S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET")
	}
	return nil
}

func (c *Config) valkeyRequired(v string) error {
	if c.SessionBackend == SessionValkey && v == "" {
		return fmt.Errorf("required when SESSION_BACKEND=valkey")
	}
	return nil
}

func port(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid port %q", v)
	}
	return nil
}

func positive(n int) error {
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether a Valkey host is configured.
func (c *Config) ValkeyEnabled() bool {
	return c.ValkeyHost != ""
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.Env == "production"
}
