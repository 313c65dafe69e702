// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"APP_HOST", "APP_PORT", "APP_ENV", "LOG_LEVEL",
	"CONTENT_SOURCE", "API_BASE_URL", "API_TIMEOUT",
	"SESSION_BACKEND", "SESSION_SECRET",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD", "VALKEY_DB", "CACHE_TTL",
	"S3_ENDPOINT", "S3_REGION", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_URL",
	"WRITE_RATE_LIMIT", "EDITOR_IMAGES",
}

// clearEnv unsets every variable Load reads. t.Setenv records the previous
// values so they are restored after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, SourceRemote, cfg.ContentSource)
	assert.Equal(t, SessionCookie, cfg.SessionBackend)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30, cfg.WriteRateLimit)
	assert.Equal(t, ImagesAuto, cfg.EditorImages)
	assert.False(t, cfg.ValkeyEnabled())
	assert.False(t, cfg.S3.Enabled())
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.SecureCookies())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONTENT_SOURCE", "postgres")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("VALKEY_HOST", "cache")
	t.Setenv("VALKEY_DB", "4")
	t.Setenv("SESSION_BACKEND", "valkey")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SourcePostgres, cfg.ContentSource)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 4, cfg.ValkeyDB)
	assert.True(t, cfg.ValkeyEnabled())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "SESSION_SECRET", fieldErrs[0].Field)
}

func TestLoad_ProductionShortSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestLoad_ProductionValid(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SecureCookies())
}

func TestLoad_InvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("VALKEY_DB", "two")
	t.Setenv("CACHE_TTL", "soon")

	_, err := Load()
	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Len(t, fieldErrs, 2)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8080",
			ContentSource:  SourceRemote,
			APIBaseURL:     "http://api.local/api",
			SessionBackend: SessionCookie,
			SessionSecret:  devSessionSecret,
			WriteRateLimit: 10,
			EditorImages:   ImagesAuto,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"unknown source", func(c *Config) { c.ContentSource = "ftp" }, "CONTENT_SOURCE"},
		{"unknown session backend", func(c *Config) { c.SessionBackend = "file" }, "SESSION_BACKEND"},
		{"relative api url", func(c *Config) { c.APIBaseURL = "/api" }, "API_BASE_URL"},
		{"valkey sessions without host", func(c *Config) { c.SessionBackend = SessionValkey }, "VALKEY_HOST"},
		{"bad port", func(c *Config) { c.Port = "99999" }, "APP_PORT"},
		{"zero rate limit", func(c *Config) { c.WriteRateLimit = 0 }, "WRITE_RATE_LIMIT"},
		{"unknown image store", func(c *Config) { c.EditorImages = "ftp" }, "EDITOR_IMAGES"},
		{"s3 images without bucket", func(c *Config) { c.EditorImages = ImagesS3 }, "EDITOR_IMAGES"},
	}

	require.NoError(t, valid().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, c.Validate(), &fieldErrs)
			assert.Equal(t, tt.field, fieldErrs[0].Field)
		})
	}
}

func TestValidate_APIURLIgnoredForLocalSources(t *testing.T) {
	c := &Config{
		Port:           "8080",
		ContentSource:  SourceMemory,
		SessionBackend: SessionCookie,
		SessionSecret:  devSessionSecret,
		WriteRateLimit: 1,
		EditorImages:   ImagesInline,
	}
	assert.NoError(t, c.Validate())
}

func TestDSN(t *testing.T) {
	c := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", c.DSN())
}

func TestAddr(t *testing.T) {
	c := &Config{Host: "127.0.0.1", Port: "9000"}
	assert.Equal(t, "127.0.0.1:9000", c.Addr())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
