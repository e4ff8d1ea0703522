package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsFromEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 5000, cfg.Host.Port)
	assert.Equal(t, "test-secret", cfg.Session.Secret)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "token", cfg.Session.CookieName)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 30*time.Minute, cfg.Reset.TTL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxImageSize)
	assert.Equal(t, uint32(64*1024), cfg.Security.Argon.Memory)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("HOST_PORT", "9000")

	cfg, err := Load([]string{"--port", "9100", "--log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Host.Port)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	err := os.WriteFile(path, []byte(`
[session]
secret = "from-file"
ttl = "1h"

[reset]
ttl = "10m"

[frontend]
url = "https://inventory.example"
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Session.Secret)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, 10*time.Minute, cfg.Reset.TTL)
	assert.Equal(t, "https://inventory.example", cfg.Frontend.URL)
}

func TestLoad_MissingConfigFileFlag(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.toml")})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      App{LogLevel: "info"},
			Host:     Host{Port: 5000},
			Database: Database{Driver: "sqlite", DSN: "database.db"},
			Session:  Session{Secret: "s", TTL: time.Hour},
			Reset:    Reset{TTL: time.Minute},
			Storage:  Storage{Type: "local", MaxImageSize: 5},
			Security: Security{RateLimit: 10},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"invalid log level", func(c *Config) { c.App.LogLevel = "loud" }},
		{"invalid port", func(c *Config) { c.Host.Port = 0 }},
		{"ssl without certificate", func(c *Config) { c.Host.SSL.Enabled = true }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }},
		{"missing secret", func(c *Config) { c.Session.Secret = "" }},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }},
		{"zero reset ttl", func(c *Config) { c.Reset.TTL = 0 }},
		{"mail host without sender", func(c *Config) { c.Mail.Host = "smtp.example" }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }},
		{"s3 without credentials", func(c *Config) { c.Storage.Type = "s3" }},
		{"turnstile without secret", func(c *Config) { c.Security.Turnstile.Enabled = true }},
		{"zero rate limit", func(c *Config) { c.Security.RateLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
