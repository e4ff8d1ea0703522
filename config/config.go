// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
	validDrivers      = []string{"sqlite", "postgres"}
)

type Config struct {
	App      App      `mapstructure:"app"`
	Host     Host     `mapstructure:"host"`
	Frontend Frontend `mapstructure:"frontend"`
	Database Database `mapstructure:"database"`
	Session  Session  `mapstructure:"session"`
	Reset    Reset    `mapstructure:"reset"`
	Mail     Mail     `mapstructure:"mail"`
	Storage  Storage  `mapstructure:"storage"`
	S3       S3       `mapstructure:"s3"`
	Security Security `mapstructure:"security"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Host struct {
	Port   int      `mapstructure:"port"`
	Domain string   `mapstructure:"domain"`
	CORS   []string `mapstructure:"cors"`
	SSL    SSL      `mapstructure:"ssl"`
}

type SSL struct {
	Enabled            bool   `mapstructure:"enabled"`
	CertificatePath    string `mapstructure:"certificate_path"`
	CertificateKeyPath string `mapstructure:"certificate_key_path"`
}

type Frontend struct {
	URL string `mapstructure:"url"`
}

type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Session struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

type Reset struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type Mail struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	From           string `mapstructure:"from"`
	SupportAddress string `mapstructure:"support_address"`
}

type Storage struct {
	Type         string `mapstructure:"type"`
	LocalDir     string `mapstructure:"local_dir"`
	PublicURL    string `mapstructure:"public_url"`
	MaxImageSize int64  `mapstructure:"max_image_size"`
}

type S3 struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
	PublicURL       string `mapstructure:"public_url"`
}

type Security struct {
	RateLimit int       `mapstructure:"rate_limit"`
	Argon     Argon     `mapstructure:"argon"`
	Turnstile Turnstile `mapstructure:"turnstile"`
}

type Argon struct {
	Memory      uint32 `mapstructure:"memory"`
	Iterations  uint32 `mapstructure:"iterations"`
	Parallelism uint8  `mapstructure:"parallelism"`
}

type Turnstile struct {
	Enabled     bool   `mapstructure:"enabled"`
	SecretToken string `mapstructure:"secret_token"`
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Load reads the config file, environment and command line flags
// into a Config. It returns an error if something is critically wrong
// and the application can't run because of that.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("inventory-api", pflag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a config.toml file")
	fs.Int("port", 0, "Port to listen on")
	fs.String("log-level", "", "Log level (debug, info, warn, error, fatal)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags, %w", err)
	}

	v := viper.New()

	v.BindPFlag("host.port", fs.Lookup("port"))
	v.BindPFlag("app.log_level", fs.Lookup("log-level"))

	if *configPath != "" {
		v.SetConfigFile(*configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	//
	// ENVS
	//
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"app.log_level",
		"host.port", "host.domain", "host.cors",
		"host.ssl.enabled", "host.ssl.certificate_path", "host.ssl.certificate_key_path",
		"frontend.url",
		"database.driver", "database.dsn",
		"session.secret", "session.ttl", "session.cookie_name", "session.cookie_secure",
		"reset.ttl", "reset.cleanup_interval",
		"mail.host", "mail.port", "mail.username", "mail.password", "mail.from", "mail.support_address",
		"storage.type", "storage.local_dir", "storage.public_url", "storage.max_image_size",
		"s3.endpoint", "s3.region", "s3.access_key_id", "s3.secret_access_key", "s3.bucket", "s3.public_url",
		"security.rate_limit",
		"security.argon.memory", "security.argon.iterations", "security.argon.parallelism",
		"security.turnstile.enabled", "security.turnstile.secret_token",
	} {
		v.BindEnv(key)
	}

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 5000)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.cors", []string{"http://localhost:5173"})
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("frontend.url", "http://localhost:5173")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("session.cookie_name", "token")
	v.SetDefault("session.cookie_secure", true)

	v.SetDefault("reset.ttl", 30*time.Minute)
	v.SetDefault("reset.cleanup_interval", time.Hour)

	v.SetDefault("mail.port", 587)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.public_url", "http://localhost:5000/uploads")
	v.SetDefault("storage.max_image_size", 5)

	v.SetDefault("s3.region", "auto")

	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.argon.memory", 64*1024)
	v.SetDefault("security.argon.iterations", 3)
	v.SetDefault("security.argon.parallelism", 2)
	v.SetDefault("security.turnstile.enabled", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || *configPath != "" {
			return nil, fmt.Errorf("failed to read config file, %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Storage.MaxImageSize <<= 20
	return &cfg, nil
}

// Validate checks the values that the application can't start without.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.App.LogLevel) {
		return errors.New("invalid log level provided")
	}

	if c.Host.Port <= 0 {
		return errors.New("invalid port provided")
	}

	if c.Host.SSL.Enabled {
		if c.Host.SSL.CertificatePath == "" {
			return errors.New("no ssl certificate path provided")
		}

		if c.Host.SSL.CertificateKeyPath == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if !slices.Contains(validDrivers, c.Database.Driver) {
		return errors.New("invalid database driver provided")
	}

	if c.Database.DSN == "" {
		return errors.New("database dsn can't be empty")
	}

	if c.Session.Secret == "" {
		fmt.Println("WARNING: You haven't set a session secret. Set SESSION_SECRET or session.secret in config.toml, for example:\n\n" + genSecret())
		return errors.New("session secret is missing")
	}

	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be bigger than 0")
	}

	if c.Reset.TTL <= 0 {
		return errors.New("reset.ttl must be bigger than 0")
	}

	if c.Mail.Host != "" && c.Mail.From == "" {
		return errors.New("mail.from can't be empty when mail.host is set")
	}

	if !slices.Contains(validStorageTypes, c.Storage.Type) {
		return errors.New("invalid storage type provided")
	}

	if c.Storage.Type == "s3" {
		if c.S3.AccessKeyID == "" {
			return errors.New("s3 access key id can't be empty")
		}
		if c.S3.SecretAccessKey == "" {
			return errors.New("s3 secret access key can't be empty")
		}
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket can't be empty")
		}
	}

	if c.Storage.MaxImageSize <= 0 {
		return errors.New("storage.max_image_size must be bigger than 0")
	}

	if c.Security.RateLimit <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if c.Security.Turnstile.Enabled && c.Security.Turnstile.SecretToken == "" {
		return errors.New("turnstile secret token is missing")
	}

	return nil
}
