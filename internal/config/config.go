// Package config loads process settings once at startup.
//
// PRECEDENCE (lowest to highest):
//  1. built-in defaults
//  2. environment variables (a .env file in the working directory is loaded
//     first, but never overrides variables already set in the environment)
//  3. command-line flags
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPort   = 8080
	DefaultDriver = "sqlite"
	DefaultDSN    = "data/bookmarks.db"
	DefaultJWTTTL = 15 * time.Minute
	DefaultCost   = 12
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Port       int
	DBDriver   string // "sqlite" or "postgres"
	DBDSN      string
	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int
	LogLevel   string
	LogFormat  string // "text" or "json"

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// GitHubEnabled reports whether GitHub sign-in is configured.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load resolves the configuration from defaults, the environment and args
// (normally os.Args[1:]).
func Load(args []string) (*Config, error) {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:  getEnv("DB_DRIVER", DefaultDriver),
		DBDSN:     getEnv("DB_DSN", DefaultDSN),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  os.Getenv("GITHUB_CALLBACK_URL"),
	}

	var err error
	if cfg.Port, err = getEnvInt("PORT", DefaultPort); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", DefaultCost); err != nil {
		return nil, err
	}
	if cfg.JWTTTL, err = getEnvDuration("JWT_TTL", DefaultJWTTTL); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("bookmarks", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port")
	fs.StringVar(&cfg.DBDSN, "db", cfg.DBDSN, "database DSN (file path for sqlite)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("config: parsing flags: %w", err)
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: PORT %d out of range", c.Port))
	}
	c.DBDriver = strings.ToLower(c.DBDriver)
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		errs = append(errs, fmt.Errorf("config: DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("config: DB_DSN is required"))
	}
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("config: JWT_SECRET is required and must be at least 16 characters"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, fmt.Errorf("config: JWT_TTL must be positive, got %s", c.JWTTTL))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer", key, value)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not a duration (e.g. 15m)", key, value)
	}
	return d, nil
}
