package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads; empty counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DRIVER", "DB_DSN", "JWT_SECRET", "JWT_TTL", "BCRYPT_COST",
		"LOG_LEVEL", "LOG_FORMAT",
		"GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET", "GITHUB_CALLBACK_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != DefaultPort || cfg.DBDriver != "sqlite" || cfg.DBDSN != DefaultDSN {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.JWTTTL != 15*time.Minute {
		t.Errorf("JWTTTL = %v, want 15m", cfg.JWTTTL)
	}
	if cfg.BcryptCost != DefaultCost {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, DefaultCost)
	}
	if cfg.GitHubCallbackURL != "http://localhost:8080/auth/github/callback" {
		t.Errorf("GitHubCallbackURL = %q", cfg.GitHubCallbackURL)
	}
	if cfg.GitHubEnabled() {
		t.Error("GitHubEnabled() = true without credentials")
	}
}

func TestLoad_EnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DB_DSN", "postgres://localhost/bookmarks")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")

	// Flags win over the environment.
	cfg, err := Load([]string{"-port", "9100", "-db", "postgres://other/db"})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want 9100 from flag", cfg.Port)
	}
	if cfg.DBDSN != "postgres://other/db" {
		t.Errorf("DBDSN = %q, want flag value", cfg.DBDSN)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.JWTTTL != time.Hour {
		t.Errorf("JWTTTL = %v, want 1h", cfg.JWTTTL)
	}
	if !strings.Contains(cfg.GitHubCallbackURL, ":9100/") {
		t.Errorf("GitHubCallbackURL = %q, want flag port", cfg.GitHubCallbackURL)
	}
	if !cfg.GitHubEnabled() {
		t.Error("GitHubEnabled() = false with credentials set")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		args    []string
		wantErr string
	}{
		{"missing secret", nil, nil, "JWT_SECRET"},
		{"short secret", map[string]string{"JWT_SECRET": "short"}, nil, "JWT_SECRET"},
		{"bad driver", map[string]string{"DB_DRIVER": "mysql"}, nil, "DB_DRIVER"},
		{"bad port", map[string]string{"PORT": "eighty"}, nil, "PORT"},
		{"bad ttl", map[string]string{"JWT_TTL": "soon"}, nil, "JWT_TTL"},
		{"negative ttl", map[string]string{"JWT_TTL": "-1m"}, nil, "JWT_TTL"},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, nil, "LOG_FORMAT"},
		{"unknown flag", nil, []string{"-nope"}, "flags"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, ok := tt.env["JWT_SECRET"]; !ok && tt.name != "missing secret" {
				t.Setenv("JWT_SECRET", "0123456789abcdef")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(tt.args)
			if err == nil {
				t.Fatal("Load() error = nil, want failure")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
