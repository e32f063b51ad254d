package config

import (
	"os"
	"testing"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	os.Unsetenv("DATABASE_URL")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost/bienestar_test")
	defer os.Unsetenv("DATABASE_URL")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("Port = %q, want 8000", cfg.Port)
	}
	if cfg.JWTTTLHours != 8 {
		t.Errorf("JWTTTLHours = %d, want 8", cfg.JWTTTLHours)
	}
	if !cfg.IsDev() {
		t.Error("default ENV should be development")
	}
	if cfg.JWTSecret == "" {
		t.Error("development mode should fall back to a dev secret")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "dev with dev secret ok",
			cfg:  Config{Env: "development", JWTSecret: "bienestar-dev-secret", JWTTTLHours: 8, DBMaxConns: 20, DBMinConns: 5},
		},
		{
			name:    "production with dev secret rejected",
			cfg:     Config{Env: "production", JWTSecret: "bienestar-dev-secret", JWTTTLHours: 8, DBMaxConns: 20, DBMinConns: 5},
			wantErr: true,
		},
		{
			name:    "production with short secret rejected",
			cfg:     Config{Env: "production", JWTSecret: "short", JWTTTLHours: 8, DBMaxConns: 20, DBMinConns: 5},
			wantErr: true,
		},
		{
			name: "production with strong secret ok",
			cfg:  Config{Env: "production", JWTSecret: "0123456789abcdef0123456789abcdef", JWTTTLHours: 8, DBMaxConns: 20, DBMinConns: 5},
		},
		{
			name:    "zero ttl rejected",
			cfg:     Config{Env: "development", JWTSecret: "x", JWTTTLHours: 0, DBMaxConns: 20, DBMinConns: 5},
			wantErr: true,
		},
		{
			name:    "max conns below min rejected",
			cfg:     Config{Env: "development", JWTSecret: "x", JWTTTLHours: 8, DBMaxConns: 2, DBMinConns: 5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
