// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("default database path = %q, want :memory:", cfg.Database.Path)
	}
	if !strings.HasPrefix(cfg.Dataset.DemoURL, "https://") {
		t.Errorf("default demo URL should be https, got %q", cfg.Dataset.DemoURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: "server.timeout",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "bad demo url scheme",
			mutate:  func(c *Config) { c.Dataset.DemoURL = "ftp://example.com/titanic.csv" },
			wantErr: "dataset.demo_url",
		},
		{
			name:    "empty demo url is allowed",
			mutate:  func(c *Config) { c.Dataset.DemoURL = "" },
			wantErr: "",
		},
		{
			name:    "zero fetch timeout",
			mutate:  func(c *Config) { c.Dataset.FetchTimeout = 0 },
			wantErr: "dataset.fetch_timeout",
		},
		{
			name:    "zero upload cap",
			mutate:  func(c *Config) { c.Dataset.MaxUploadBytes = 0 },
			wantErr: "dataset.max_upload_bytes",
		},
		{
			name:    "preview rows below one",
			mutate:  func(c *Config) { c.API.DefaultPreviewRows = 0 },
			wantErr: "api.default_preview_rows",
		},
		{
			name: "max preview below default",
			mutate: func(c *Config) {
				c.API.DefaultPreviewRows = 50
				c.API.MaxPreviewRows = 10
			},
			wantErr: "api.max_preview_rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"DUCKDB_PATH", "database.path"},
		{"DUCKDB_MAX_MEMORY", "database.max_memory"},
		{"TITANIC_DEMO_URL", "dataset.demo_url"},
		{"DATASET_MAX_UPLOAD_BYTES", "dataset.max_upload_bytes"},
		{"LOG_LEVEL", "logging.level"},
		{"CORS_ORIGINS", "api.cors_origins"},
		{"PATH", ""},     // unmapped vars are skipped
		{"HOME", ""},     // unmapped vars are skipped
		{"RANDOM_X", ""}, // unmapped vars are skipped
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATASET_FETCH_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Dataset.FetchTimeout != 5*time.Second {
		t.Errorf("Dataset.FetchTimeout = %s, want 5s", cfg.Dataset.FetchTimeout)
	}
	want := []string{"http://a.example", "http://b.example"}
	if len(cfg.API.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.API.CORSOrigins, want)
	}
	for i := range want {
		if cfg.API.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.API.CORSOrigins[i], want[i])
		}
	}
}
