// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package config provides layered configuration loading for Steerage.
//
// Configuration is loaded via Koanf v2 with the following precedence
// (highest wins):
//  1. Environment variables
//  2. Optional YAML config file
//  3. Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the Steerage server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Dataset  DatasetConfig  `koanf:"dataset"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB settings. The database is the in-process
// relational aggregator; by default it lives purely in memory since the
// dataset is rebuilt from CSV on every load and nothing persists across
// restarts.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// DatasetConfig holds the passenger dataset source settings.
type DatasetConfig struct {
	// DemoURL is the remote CSV fetched in demo mode.
	DemoURL string `koanf:"demo_url"`

	// FetchTimeout bounds the demo CSV download.
	FetchTimeout time.Duration `koanf:"fetch_timeout"`

	// MaxUploadBytes caps uploaded CSV size.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPreviewRows int           `koanf:"default_preview_rows"`
	MaxPreviewRows     int           `koanf:"max_preview_rows"`
	RateLimitReqs      int           `koanf:"rate_limit_reqs"`
	RateLimitWindow    time.Duration `koanf:"rate_limit_window"`
	CORSOrigins        []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// TableName is the fixed name under which the raw passenger relation is
// registered in the aggregator. All derived view queries reference it.
const TableName = "titanic"

// Validate checks the configuration for invalid values. It returns an
// error describing the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty (use :memory: for in-memory)")
	}
	if c.Dataset.DemoURL != "" {
		u, err := url.Parse(c.Dataset.DemoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("dataset.demo_url must be a valid http(s) URL, got %q", c.Dataset.DemoURL)
		}
	}
	if c.Dataset.FetchTimeout <= 0 {
		return fmt.Errorf("dataset.fetch_timeout must be positive, got %s", c.Dataset.FetchTimeout)
	}
	if c.Dataset.MaxUploadBytes <= 0 {
		return fmt.Errorf("dataset.max_upload_bytes must be positive, got %d", c.Dataset.MaxUploadBytes)
	}
	if c.API.DefaultPreviewRows < 1 {
		return fmt.Errorf("api.default_preview_rows must be at least 1, got %d", c.API.DefaultPreviewRows)
	}
	if c.API.MaxPreviewRows < c.API.DefaultPreviewRows {
		return fmt.Errorf("api.max_preview_rows (%d) must be >= api.default_preview_rows (%d)",
			c.API.MaxPreviewRows, c.API.DefaultPreviewRows)
	}
	if c.API.RateLimitReqs < 1 {
		return fmt.Errorf("api.rate_limit_reqs must be at least 1, got %d", c.API.RateLimitReqs)
	}
	return nil
}
