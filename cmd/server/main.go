// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package main is the entry point for the Steerage server.
//
// Steerage is a self-hosted dashboard for Titanic passenger survival
// statistics. It ingests the passenger manifest from a CSV file (an
// upload or the public demo dataset), registers it in an embedded
// DuckDB instance, and serves derived survival views over a REST API
// alongside an embedded single-page dashboard.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: settings from environment variables and an
//     optional YAML config file (Koanf v2)
//  2. Database: embedded in-process DuckDB, in-memory by default
//  3. Ingest: CSV source handling for uploads and the demo dataset
//  4. HTTP server: REST API, Prometheus metrics and the dashboard
//
// No dataset is loaded at startup. The raw relation is registered on
// the first demo load or upload, and every report request recomputes
// its views from scratch.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (HTTP_PORT, DUCKDB_PATH, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10 seconds for in-flight
// requests, then closes the database.
//
// # Example Usage
//
//	export HTTP_PORT=8912
//	export LOG_LEVEL=info
//	./steerage
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mlevier/steerage/internal/api"
	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/ingest"
	"github.com/mlevier/steerage/internal/logging"
	"github.com/mlevier/steerage/internal/web"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("demo_url", cfg.Dataset.DemoURL).
		Msg("Starting Steerage")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	source := ingest.NewSource(db, &cfg.Dataset)
	router := api.NewRouter(db, source, cfg, web.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logging.Info().Msg("Application stopped gracefully")
}
