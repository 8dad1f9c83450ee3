// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package database wraps the embedded DuckDB engine. DuckDB is consumed
// purely as a relational aggregator: the raw passenger relation is
// registered under a fixed table name and a fixed set of aggregation
// queries derives the survival views from it. Nothing here persists; the
// default database lives in memory and the relation is rebuilt from CSV
// on every load.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/mlevier/steerage/internal/config"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// Current dataset bookkeeping. The relation itself lives in DuckDB;
	// this only records provenance of the last successful load.
	mu      sync.RWMutex
	loaded  bool
	version string
	source  string
	rows    int64
}

// New creates a new database connection. The connection is kept for the
// process lifetime and closed on shutdown.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}

	// Disable auto-install/auto-load of extensions to prevent hangs in
	// restricted network environments; read_csv_auto needs none.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn: conn,
		cfg:  cfg,
	}

	db.configureConnectionPool()

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// configureConnectionPool sets connection pool parameters.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// queryRowWithContext executes a query expecting a single row and scans
// into dest.
func (db *DB) queryRowWithContext(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	row := db.conn.QueryRowContext(ctx, query, args...)
	if err := row.Scan(dest...); err != nil {
		return fmt.Errorf("scan row: %w", err)
	}
	return nil
}

// queryAndScan executes a query and scans all rows using the provided
// scanner function.
func (db *DB) queryAndScan(ctx context.Context, query string, args []interface{}, scanner func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	return nil
}

// IsMissingColumnError reports whether err comes from a query referencing
// a column the registered relation does not have (malformed upload). The
// failure is surfaced to the user unrecovered; this only picks the HTTP
// status.
func IsMissingColumnError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Binder Error") &&
		(strings.Contains(msg, "not found in FROM clause") ||
			strings.Contains(msg, "does not have a column"))
}

func closeQuietly(c interface{ Close() error }) {
	_ = c.Close()
}
