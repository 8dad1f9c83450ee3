// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/logging"
	"github.com/mlevier/steerage/internal/models"
)

// ErrNoDataset is returned by view and export operations when no raw
// relation has been registered yet. Callers report it as a prompt to load
// a dataset rather than as a failure.
var ErrNoDataset = errors.New("no dataset registered")

// RegisterCSV materializes the CSV file at path as the raw passenger
// relation, replacing any previously registered relation. Column types
// are inferred by DuckDB's read_csv_auto. The source tag records where
// the file came from ("demo" or "upload").
//
// The path is interpolated into the statement rather than bound because
// DuckDB does not accept parameters in read_csv_auto table functions;
// single quotes are escaped to keep the literal well formed.
func (db *DB) RegisterCSV(ctx context.Context, path, source string) (*models.DatasetStatus, error) {
	escaped := strings.ReplaceAll(path, "'", "''")
	stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s')",
		config.TableName, escaped)

	if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
		return nil, fmt.Errorf("register csv as %s: %w", config.TableName, err)
	}

	rows, err := db.RowCount(ctx)
	if err != nil {
		return nil, err
	}
	columns, err := db.Columns(ctx)
	if err != nil {
		return nil, err
	}

	version := uuid.NewString()
	db.mu.Lock()
	db.loaded = true
	db.version = version
	db.source = source
	db.rows = rows
	db.mu.Unlock()

	logging.Info().
		Str("source", source).
		Str("version", version).
		Int64("rows", rows).
		Int("columns", len(columns)).
		Msg("Dataset registered")

	return &models.DatasetStatus{
		Loaded:  true,
		Version: version,
		Source:  source,
		Rows:    rows,
		Columns: columns,
	}, nil
}

// HasDataset reports whether a raw relation is currently registered.
func (db *DB) HasDataset() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.loaded
}

// Status returns the current dataset status. Columns are re-read from the
// catalog so schema always reflects the live relation.
func (db *DB) Status(ctx context.Context) (*models.DatasetStatus, error) {
	db.mu.RLock()
	loaded, version, source, rows := db.loaded, db.version, db.source, db.rows
	db.mu.RUnlock()

	if !loaded {
		return &models.DatasetStatus{Loaded: false}, nil
	}

	columns, err := db.Columns(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DatasetStatus{
		Loaded:  true,
		Version: version,
		Source:  source,
		Rows:    rows,
		Columns: columns,
	}, nil
}

// RowCount returns the number of rows in the raw relation.
func (db *DB) RowCount(ctx context.Context) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", config.TableName)
	if err := db.queryRowWithContext(ctx, query, nil, &count); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// Columns returns the raw relation's column names in table order.
func (db *DB) Columns(ctx context.Context) ([]string, error) {
	var columns []string
	query := `SELECT column_name FROM information_schema.columns
		WHERE table_name = ? ORDER BY ordinal_position`
	err := db.queryAndScan(ctx, query, []interface{}{config.TableName}, func(rows *sql.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		columns = append(columns, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	return columns, nil
}

// PreviewRows returns the first limit rows of the raw relation as
// column-name keyed maps, preserving column order via the returned
// column slice.
func (db *DB) PreviewRows(ctx context.Context, limit int) ([]string, []map[string]any, error) {
	if !db.HasDataset() {
		return nil, nil, ErrNoDataset
	}

	query := fmt.Sprintf("SELECT * FROM %s LIMIT %d", config.TableName, limit)
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("preview query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("preview columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("preview scan: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("preview iteration: %w", err)
	}

	return columns, out, nil
}

// ExportCSV writes the full raw relation to w as UTF-8 comma-delimited
// CSV with a header row, Survived kept as 0/1. DuckDB produces the file
// via COPY TO so formatting stays inside the aggregator; the temp file is
// removed on all paths.
func (db *DB) ExportCSV(ctx context.Context, w io.Writer) error {
	if !db.HasDataset() {
		return ErrNoDataset
	}

	tmp, err := os.CreateTemp("", "steerage-export-*.csv")
	if err != nil {
		return fmt.Errorf("create export temp file: %w", err)
	}
	tmpPath := tmp.Name()
	// COPY writes the file itself; only the name is needed here.
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close export temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			logging.Warn().Err(err).Str("path", tmpPath).Msg("Failed to remove export temp file")
		}
	}()

	escaped := strings.ReplaceAll(filepath.ToSlash(tmpPath), "'", "''")
	stmt := fmt.Sprintf("COPY %s TO '%s' (FORMAT CSV, HEADER, DELIMITER ',')",
		config.TableName, escaped)
	if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("copy relation to csv: %w", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("open exported csv: %w", err)
	}
	defer closeQuietly(f)

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("stream exported csv: %w", err)
	}
	return nil
}
