// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package ingest loads the passenger dataset into the relational
// aggregator, either from the configured remote demo CSV or from an
// uploaded file. Both paths spool the CSV to a temporary file so DuckDB
// can materialize it via read_csv_auto; the temp file is created, used
// and removed within a single load, on every path including failure.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/logging"
	"github.com/mlevier/steerage/internal/metrics"
	"github.com/mlevier/steerage/internal/models"
)

// Source names for dataset provenance and metrics labels.
const (
	SourceDemo   = "demo"
	SourceUpload = "upload"
)

// ErrNoFile indicates an upload request without a file. It is reported
// as an informational prompt, not a failure: the render halts cleanly
// until the user provides one.
var ErrNoFile = errors.New("no file provided")

// ErrDemoURLNotConfigured indicates demo mode with an empty demo URL.
var ErrDemoURLNotConfigured = errors.New("demo dataset URL is not configured")

// Source loads passenger datasets into the database.
type Source struct {
	db     *database.DB
	cfg    *config.DatasetConfig
	client *http.Client
}

// NewSource creates a dataset source. The HTTP client is only used for
// demo-mode fetches and is bounded by the configured fetch timeout.
func NewSource(db *database.DB, cfg *config.DatasetConfig) *Source {
	return &Source{
		db:  db,
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.FetchTimeout,
		},
	}
}

// LoadDemo fetches the configured demo CSV and registers it as the raw
// relation. A fetch failure is fatal for this render cycle and is not
// retried; the user recovers by trying again or switching source.
func (s *Source) LoadDemo(ctx context.Context) (*models.DatasetStatus, error) {
	status, err := s.loadDemo(ctx)
	metrics.RecordDatasetLoad(SourceDemo, rowsOf(status), err)
	return status, err
}

func (s *Source) loadDemo(ctx context.Context) (*models.DatasetStatus, error) {
	if s.cfg.DemoURL == "" {
		return nil, ErrDemoURLNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.DemoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build demo request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch demo dataset: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch demo dataset: unexpected status %s", resp.Status)
	}

	return s.registerFromReader(ctx, resp.Body, SourceDemo)
}

// LoadUpload registers an uploaded CSV as the raw relation. A nil reader
// means the user submitted no file.
func (s *Source) LoadUpload(ctx context.Context, file io.Reader) (*models.DatasetStatus, error) {
	if file == nil {
		// Not a failure; don't count it against the upload error metric.
		return nil, ErrNoFile
	}
	status, err := s.registerFromReader(ctx, file, SourceUpload)
	metrics.RecordDatasetLoad(SourceUpload, rowsOf(status), err)
	return status, err
}

// registerFromReader spools r to a temp file and hands it to DuckDB.
func (s *Source) registerFromReader(ctx context.Context, r io.Reader, source string) (*models.DatasetStatus, error) {
	tmp, err := os.CreateTemp("", "steerage-ingest-*.csv")
	if err != nil {
		return nil, fmt.Errorf("create ingest temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			logging.Warn().Err(err).Str("path", tmpPath).Msg("Failed to remove ingest temp file")
		}
	}()

	written, err := io.Copy(tmp, io.LimitReader(r, s.cfg.MaxUploadBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("spool csv to temp file: %w", err)
	}
	if written == 0 {
		return nil, ErrNoFile
	}
	if written > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("csv exceeds maximum size of %d bytes", s.cfg.MaxUploadBytes)
	}

	return s.db.RegisterCSV(ctx, tmpPath, source)
}

func rowsOf(status *models.DatasetStatus) int64 {
	if status == nil {
		return 0
	}
	return status.Rows
}
