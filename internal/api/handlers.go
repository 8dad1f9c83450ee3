// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package api provides the HTTP surface of Steerage: dataset loading,
// the derived survival report, the raw-relation CSV export, preview and
// health endpoints, wired through a Chi router.
//
// Every data-changing interaction follows the same synchronous model as
// the dashboard it serves: the request triggers a full recomputation of
// whatever it returns, with no background work and no caching of derived
// views.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/ingest"
)

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	db     *database.DB
	source *ingest.Source
	cfg    *config.Config
}

// NewHandler creates a new API handler.
func NewHandler(db *database.DB, source *ingest.Source, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		source: source,
		cfg:    cfg,
	}
}

// userPromptNoDataset is shown whenever a report or export is requested
// before any dataset has been loaded.
const userPromptNoDataset = "No dataset loaded. Upload a CSV file or load the demo dataset."

// Health reports liveness, including a database ping.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]any{
		"status":         "ok",
		"dataset_loaded": h.db.HasDataset(),
	}
	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database is not responding", err)
		return
	}
	respondSuccess(w, status, 0)
}

// DatasetStatus returns the currently registered dataset's provenance,
// row count and schema.
//
// Method: GET
// Path: /api/v1/dataset/status
func (h *Handler) DatasetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.db.Status(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STATUS_FAILED", "Failed to read dataset status", err)
		return
	}
	respondSuccess(w, status, 0)
}

// DatasetDemo loads the configured demo CSV as the raw relation,
// replacing any prior dataset.
//
// Method: POST
// Path: /api/v1/dataset/demo
func (h *Handler) DatasetDemo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status, err := h.source.LoadDemo(r.Context())
	if err != nil {
		if errors.Is(err, ingest.ErrDemoURLNotConfigured) {
			respondError(w, http.StatusBadRequest, "DEMO_NOT_CONFIGURED", "Demo dataset URL is not configured", err)
			return
		}
		// Fetch failures are fatal for this render cycle; no retries.
		respondError(w, http.StatusBadGateway, "DEMO_FETCH_FAILED", "Failed to fetch the demo dataset", err)
		return
	}
	respondSuccess(w, status, time.Since(start))
}

// DatasetUpload registers an uploaded CSV (multipart field "file") as
// the raw relation, replacing any prior dataset. A request without a
// file is answered with an informational prompt, not a server failure.
//
// Method: POST
// Path: /api/v1/dataset/upload
func (h *Handler) DatasetUpload(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Dataset.MaxUploadBytes+(1<<20))
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "NO_FILE",
			"Please upload a CSV file or use the demo dataset.", nil)
		return
	}
	defer func() {
		_ = file.Close()
	}()

	status, err := h.source.LoadUpload(r.Context(), file)
	if err != nil {
		if errors.Is(err, ingest.ErrNoFile) {
			respondError(w, http.StatusBadRequest, "NO_FILE",
				"Please upload a CSV file or use the demo dataset.", nil)
			return
		}
		respondError(w, http.StatusUnprocessableEntity, "INGEST_FAILED", "Failed to ingest the uploaded CSV", err)
		return
	}
	respondSuccess(w, status, time.Since(start))
}

// previewRequest carries the validated preview query parameters.
type previewRequest struct {
	Limit int `validate:"gte=1"`
}

// DatasetPreview returns the head of the raw relation with inferred
// column types.
//
// Method: GET
// Path: /api/v1/dataset/preview
//
// Query Parameters:
//   - limit: number of rows (default api.default_preview_rows, capped
//     at api.max_preview_rows)
func (h *Handler) DatasetPreview(w http.ResponseWriter, r *http.Request) {
	req := previewRequest{
		Limit: getIntParam(r, "limit", h.cfg.API.DefaultPreviewRows),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Limit > h.cfg.API.MaxPreviewRows {
		req.Limit = h.cfg.API.MaxPreviewRows
	}

	start := time.Now()
	preview, err := ingest.Preview(r.Context(), h.db, req.Limit)
	if err != nil {
		if errors.Is(err, database.ErrNoDataset) {
			respondError(w, http.StatusBadRequest, "NO_DATASET", userPromptNoDataset, nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "PREVIEW_FAILED", "Failed to build dataset preview", err)
		return
	}
	respondSuccess(w, preview, time.Since(start))
}
