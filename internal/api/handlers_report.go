// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// handlers_report.go - Derived survival view endpoints
//
// Each endpoint re-executes its aggregation recipe against the raw
// relation on every request. A relation missing an expected column makes
// the recipe fail; that error is surfaced to the user for this render
// cycle, never silently zeroed.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/models"
)

// executeView runs one derived-view query with shared error mapping.
func (h *Handler) executeView(w http.ResponseWriter, r *http.Request, name string,
	query func(ctx context.Context) (interface{}, error),
) {
	start := time.Now()
	data, err := query(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNoDataset):
			respondError(w, http.StatusBadRequest, "NO_DATASET", userPromptNoDataset, nil)
		case database.IsMissingColumnError(err):
			respondError(w, http.StatusUnprocessableEntity, "MALFORMED_DATASET",
				"The dataset is missing a column required by the "+name+" view", err)
		default:
			respondError(w, http.StatusInternalServerError, "QUERY_FAILED",
				"Failed to compute the "+name+" view", err)
		}
		return
	}
	respondSuccess(w, data, time.Since(start))
}

// Report returns all five derived survival views in one payload.
//
// Method: GET
// Path: /api/v1/report
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	h.executeView(w, r, "report", func(ctx context.Context) (interface{}, error) {
		return h.db.ComputeViews(ctx)
	})
}

// ReportGlobal returns the ungrouped survival aggregate.
//
// Method: GET
// Path: /api/v1/report/global
func (h *Handler) ReportGlobal(w http.ResponseWriter, r *http.Request) {
	h.executeView(w, r, "global", func(ctx context.Context) (interface{}, error) {
		return h.db.GlobalStats(ctx)
	})
}

// ReportBySex returns survival counts grouped by sex.
//
// Method: GET
// Path: /api/v1/report/by-sex
func (h *Handler) ReportBySex(w http.ResponseWriter, r *http.Request) {
	h.executeView(w, r, "by-sex", func(ctx context.Context) (interface{}, error) {
		return h.db.SurvivalBySex(ctx)
	})
}

// ReportByAge returns survival counts grouped by age bucket. With
// charted=true the Unknown bucket is dropped, yielding the ordered
// chart-axis view.
//
// Method: GET
// Path: /api/v1/report/by-age
func (h *Handler) ReportByAge(w http.ResponseWriter, r *http.Request) {
	charted := getBoolParam(r, "charted")
	h.executeView(w, r, "by-age", func(ctx context.Context) (interface{}, error) {
		rows, err := h.db.SurvivalByAgeGroup(ctx)
		if err != nil {
			return nil, err
		}
		if charted {
			report := models.Report{ByAge: rows}
			return report.ChartedByAge(), nil
		}
		return rows, nil
	})
}

// ReportCrossTab returns the survival-rate cross-tabulation by sex and
// age bucket. With charted=true the Unknown bucket is dropped.
//
// Method: GET
// Path: /api/v1/report/crosstab
func (h *Handler) ReportCrossTab(w http.ResponseWriter, r *http.Request) {
	charted := getBoolParam(r, "charted")
	h.executeView(w, r, "cross-tab", func(ctx context.Context) (interface{}, error) {
		cells, err := h.db.SurvivalBySexAndAgeGroup(ctx)
		if err != nil {
			return nil, err
		}
		if charted {
			report := models.Report{CrossTab: cells}
			return report.ChartedCrossTab(), nil
		}
		return cells, nil
	})
}

// ReportByClass returns survival statistics grouped by travel class.
//
// Method: GET
// Path: /api/v1/report/by-class
func (h *Handler) ReportByClass(w http.ResponseWriter, r *http.Request) {
	h.executeView(w, r, "by-class", func(ctx context.Context) (interface{}, error) {
		return h.db.SurvivalByClass(ctx)
	})
}
