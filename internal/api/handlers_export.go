// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package api

import (
	"errors"
	"net/http"

	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/logging"
	"github.com/mlevier/steerage/internal/metrics"
)

// exportFilename is the fixed name of the downloadable raw-relation CSV.
const exportFilename = "titanic_analyse.csv"

// Export streams the full raw relation as a CSV download: UTF-8, comma
// delimited, header row of raw column names, Survived as 0/1.
//
// Method: GET
// Path: /api/v1/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.db.HasDataset() {
		respondError(w, http.StatusBadRequest, "NO_DATASET", userPromptNoDataset, nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)

	if err := h.db.ExportCSV(r.Context(), w); err != nil {
		if errors.Is(err, database.ErrNoDataset) {
			// Headers are not committed before the first body write, so
			// the error response still goes out clean.
			w.Header().Del("Content-Disposition")
			respondError(w, http.StatusBadRequest, "NO_DATASET", userPromptNoDataset, nil)
			return
		}
		// The response may be partially written at this point; all we
		// can do is log it.
		logging.Error().Err(err).Msg("CSV export failed")
		return
	}
	metrics.ExportsTotal.Inc()
}
