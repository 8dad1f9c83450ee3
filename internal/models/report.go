// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package models

// GlobalStats is the ungrouped survival aggregate over the whole dataset.
type GlobalStats struct {
	TotalPassengers int64   `json:"total_passengers"`
	Survivors       int64   `json:"survivors"`
	SurvivalRate    float64 `json:"survival_rate"` // percent, rounded to 2 decimals
}

// SexSurvival is one row of the by-sex grouped view.
type SexSurvival struct {
	Sex          string  `json:"sex"`
	Survivors    int64   `json:"survivors"`
	Deaths       int64   `json:"deaths"`
	Total        int64   `json:"total"`
	SurvivalRate float64 `json:"survival_rate"`
}

// AgeGroupSurvival is one row of the by-age-bucket grouped view.
// Rows with the Unknown bucket appear here but are dropped from
// chart-ordered variants.
type AgeGroupSurvival struct {
	AgeGroup     string  `json:"age_group"`
	Survivors    int64   `json:"survivors"`
	Deaths       int64   `json:"deaths"`
	Total        int64   `json:"total"`
	SurvivalRate float64 `json:"survival_rate"`
}

// SexAgeSurvival is one cell of the sex x age-bucket cross-tabulation.
type SexAgeSurvival struct {
	Sex          string  `json:"sex"`
	AgeGroup     string  `json:"age_group"`
	SurvivalRate float64 `json:"survival_rate"`
	Total        int64   `json:"total"`
}

// ClassSurvival is one row of the by-travel-class grouped view.
type ClassSurvival struct {
	Pclass       int     `json:"pclass"`
	Total        int64   `json:"total"`
	Survivors    int64   `json:"survivors"`
	SurvivalRate float64 `json:"survival_rate"`
}

// Report bundles all five derived views, computed fresh from the raw
// relation on every render. It carries no state of its own.
type Report struct {
	Global   GlobalStats        `json:"global"`
	BySex    []SexSurvival      `json:"by_sex"`
	ByAge    []AgeGroupSurvival `json:"by_age"`
	CrossTab []SexAgeSurvival   `json:"cross_tab"`
	ByClass  []ClassSurvival    `json:"by_class"`
}

// ChartedByAge returns the by-age rows without the Unknown bucket, in
// canonical bucket order. Chart axes never include Unknown.
func (r *Report) ChartedByAge() []AgeGroupSurvival {
	out := make([]AgeGroupSurvival, 0, len(r.ByAge))
	for _, row := range r.ByAge {
		if row.AgeGroup != AgeGroupUnknown {
			out = append(out, row)
		}
	}
	return out
}

// ChartedCrossTab returns the cross-tab cells without the Unknown bucket.
func (r *Report) ChartedCrossTab() []SexAgeSurvival {
	out := make([]SexAgeSurvival, 0, len(r.CrossTab))
	for _, cell := range r.CrossTab {
		if cell.AgeGroup != AgeGroupUnknown {
			out = append(out, cell)
		}
	}
	return out
}

// DatasetStatus describes the currently registered raw relation.
type DatasetStatus struct {
	Loaded  bool     `json:"loaded"`
	Version string   `json:"version,omitempty"` // stamp of the last successful load
	Source  string   `json:"source,omitempty"`  // "demo" or "upload"
	Rows    int64    `json:"rows"`
	Columns []string `json:"columns,omitempty"`
}

// DatasetPreview is the head of the raw relation with inferred column
// types, mirroring the data-overview panel of the dashboard.
type DatasetPreview struct {
	Columns []PreviewColumn  `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int64            `json:"total_rows"`
}

// PreviewColumn describes one column of the preview.
type PreviewColumn struct {
	Name string `json:"name"`
	Type string `json:"type"` // inferred series type, e.g. "float", "string"
}
