// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package metrics provides Prometheus instrumentation for Steerage:
// derived-view query performance, dataset load activity, CSV exports and
// API endpoint latency.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ViewQueryDuration tracks execution time of the derived-view
	// aggregation queries against DuckDB.
	ViewQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_view_query_duration_seconds",
			Help:    "Duration of derived-view aggregation queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)

	// ViewQueryErrors counts failed derived-view queries.
	ViewQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_view_query_errors_total",
			Help: "Total number of failed derived-view queries",
		},
		[]string{"view"},
	)

	// DatasetLoads counts dataset registrations by source and outcome.
	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataset_loads_total",
			Help: "Total number of dataset load attempts",
		},
		[]string{"source", "outcome"}, // source: "demo"|"upload", outcome: "success"|"error"
	)

	// DatasetRows reports the row count of the currently loaded dataset.
	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_rows",
			Help: "Row count of the currently registered passenger relation",
		},
	)

	// ExportsTotal counts full-relation CSV exports.
	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_exports_total",
			Help: "Total number of CSV exports of the raw relation",
		},
	)

	// APIRequestsTotal counts API requests by method, endpoint and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	// APIRequestDuration tracks API request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// ObserveViewQuery records one derived-view query execution.
func ObserveViewQuery(view string, duration time.Duration, err error) {
	ViewQueryDuration.WithLabelValues(view).Observe(duration.Seconds())
	if err != nil {
		ViewQueryErrors.WithLabelValues(view).Inc()
	}
}

// RecordDatasetLoad records a dataset load attempt and, on success, the
// resulting row count.
func RecordDatasetLoad(source string, rows int64, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	DatasetLoads.WithLabelValues(source, outcome).Inc()
	if err == nil {
		DatasetRows.Set(float64(rows))
	}
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
