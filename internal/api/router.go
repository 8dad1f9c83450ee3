// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/ingest"
)

// Router wires handlers, middleware and static assets into an
// http.Handler.
type Router struct {
	handler *Handler
	cfg     *config.Config
	web     http.Handler
}

// NewRouter creates a Router. web serves the embedded dashboard; pass
// nil to disable it (tests do).
func NewRouter(db *database.DB, source *ingest.Source, cfg *config.Config, web http.Handler) *Router {
	return &Router{
		handler: NewHandler(db, source, cfg),
		cfg:     cfg,
		web:     web,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.API.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.cfg.API.RateLimitReqs, router.cfg.API.RateLimitWindow))
		r.Use(PrometheusMetrics())

		r.Get("/health", router.handler.Health)

		r.Route("/dataset", func(r chi.Router) {
			r.Get("/status", router.handler.DatasetStatus)
			r.Get("/preview", router.handler.DatasetPreview)
			r.Post("/demo", router.handler.DatasetDemo)
			r.Post("/upload", router.handler.DatasetUpload)
		})

		r.Route("/report", func(r chi.Router) {
			r.Get("/", router.handler.Report)
			r.Get("/global", router.handler.ReportGlobal)
			r.Get("/by-sex", router.handler.ReportBySex)
			r.Get("/by-age", router.handler.ReportByAge)
			r.Get("/crosstab", router.handler.ReportCrossTab)
			r.Get("/by-class", router.handler.ReportByClass)
		})

		r.Get("/export", router.handler.Export)
	})

	r.Handle("/metrics", promhttp.Handler())

	// Static dashboard. Must be last, catches all unmatched routes.
	if router.web != nil {
		r.Handle("/*", router.web)
	}

	return r
}
