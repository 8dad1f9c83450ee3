// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package web serves the embedded single-page dashboard. The assets are
// compiled into the binary so the server ships as a single file.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static
var staticFiles embed.FS

// Handler returns an http.Handler serving the embedded dashboard.
// Unknown paths fall back to index.html.
func Handler() http.Handler {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The subtree is embedded at compile time; failing to open it
		// is a build defect, not a runtime condition.
		panic(err)
	}

	fileServer := http.FileServer(http.FS(assets))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			path = "index.html"
		}

		if _, err := fs.Stat(assets, path); err != nil {
			// Fallback so a bookmarked dashboard path still loads.
			w.Header().Set("Cache-Control", "public, max-age=300")
			r.URL.Path = "/"
			fileServer.ServeHTTP(w, r)
			return
		}

		if strings.HasSuffix(path, ".js") || strings.HasSuffix(path, ".css") {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=300")
		}
		fileServer.ServeHTTP(w, r)
	})
}
