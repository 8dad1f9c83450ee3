// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/database"
)

const testCSV = `PassengerId,Name,Sex,Age,Pclass,Survived
1,"Allen, Master. Tom",male,5,3,1
2,"Baxter, Mr. Quigg",male,45,1,0
3,"Cribb, Miss. Laura",female,22,2,1
`

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "512MB",
		PreserveInsertionOrder: true,
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})
	return db
}

func testDatasetConfig(demoURL string) *config.DatasetConfig {
	return &config.DatasetConfig{
		DemoURL:        demoURL,
		FetchTimeout:   10 * time.Second,
		MaxUploadBytes: 1 << 20,
	}
}

func TestLoadUpload(t *testing.T) {
	db := setupTestDB(t)
	src := NewSource(db, testDatasetConfig(""))

	status, err := src.LoadUpload(context.Background(), strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("LoadUpload failed: %v", err)
	}
	if status.Rows != 3 {
		t.Errorf("rows = %d, want 3", status.Rows)
	}
	if status.Source != SourceUpload {
		t.Errorf("source = %q, want %q", status.Source, SourceUpload)
	}
	if !db.HasDataset() {
		t.Error("dataset should be registered after upload")
	}
}

func TestLoadUploadNilFile(t *testing.T) {
	db := setupTestDB(t)
	src := NewSource(db, testDatasetConfig(""))

	_, err := src.LoadUpload(context.Background(), nil)
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("err = %v, want ErrNoFile", err)
	}
	if db.HasDataset() {
		t.Error("no dataset should be registered")
	}
}

func TestLoadUploadEmptyFile(t *testing.T) {
	db := setupTestDB(t)
	src := NewSource(db, testDatasetConfig(""))

	_, err := src.LoadUpload(context.Background(), strings.NewReader(""))
	if !errors.Is(err, ErrNoFile) {
		t.Fatalf("err = %v, want ErrNoFile", err)
	}
}

func TestLoadUploadTooLarge(t *testing.T) {
	db := setupTestDB(t)
	cfg := testDatasetConfig("")
	cfg.MaxUploadBytes = 16
	src := NewSource(db, cfg)

	_, err := src.LoadUpload(context.Background(), strings.NewReader(testCSV))
	if err == nil {
		t.Fatal("expected size-cap error")
	}
	if !strings.Contains(err.Error(), "maximum size") {
		t.Errorf("err = %v, want size-cap message", err)
	}
}

func TestLoadDemo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(testCSV))
	}))
	t.Cleanup(srv.Close)

	db := setupTestDB(t)
	src := NewSource(db, testDatasetConfig(srv.URL))

	status, err := src.LoadDemo(context.Background())
	if err != nil {
		t.Fatalf("LoadDemo failed: %v", err)
	}
	if status.Rows != 3 {
		t.Errorf("rows = %d, want 3", status.Rows)
	}
	if status.Source != SourceDemo {
		t.Errorf("source = %q, want %q", status.Source, SourceDemo)
	}
}

func TestLoadDemoUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	db := setupTestDB(t)
	src := NewSource(db, testDatasetConfig(srv.URL))

	// Fatal for the render cycle, no retry, nothing registered.
	if _, err := src.LoadDemo(context.Background()); err == nil {
		t.Fatal("expected error on upstream failure")
	}
	if db.HasDataset() {
		t.Error("failed demo load must not register a dataset")
	}
}

func TestLoadDemoNotConfigured(t *testing.T) {
	db := setupTestDB(t)
	src := NewSource(db, testDatasetConfig(""))

	if _, err := src.LoadDemo(context.Background()); !errors.Is(err, ErrDemoURLNotConfigured) {
		t.Fatalf("err = %v, want ErrDemoURLNotConfigured", err)
	}
}
