// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package database

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRegisterCSVStatus(t *testing.T) {
	db := setupTestDB(t)
	registerCSVContent(t, db, specExampleCSV)

	status, err := db.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Loaded {
		t.Fatal("status.Loaded = false after register")
	}
	if status.Rows != 3 {
		t.Errorf("status.Rows = %d, want 3", status.Rows)
	}
	if status.Source != "upload" {
		t.Errorf("status.Source = %q, want upload", status.Source)
	}
	if status.Version == "" {
		t.Error("status.Version must be stamped")
	}

	want := []string{"PassengerId", "Name", "Sex", "Age", "Pclass", "Survived"}
	if !reflect.DeepEqual(status.Columns, want) {
		t.Errorf("status.Columns = %v, want %v", status.Columns, want)
	}
}

func TestRegisterCSVReplacesPriorRelation(t *testing.T) {
	db := setupTestDB(t)
	registerCSVContent(t, db, specExampleCSV)

	first, err := db.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}

	// A second load fully replaces the relation and re-stamps the version.
	registerCSVContent(t, db, "PassengerId,Name,Sex,Age,Pclass,Survived\n1,Solo,female,30,1,1\n")

	second, err := db.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if second.Rows != 1 {
		t.Errorf("rows after replacement = %d, want 1", second.Rows)
	}
	if second.Version == first.Version {
		t.Error("version must change on replacement")
	}
}

func TestPreviewRows(t *testing.T) {
	db := setupTestDB(t)
	registerCSVContent(t, db, specExampleCSV)

	columns, rows, err := db.PreviewRows(context.Background(), 2)
	if err != nil {
		t.Fatalf("PreviewRows failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("preview rows = %d, want 2", len(rows))
	}
	if columns[0] != "PassengerId" {
		t.Errorf("first column = %q, want PassengerId", columns[0])
	}
	if rows[0]["Sex"] != "male" {
		t.Errorf("rows[0].Sex = %v, want male", rows[0]["Sex"])
	}
}

func TestPreviewRowsWithoutDataset(t *testing.T) {
	db := setupTestDB(t)

	if _, _, err := db.PreviewRows(context.Background(), 10); err != ErrNoDataset {
		t.Fatalf("PreviewRows without dataset: err = %v, want ErrNoDataset", err)
	}
}

func TestExportCSV(t *testing.T) {
	db := setupTestDB(t)
	registerCSVContent(t, db, specExampleCSV)

	var buf bytes.Buffer
	if err := db.ExportCSV(context.Background(), &buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 { // header + 3 passengers
		t.Fatalf("exported %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "PassengerId,") {
		t.Errorf("header = %q, want PassengerId first", lines[0])
	}
	// Survived stays a 0/1 integer in the export.
	if !strings.HasSuffix(lines[1], ",1") {
		t.Errorf("first data row = %q, want trailing Survived=1", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",0") {
		t.Errorf("second data row = %q, want trailing Survived=0", lines[2])
	}
}

func TestExportCSVWithoutDataset(t *testing.T) {
	db := setupTestDB(t)

	var buf bytes.Buffer
	if err := db.ExportCSV(context.Background(), &buf); err != ErrNoDataset {
		t.Fatalf("ExportCSV without dataset: err = %v, want ErrNoDataset", err)
	}
}

func TestExportRoundTripReproducesViews(t *testing.T) {
	db := setupTestDB(t)
	registerCSVContent(t, db, largerCSV)

	ctx := context.Background()
	original, err := db.ComputeViews(ctx)
	if err != nil {
		t.Fatalf("ComputeViews failed: %v", err)
	}

	var buf bytes.Buffer
	if err := db.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	// Re-ingest the exported CSV into a second database and re-run the
	// same aggregation recipes.
	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write round-trip CSV: %v", err)
	}

	db2 := setupTestDB(t)
	if _, err := db2.RegisterCSV(ctx, path, "upload"); err != nil {
		t.Fatalf("Failed to register round-trip CSV: %v", err)
	}

	reloaded, err := db2.ComputeViews(ctx)
	if err != nil {
		t.Fatalf("ComputeViews on round-trip failed: %v", err)
	}

	if !reflect.DeepEqual(original, reloaded) {
		t.Errorf("round-trip views differ:\noriginal: %+v\nreloaded: %+v", original, reloaded)
	}
}
