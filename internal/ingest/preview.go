// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package ingest

import (
	"context"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/mlevier/steerage/internal/database"
	"github.com/mlevier/steerage/internal/models"
)

// Preview returns the head of the raw relation together with inferred
// column types, backing the data-overview panel of the dashboard. Type
// inference runs through a gota dataframe over the previewed rows; the
// relation itself is untouched.
func Preview(ctx context.Context, db *database.DB, limit int) (*models.DatasetPreview, error) {
	columns, rows, err := db.PreviewRows(ctx, limit)
	if err != nil {
		return nil, err
	}

	total, err := db.RowCount(ctx)
	if err != nil {
		return nil, err
	}

	preview := &models.DatasetPreview{
		Rows:  rows,
		Total: total,
	}

	types := inferColumnTypes(columns, rows)
	preview.Columns = make([]models.PreviewColumn, len(columns))
	for i, col := range columns {
		preview.Columns[i] = models.PreviewColumn{Name: col, Type: types[col]}
	}
	return preview, nil
}

// inferColumnTypes runs the previewed rows through a gota dataframe and
// reports the detected series type per column. Columns that are entirely
// NULL in the preview fall back to "string".
func inferColumnTypes(columns []string, rows []map[string]any) map[string]string {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, columns)
	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			if v := row[col]; v != nil {
				record[i] = fmt.Sprint(v)
			}
		}
		records = append(records, record)
	}

	types := make(map[string]string, len(columns))
	for _, col := range columns {
		types[col] = "string"
	}
	if len(records) < 2 {
		return types
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(true),
		dataframe.DefaultType("string"),
		dataframe.HasHeader(true),
	)
	if df.Error() != nil {
		return types
	}

	names := df.Names()
	for i, t := range df.Types() {
		if i < len(names) {
			types[names[i]] = string(t)
		}
	}
	return types
}
