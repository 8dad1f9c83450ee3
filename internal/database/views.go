// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// views.go - Derived View Builder
//
// The five fixed aggregation recipes that turn the raw passenger relation
// into the survival report: global stats, by sex, by age bucket, the
// sex x age-bucket cross-tabulation, and by travel class. Each recipe is
// a pure function of the registered relation: deterministic, no hidden
// state, re-executed in full on every render. Only realized groups (those
// with at least one row) appear in any grouped output, so a survival rate
// is never computed over an empty group.
//
// The age-bucket CASE expression and the bucket sort keys are generated
// from the canonical partition in internal/models, which keeps the
// partition, the ordering and the chart axis in a single place.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mlevier/steerage/internal/config"
	"github.com/mlevier/steerage/internal/metrics"
	"github.com/mlevier/steerage/internal/models"
)

// ComputeViews executes the full derived-view pipeline against the
// registered relation and returns all five views. It is called once per
// render; nothing is cached between calls.
//
// A relation missing an expected column makes the corresponding query
// fail; that error is returned unrecovered, as the render-cycle failure
// the caller reports to the user.
func (db *DB) ComputeViews(ctx context.Context) (*models.Report, error) {
	if !db.HasDataset() {
		return nil, ErrNoDataset
	}

	global, err := db.GlobalStats(ctx)
	if err != nil {
		return nil, err
	}
	bySex, err := db.SurvivalBySex(ctx)
	if err != nil {
		return nil, err
	}
	byAge, err := db.SurvivalByAgeGroup(ctx)
	if err != nil {
		return nil, err
	}
	crossTab, err := db.SurvivalBySexAndAgeGroup(ctx)
	if err != nil {
		return nil, err
	}
	byClass, err := db.SurvivalByClass(ctx)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		Global:   *global,
		BySex:    bySex,
		ByAge:    byAge,
		CrossTab: crossTab,
		ByClass:  byClass,
	}, nil
}

// GlobalStats computes the ungrouped survival aggregate. The survivor
// count stays an integer; only the rate is rounded.
func (db *DB) GlobalStats(ctx context.Context) (*models.GlobalStats, error) {
	if !db.HasDataset() {
		return nil, ErrNoDataset
	}

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total_passengers,
			CAST(COALESCE(SUM(Survived), 0) AS BIGINT) AS survivors,
			COALESCE(ROUND(SUM(Survived) * 100.0 / COUNT(*), 2), 0) AS survival_rate
		FROM %s`, config.TableName)

	start := time.Now()
	stats := &models.GlobalStats{}
	err := db.queryRowWithContext(ctx, query, nil,
		&stats.TotalPassengers, &stats.Survivors, &stats.SurvivalRate)
	metrics.ObserveViewQuery("global", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("global stats: %w", err)
	}
	return stats, nil
}

// SurvivalBySex computes survivors, deaths, total and rate per sex,
// ordered by sex.
func (db *DB) SurvivalBySex(ctx context.Context) ([]models.SexSurvival, error) {
	if !db.HasDataset() {
		return nil, ErrNoDataset
	}

	query := fmt.Sprintf(`
		SELECT
			Sex,
			CAST(SUM(CASE WHEN Survived = 1 THEN 1 ELSE 0 END) AS BIGINT) AS survivors,
			CAST(SUM(CASE WHEN Survived = 0 THEN 1 ELSE 0 END) AS BIGINT) AS deaths,
			COUNT(*) AS total,
			ROUND(SUM(Survived) * 100.0 / COUNT(*), 2) AS survival_rate
		FROM %s
		GROUP BY Sex
		ORDER BY Sex`, config.TableName)

	start := time.Now()
	var out []models.SexSurvival
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var row models.SexSurvival
		if err := rows.Scan(&row.Sex, &row.Survivors, &row.Deaths, &row.Total, &row.SurvivalRate); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	metrics.ObserveViewQuery("by_sex", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("survival by sex: %w", err)
	}
	return out, nil
}

// SurvivalByAgeGroup computes survivors, deaths, total and rate per age
// bucket. Rows with NULL age land in the Unknown bucket, which sorts
// after every numeric bucket; chart consumers drop it via
// Report.ChartedByAge.
func (db *DB) SurvivalByAgeGroup(ctx context.Context) ([]models.AgeGroupSurvival, error) {
	if !db.HasDataset() {
		return nil, ErrNoDataset
	}

	query := fmt.Sprintf(`
		SELECT
			%s AS age_group,
			CAST(SUM(CASE WHEN Survived = 1 THEN 1 ELSE 0 END) AS BIGINT) AS survivors,
			CAST(SUM(CASE WHEN Survived = 0 THEN 1 ELSE 0 END) AS BIGINT) AS deaths,
			COUNT(*) AS total,
			ROUND(SUM(Survived) * 100.0 / COUNT(*), 2) AS survival_rate
		FROM %s
		GROUP BY age_group
		ORDER BY %s`,
		models.AgeGroupCaseSQL("Age"), config.TableName, models.AgeGroupOrderCaseSQL("age_group"))

	start := time.Now()
	var out []models.AgeGroupSurvival
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var row models.AgeGroupSurvival
		if err := rows.Scan(&row.AgeGroup, &row.Survivors, &row.Deaths, &row.Total, &row.SurvivalRate); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	metrics.ObserveViewQuery("by_age", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("survival by age group: %w", err)
	}
	return out, nil
}

// SurvivalBySexAndAgeGroup computes the survival-rate cross-tabulation
// per (sex, age bucket), ordered by sex then bucket.
func (db *DB) SurvivalBySexAndAgeGroup(ctx context.Context) ([]models.SexAgeSurvival, error) {
	if !db.HasDataset() {
		return nil, ErrNoDataset
	}

	query := fmt.Sprintf(`
		SELECT
			Sex,
			%s AS age_group,
			ROUND(SUM(Survived) * 100.0 / COUNT(*), 2) AS survival_rate,
			COUNT(*) AS total
		FROM %s
		GROUP BY Sex, age_group
		ORDER BY Sex, %s`,
		models.AgeGroupCaseSQL("Age"), config.TableName, models.AgeGroupOrderCaseSQL("age_group"))

	start := time.Now()
	var out []models.SexAgeSurvival
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var cell models.SexAgeSurvival
		if err := rows.Scan(&cell.Sex, &cell.AgeGroup, &cell.SurvivalRate, &cell.Total); err != nil {
			return err
		}
		out = append(out, cell)
		return nil
	})
	metrics.ObserveViewQuery("cross_tab", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("survival by sex and age group: %w", err)
	}
	return out, nil
}

// SurvivalByClass computes total, survivors and rate per travel class,
// ordered by class ascending.
func (db *DB) SurvivalByClass(ctx context.Context) ([]models.ClassSurvival, error) {
	if !db.HasDataset() {
		return nil, ErrNoDataset
	}

	query := fmt.Sprintf(`
		SELECT
			CAST(Pclass AS INTEGER) AS pclass,
			COUNT(*) AS total,
			CAST(COALESCE(SUM(Survived), 0) AS BIGINT) AS survivors,
			ROUND(SUM(Survived) * 100.0 / COUNT(*), 2) AS survival_rate
		FROM %s
		GROUP BY pclass
		ORDER BY pclass`, config.TableName)

	start := time.Now()
	var out []models.ClassSurvival
	err := db.queryAndScan(ctx, query, nil, func(rows *sql.Rows) error {
		var row models.ClassSurvival
		if err := rows.Scan(&row.Pclass, &row.Total, &row.Survivors, &row.SurvivalRate); err != nil {
			return err
		}
		out = append(out, row)
		return nil
	})
	metrics.ObserveViewQuery("by_class", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("survival by class: %w", err)
	}
	return out, nil
}
