// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

// Package models defines the data structures shared between the database
// layer and the HTTP API: the derived survival views, the age-bucket
// partition, and the standard API response envelope.
package models

import (
	"fmt"
	"strings"
)

// AgeGroupUnknown is the distinguished bucket for passengers with a NULL
// age. It participates in the raw grouped views but is excluded from any
// ordered chart axis.
const AgeGroupUnknown = "Unknown"

// AgeGroup is one bucket of the fixed age partition.
type AgeGroup struct {
	Label string  // display label, e.g. "20-29" or "80+"
	Lower float64 // inclusive lower bound
	Upper float64 // exclusive upper bound; <0 means unbounded
}

// AgeGroups is the canonical ordered partition of [0, inf) into decade
// buckets. Together with AgeGroupUnknown for NULL ages it is exhaustive
// and non-overlapping. The SQL bucketing expression, the result ordering
// and the chart axis are all derived from this single table.
var AgeGroups = []AgeGroup{
	{Label: "0-9", Lower: 0, Upper: 10},
	{Label: "10-19", Lower: 10, Upper: 20},
	{Label: "20-29", Lower: 20, Upper: 30},
	{Label: "30-39", Lower: 30, Upper: 40},
	{Label: "40-49", Lower: 40, Upper: 50},
	{Label: "50-59", Lower: 50, Upper: 60},
	{Label: "60-69", Lower: 60, Upper: 70},
	{Label: "70-79", Lower: 70, Upper: 80},
	{Label: "80+", Lower: 80, Upper: -1},
}

// AgeGroupLabels returns the ordered bucket labels, without Unknown.
// This is the categorical domain for age-axis charts.
func AgeGroupLabels() []string {
	labels := make([]string, len(AgeGroups))
	for i, g := range AgeGroups {
		labels[i] = g.Label
	}
	return labels
}

// AgeGroupFor maps an age to its bucket label. A nil age maps to
// AgeGroupUnknown; negative ages cannot occur in the domain but clamp
// into the first bucket, keeping the partition total.
func AgeGroupFor(age *float64) string {
	if age == nil {
		return AgeGroupUnknown
	}
	for _, g := range AgeGroups {
		if g.Upper < 0 || *age < g.Upper {
			return g.Label
		}
	}
	return AgeGroups[len(AgeGroups)-1].Label
}

// AgeGroupOrder returns the sort position of a bucket label. Unknown
// sorts after every numeric bucket; unrecognized labels sort last.
func AgeGroupOrder(label string) int {
	for i, g := range AgeGroups {
		if g.Label == label {
			return i
		}
	}
	if label == AgeGroupUnknown {
		return len(AgeGroups)
	}
	return len(AgeGroups) + 1
}

// AgeGroupCaseSQL renders the bucketing rule as a SQL CASE expression
// over the given column. NULL is tested first so the numeric comparisons
// only ever see real ages.
func AgeGroupCaseSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE\n")
	fmt.Fprintf(&b, "\tWHEN %s IS NULL THEN '%s'\n", column, AgeGroupUnknown)
	for _, g := range AgeGroups {
		if g.Upper < 0 {
			fmt.Fprintf(&b, "\tELSE '%s'\n", g.Label)
		} else {
			fmt.Fprintf(&b, "\tWHEN %s < %g THEN '%s'\n", column, g.Upper, g.Label)
		}
	}
	b.WriteString("END")
	return b.String()
}

// AgeGroupOrderCaseSQL renders a CASE expression yielding the canonical
// sort key for a bucket label, for use in ORDER BY. The alias must refer
// to the bucket label column of the surrounding query.
func AgeGroupOrderCaseSQL(alias string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(alias)
	for i, g := range AgeGroups {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", g.Label, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(AgeGroups))
	return b.String()
}
