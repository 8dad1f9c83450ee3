// Steerage - Titanic Passenger Survival Analytics
// Copyright 2026 M. Levier (mlevier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mlevier/steerage

package models

import (
	"strings"
	"testing"
)

func ptrFloat(f float64) *float64 { return &f }

func TestAgeGroupForMapsEveryAgeToExactlyOneBucket(t *testing.T) {
	tests := []struct {
		name string
		age  *float64
		want string
	}{
		{"nil age", nil, AgeGroupUnknown},
		{"zero", ptrFloat(0), "0-9"},
		{"infant fraction", ptrFloat(0.42), "0-9"},
		{"upper edge of first bucket", ptrFloat(9.99), "0-9"},
		{"lower edge of second bucket", ptrFloat(10), "10-19"},
		{"mid twenties", ptrFloat(22), "20-29"},
		{"boundary thirty", ptrFloat(30), "30-39"},
		{"forty five", ptrFloat(45), "40-49"},
		{"boundary eighty", ptrFloat(80), "80+"},
		{"centenarian", ptrFloat(104), "80+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeGroupFor(tt.age); got != tt.want {
				t.Errorf("AgeGroupFor(%v) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

func TestAgeGroupsPartitionIsContiguous(t *testing.T) {
	// Buckets must tile [0, inf) with no gaps and no overlap.
	if AgeGroups[0].Lower != 0 {
		t.Errorf("first bucket starts at %g, want 0", AgeGroups[0].Lower)
	}
	for i := 1; i < len(AgeGroups); i++ {
		if AgeGroups[i-1].Upper != AgeGroups[i].Lower {
			t.Errorf("gap between bucket %q (upper %g) and %q (lower %g)",
				AgeGroups[i-1].Label, AgeGroups[i-1].Upper,
				AgeGroups[i].Label, AgeGroups[i].Lower)
		}
	}
	if last := AgeGroups[len(AgeGroups)-1]; last.Upper >= 0 {
		t.Errorf("last bucket %q must be unbounded, got upper %g", last.Label, last.Upper)
	}
}

func TestAgeGroupOrder(t *testing.T) {
	// Numeric buckets sort by lower bound; Unknown sorts after all of them.
	for i := 1; i < len(AgeGroups); i++ {
		prev, cur := AgeGroups[i-1].Label, AgeGroups[i].Label
		if AgeGroupOrder(prev) >= AgeGroupOrder(cur) {
			t.Errorf("order(%q)=%d not before order(%q)=%d",
				prev, AgeGroupOrder(prev), cur, AgeGroupOrder(cur))
		}
	}
	lastNumeric := AgeGroups[len(AgeGroups)-1].Label
	if AgeGroupOrder(AgeGroupUnknown) <= AgeGroupOrder(lastNumeric) {
		t.Errorf("Unknown must sort after %q", lastNumeric)
	}
}

func TestAgeGroupLabelsExcludeUnknown(t *testing.T) {
	labels := AgeGroupLabels()
	if len(labels) != len(AgeGroups) {
		t.Fatalf("got %d labels, want %d", len(labels), len(AgeGroups))
	}
	for _, l := range labels {
		if l == AgeGroupUnknown {
			t.Errorf("chart domain must not contain %q", AgeGroupUnknown)
		}
	}
}

func TestAgeGroupCaseSQL(t *testing.T) {
	sql := AgeGroupCaseSQL("Age")

	if !strings.HasPrefix(sql, "CASE") || !strings.HasSuffix(sql, "END") {
		t.Fatalf("not a CASE expression: %q", sql)
	}
	// NULL arm must come first so numeric comparisons never see NULL.
	nullIdx := strings.Index(sql, "Age IS NULL")
	firstCmp := strings.Index(sql, "Age < 10")
	if nullIdx < 0 || firstCmp < 0 || nullIdx > firstCmp {
		t.Errorf("NULL arm must precede numeric comparisons:\n%s", sql)
	}
	for _, g := range AgeGroups {
		if !strings.Contains(sql, "'"+g.Label+"'") {
			t.Errorf("bucket %q missing from CASE expression", g.Label)
		}
	}
	if !strings.Contains(sql, "ELSE '80+'") {
		t.Errorf("open-ended bucket must be the ELSE arm:\n%s", sql)
	}
}

func TestAgeGroupOrderCaseSQL(t *testing.T) {
	sql := AgeGroupOrderCaseSQL("age_group")
	if !strings.Contains(sql, "WHEN '0-9' THEN 0") {
		t.Errorf("first bucket must map to 0:\n%s", sql)
	}
	if !strings.Contains(sql, "WHEN '80+' THEN 8") {
		t.Errorf("last numeric bucket must map to 8:\n%s", sql)
	}
	if !strings.Contains(sql, "ELSE 9 END") {
		t.Errorf("Unknown must fall through to the trailing sort key:\n%s", sql)
	}
}

func TestReportChartedViewsDropUnknown(t *testing.T) {
	r := &Report{
		ByAge: []AgeGroupSurvival{
			{AgeGroup: "0-9", Total: 1},
			{AgeGroup: "20-29", Total: 3},
			{AgeGroup: AgeGroupUnknown, Total: 7},
		},
		CrossTab: []SexAgeSurvival{
			{Sex: "female", AgeGroup: "20-29", Total: 2},
			{Sex: "male", AgeGroup: AgeGroupUnknown, Total: 5},
		},
	}

	byAge := r.ChartedByAge()
	if len(byAge) != 2 {
		t.Fatalf("ChartedByAge returned %d rows, want 2", len(byAge))
	}
	for _, row := range byAge {
		if row.AgeGroup == AgeGroupUnknown {
			t.Errorf("Unknown leaked into charted by-age view")
		}
	}

	crossTab := r.ChartedCrossTab()
	if len(crossTab) != 1 {
		t.Fatalf("ChartedCrossTab returned %d cells, want 1", len(crossTab))
	}
	if crossTab[0].Sex != "female" {
		t.Errorf("unexpected surviving cell: %+v", crossTab[0])
	}
}
