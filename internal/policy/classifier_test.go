package policy

import (
	"testing"

	"github.com/drivora/drivora-compliance/internal/models"
)

func TestClassifyBoundaries(t *testing.T) {
	table := Defaults()

	// Boundary gaps take the less severe tier.
	cases := []struct {
		category models.UsageCategory
		gap      float64
		want     models.GapSeverity
	}{
		{models.UsageRentalOnly, 0, models.GapSeverityNormal},
		{models.UsageRentalOnly, 15, models.GapSeverityNormal},
		{models.UsageRentalOnly, 16, models.GapSeverityWarning},
		{models.UsageRentalOnly, 50, models.GapSeverityWarning},
		{models.UsageRentalOnly, 51, models.GapSeverityCritical},
		{models.UsageRentalOnly, 100, models.GapSeverityCritical},
		{models.UsageRentalOnly, 101, models.GapSeverityViolation},
		{models.UsageMixed, 500, models.GapSeverityNormal},
		{models.UsageMixed, 501, models.GapSeverityWarning},
		{models.UsageMixed, 1000, models.GapSeverityWarning},
		{models.UsageMixed, 1001, models.GapSeverityCritical},
		{models.UsageMixed, 2000, models.GapSeverityCritical},
		{models.UsageMixed, 2001, models.GapSeverityViolation},
		{models.UsageBusiness, 300, models.GapSeverityNormal},
		{models.UsageBusiness, 301, models.GapSeverityWarning},
		{models.UsageBusiness, 750, models.GapSeverityWarning},
		{models.UsageBusiness, 751, models.GapSeverityCritical},
		{models.UsageBusiness, 1500, models.GapSeverityCritical},
		{models.UsageBusiness, 1501, models.GapSeverityViolation},
	}
	for _, tc := range cases {
		cls, err := table.Classify(tc.gap, tc.category)
		if err != nil {
			t.Fatalf("classify %.0f (%s): %v", tc.gap, tc.category, err)
		}
		if cls.Severity != tc.want {
			t.Fatalf("classify %.0f (%s) = %s, want %s", tc.gap, tc.category, cls.Severity, tc.want)
		}
		if cls.Message == "" {
			t.Fatalf("classify %.0f (%s) returned an empty message", tc.gap, tc.category)
		}
	}
}

func TestClassifyNegativeGap(t *testing.T) {
	if _, err := Defaults().Classify(-5, models.UsageMixed); err == nil {
		t.Fatal("expected error for negative gap")
	}
}

func TestClassifyUnknownCategoryUsesStrictestPolicy(t *testing.T) {
	cls, err := Defaults().Classify(30, models.UsageCategory("Commercial"))
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	// 30 miles is a warning under RentalOnly tolerances.
	if cls.Severity != models.GapSeverityWarning {
		t.Fatalf("severity = %s, want warning under fallback policy", cls.Severity)
	}
}
