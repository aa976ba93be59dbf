package policy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/drivora/drivora-compliance/internal/models"
)

func TestDefaultsCanonicalThresholds(t *testing.T) {
	table := Defaults()

	cases := []struct {
		category models.UsageCategory
		maxGap   float64
		warning  float64
		critical float64
	}{
		{models.UsageRentalOnly, 15, 16, 50},
		{models.UsageMixed, 500, 501, 1000},
		{models.UsageBusiness, 300, 301, 750},
	}
	for _, tc := range cases {
		p, err := table.Lookup(tc.category)
		if err != nil {
			t.Fatalf("lookup %s: %v", tc.category, err)
		}
		if p.MaxGap != tc.maxGap || p.WarningThreshold != tc.warning || p.CriticalThreshold != tc.critical {
			t.Fatalf("%s thresholds = %.0f/%.0f/%.0f, want %.0f/%.0f/%.0f",
				tc.category, p.MaxGap, p.WarningThreshold, p.CriticalThreshold, tc.maxGap, tc.warning, tc.critical)
		}
		if p.Description == "" || p.InsuranceNote == "" || p.TaxNote == "" {
			t.Fatalf("%s policy is missing descriptive text", tc.category)
		}
	}
}

func TestLookupUnknownCategory(t *testing.T) {
	_, err := Defaults().Lookup(models.UsageCategory("Commercial"))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Category != "Commercial" {
		t.Fatalf("error carries category %q", cfgErr.Category)
	}
}

func TestPolicyOrDefaultFallsBackToStrictest(t *testing.T) {
	p := Defaults().PolicyOrDefault(models.UsageCategory("Commercial"))
	if p.MaxGap != 15 {
		t.Fatalf("fallback maxGap = %.0f, want the RentalOnly policy", p.MaxGap)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	data := []byte(`policies:
  RentalOnly:
    maxGap: 20
    warningThreshold: 21
    criticalThreshold: 60
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, err := table.Lookup(models.UsageRentalOnly)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if p.MaxGap != 20 || p.CriticalThreshold != 60 {
		t.Fatalf("loaded thresholds %.0f/%.0f, want 20/60", p.MaxGap, p.CriticalThreshold)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := table.Lookup(models.UsageMixed); err != nil {
		t.Fatalf("expected default table, lookup failed: %v", err)
	}
}

func TestLoadRejectsNonIncreasingThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policies.yaml")
	data := []byte(`policies:
  Mixed:
    maxGap: 500
    warningThreshold: 400
    criticalThreshold: 1000
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected validation error for non-increasing thresholds")
	}
}

func TestCategoriesStableOrder(t *testing.T) {
	got := Defaults().Categories()
	want := []models.UsageCategory{models.UsageBusiness, models.UsageMixed, models.UsageRentalOnly}
	if len(got) != len(want) {
		t.Fatalf("categories = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
}
