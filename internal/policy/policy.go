package policy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/drivora/drivora-compliance/internal/models"
)

// UsagePolicy holds the mileage-gap tolerances for one usage category.
// Thresholds are strictly increasing: MaxGap < WarningThreshold < CriticalThreshold.
type UsagePolicy struct {
	MaxGap            float64 `yaml:"maxGap" json:"max_gap"`
	WarningThreshold  float64 `yaml:"warningThreshold" json:"warning_threshold"`
	CriticalThreshold float64 `yaml:"criticalThreshold" json:"critical_threshold"`
	Description       string  `yaml:"description" json:"description"`
	InsuranceNote     string  `yaml:"insuranceNote" json:"insurance_note"`
	TaxNote           string  `yaml:"taxNote" json:"tax_note"`
}

// ConfigurationError reports an unusable policy configuration, most commonly
// an unrecognized usage category supplied by the caller. It indicates an
// upstream data bug, not a user-facing condition.
type ConfigurationError struct {
	Category models.UsageCategory
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("usage policy: unknown category %q", e.Category)
	}
	return fmt.Sprintf("usage policy: %s", e.Reason)
}

// Table maps usage categories to their tolerance policies. A loaded table is
// immutable; changing thresholds is a config change and goes through Load so
// it stays auditable.
type Table struct {
	policies map[models.UsageCategory]UsagePolicy
}

// Defaults returns the canonical built-in table. The numeric values are load
// bearing for compatibility with historical compliance interpretations and
// must not drift.
func Defaults() *Table {
	return &Table{policies: map[models.UsageCategory]UsagePolicy{
		models.UsageRentalOnly: {
			MaxGap:            15,
			WarningThreshold:  16,
			CriticalThreshold: 50,
			Description:       "Vehicle is used exclusively for platform rentals.",
			InsuranceNote:     "Commercial rental coverage only; personal use voids the policy.",
			TaxNote:           "All mileage is business mileage for deduction purposes.",
		},
		models.UsageMixed: {
			MaxGap:            500,
			WarningThreshold:  501,
			CriticalThreshold: 1000,
			Description:       "Vehicle is shared between personal driving and platform rentals.",
			InsuranceNote:     "Hybrid coverage; rental periods must be distinguishable from personal use.",
			TaxNote:           "Only rental-period mileage is deductible.",
		},
		models.UsageBusiness: {
			MaxGap:            300,
			WarningThreshold:  301,
			CriticalThreshold: 750,
			Description:       "Vehicle serves the owner's business in addition to platform rentals.",
			InsuranceNote:     "Commercial policy required; verify rideshare endorsements.",
			TaxNote:           "Business and rental mileage tracked under separate schedules.",
		},
	}}
}

type tableFile struct {
	Policies map[models.UsageCategory]UsagePolicy `yaml:"policies"`
}

// Load reads a policy table from a YAML file. An empty path or a missing file
// falls back to the built-in defaults so local development needs no config.
func Load(path string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("policy file missing, using built-in defaults", slog.String("path", path))
			return Defaults(), nil
		}
		return nil, fmt.Errorf("read policy table: %w", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse policy table: %w", err)
	}
	if len(file.Policies) == 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("policy file %s defines no categories", path)}
	}

	for category, p := range file.Policies {
		if !(p.MaxGap < p.WarningThreshold && p.WarningThreshold < p.CriticalThreshold) {
			return nil, &ConfigurationError{Reason: fmt.Sprintf(
				"category %s thresholds must increase: maxGap=%.0f warning=%.0f critical=%.0f",
				category, p.MaxGap, p.WarningThreshold, p.CriticalThreshold)}
		}
	}

	logger.Info("policy table loaded", slog.String("path", path), slog.Int("categories", len(file.Policies)))
	return &Table{policies: file.Policies}, nil
}

// Lookup resolves a category or fails with a ConfigurationError. There is no
// silent default here; callers that need totality use PolicyOrDefault.
func (t *Table) Lookup(category models.UsageCategory) (UsagePolicy, error) {
	p, ok := t.policies[category]
	if !ok {
		return UsagePolicy{}, &ConfigurationError{Category: category}
	}
	return p, nil
}

// PolicyOrDefault resolves a category, falling back to the RentalOnly policy
// (the strictest tier) so classification stays total.
func (t *Table) PolicyOrDefault(category models.UsageCategory) UsagePolicy {
	if p, ok := t.policies[category]; ok {
		return p
	}
	if p, ok := t.policies[models.UsageRentalOnly]; ok {
		return p
	}
	return Defaults().policies[models.UsageRentalOnly]
}

// Categories lists the known categories in stable order.
func (t *Table) Categories() []models.UsageCategory {
	out := make([]models.UsageCategory, 0, len(t.policies))
	for c := range t.policies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Policies returns a copy of the table keyed by category, for the read-only
// policies endpoint.
func (t *Table) Policies() map[models.UsageCategory]UsagePolicy {
	out := make(map[models.UsageCategory]UsagePolicy, len(t.policies))
	for c, p := range t.policies {
		out[c] = p
	}
	return out
}
