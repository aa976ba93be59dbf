package policy

import (
	"fmt"

	"github.com/drivora/drivora-compliance/internal/models"
)

// Classification is the outcome of grading one mileage gap.
type Classification struct {
	Severity models.GapSeverity
	Message  string
}

// Classify grades a non-negative mileage gap against the category's policy.
// Boundaries are inclusive on the lower tier, so a gap exactly at a threshold
// takes the less severe grade. Unknown categories fall back to the strictest
// policy to keep classification total; negative gaps are a programming error
// because the analyzer validates them before classification.
func (t *Table) Classify(gapMiles float64, category models.UsageCategory) (Classification, error) {
	if gapMiles < 0 {
		return Classification{}, fmt.Errorf("classify gap: negative gap %.1f miles", gapMiles)
	}

	p := t.PolicyOrDefault(category)
	switch {
	case gapMiles <= p.MaxGap:
		return Classification{
			Severity: models.GapSeverityNormal,
			Message:  fmt.Sprintf("%.0f mi gap within the %.0f mi allowance", gapMiles, p.MaxGap),
		}, nil
	case gapMiles <= p.CriticalThreshold:
		return Classification{
			Severity: models.GapSeverityWarning,
			Message:  fmt.Sprintf("%.0f mi gap exceeds the %.0f mi limit - requires explanation", gapMiles, p.MaxGap),
		}, nil
	case gapMiles <= 2*p.CriticalThreshold:
		return Classification{
			Severity: models.GapSeverityCritical,
			Message:  fmt.Sprintf("%.0f mi is a significant gap - may affect insurance claims", gapMiles),
		}, nil
	default:
		return Classification{
			Severity: models.GapSeverityViolation,
			Message:  fmt.Sprintf("%.0f mi is a severe violation - insurance coverage at risk", gapMiles),
		}, nil
	}
}
