package engine

import (
	"fmt"

	"github.com/drivora/drivora-compliance/internal/models"
)

// InsuranceImpactEstimator projects an intelligence snapshot onto insurance
// claim handling. It is a read-only view over facts the aggregator already
// computed; nothing here re-derives gaps or scores.
type InsuranceImpactEstimator struct{}

// NewInsuranceImpactEstimator constructs an estimator.
func NewInsuranceImpactEstimator() *InsuranceImpactEstimator {
	return &InsuranceImpactEstimator{}
}

// Estimate derives the claim-approval likelihood, processing-speed tier, and
// outstanding documentation for one snapshot.
func (e *InsuranceImpactEstimator) Estimate(intel models.VehicleIntelligence) models.InsuranceImpact {
	base := 20.0
	if intel.Insurance.Ready {
		base = 40.0
	}
	likelihood := float64(intel.Compliance.Score)*0.6 + base
	if likelihood < 0 {
		likelihood = 0
	}
	if likelihood > 100 {
		likelihood = 100
	}

	return models.InsuranceImpact{
		ClaimApprovalLikelihood: likelihood,
		ProcessingSpeed:         processingSpeed(intel),
		RequiredDocumentation:   requiredDocumentation(intel),
		RiskFactors:             riskFactors(intel),
	}
}

func processingSpeed(intel models.VehicleIntelligence) models.ProcessingSpeed {
	switch {
	case intel.Forensics.RiskLevel == models.RiskCritical:
		return models.SpeedManualReview
	case intel.Compliance.Score >= 90 && intel.Insurance.Ready:
		return models.SpeedFast
	case intel.Compliance.Score < 70:
		return models.SpeedSlow
	default:
		return models.SpeedNormal
	}
}

// requiredDocumentation maps each outstanding readiness issue to the document
// that clears it, plus an annotated mileage log when the odometer history
// itself is in question.
func requiredDocumentation(intel models.VehicleIntelligence) []string {
	docs := make([]string, 0, len(intel.Insurance.Issues)+1)
	for _, issue := range intel.Insurance.Issues {
		switch issue {
		case models.IssueNoRegisteredOwner:
			docs = appendUnique(docs, "Proof of ownership and registration")
		case models.IssueMissingVIN:
			docs = appendUnique(docs, "VIN verification photo")
		case models.IssueMissingPlate:
			docs = appendUnique(docs, "License plate registration record")
		case models.IssueServiceOverdue:
			docs = appendUnique(docs, "Up-to-date service records")
		case models.IssueInspectionExpired:
			docs = appendUnique(docs, "Current safety inspection certificate")
		}
	}
	if len(intel.Forensics.Anomalies) > 0 {
		docs = appendUnique(docs, "Annotated odometer log explaining flagged readings")
	}
	return docs
}

func riskFactors(intel models.VehicleIntelligence) []string {
	factors := make([]string, 0, 4)

	if n := len(intel.Forensics.Anomalies); n > 0 {
		factors = appendUnique(factors, fmt.Sprintf("%d odometer integrity anomaly(ies) on record", n))
	}

	warnings, criticals, violations := countSeverities(intel.Forensics.Gaps)
	if violations > 0 {
		factors = appendUnique(factors, fmt.Sprintf("%d violation-level mileage gap(s)", violations))
	}
	if criticals > 0 {
		factors = appendUnique(factors, fmt.Sprintf("%d critical mileage gap(s)", criticals))
	}
	if warnings > 0 {
		factors = appendUnique(factors, fmt.Sprintf("%d warning-level mileage gap(s)", warnings))
	}
	if !intel.Insurance.Ready {
		factors = appendUnique(factors, "documentation incomplete for fast-track claims")
	}

	return factors
}
