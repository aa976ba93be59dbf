package engine

import (
	"fmt"
	"log/slog"

	"github.com/zoobzio/clockz"

	"github.com/drivora/drivora-compliance/internal/models"
	"github.com/drivora/drivora-compliance/internal/policy"
)

// maxRecommendations caps the merged recommendation list on a snapshot.
const maxRecommendations = 5

// Aggregator orchestrates the forensics analyzer and compliance scorer for
// one vehicle and assembles the consolidated intelligence snapshot. It holds
// no per-vehicle state; concurrent Build calls need no coordination.
type Aggregator struct {
	logger   *slog.Logger
	table    *policy.Table
	analyzer *ForensicsAnalyzer
	scorer   *ComplianceScorer
	clock    clockz.Clock
}

// NewAggregator constructs an aggregator over the given policy table.
func NewAggregator(logger *slog.Logger, table *policy.Table) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if table == nil {
		table = policy.Defaults()
	}
	return &Aggregator{
		logger:   logger,
		table:    table,
		analyzer: NewForensicsAnalyzer(logger, table),
		scorer:   NewComplianceScorer(),
	}
}

// WithClock sets a custom clock for snapshot timestamps. Tests freeze time
// with a fake clock; production uses the real clock.
func (g *Aggregator) WithClock(clock clockz.Clock) *Aggregator {
	g.clock = clock
	return g
}

func (g *Aggregator) getClock() clockz.Clock {
	if g.clock == nil {
		return clockz.RealClock
	}
	return g.clock
}

// Build runs the full compliance flow for one vehicle. The only failure mode
// is a ConfigurationError for an unrecognized usage category; every
// data-quality problem degrades into anomalies, alerts, or recommendations.
func (g *Aggregator) Build(vehicle models.VehicleUsageContext, bookings []models.BookingOdometerRecord) (models.VehicleIntelligence, error) {
	if _, err := g.table.Lookup(vehicle.UsageCategory); err != nil {
		return models.VehicleIntelligence{}, err
	}

	forensics := g.analyzer.Analyze(bookings, vehicle)

	warnings, criticals, violations := countSeverities(forensics.Gaps)
	compliance := g.scorer.Score(ScoreInput{
		TotalGaps:      len(forensics.Gaps),
		WarningCount:   warnings,
		CriticalCount:  criticals,
		ViolationCount: violations,
		CompletedTrips: forensics.CompletedTrips,
	})

	readiness := deriveReadiness(vehicle.Documentation, forensics.RiskLevel)
	alerts := buildAlerts(forensics, vehicle.Documentation, readiness)

	merged := appendUnique(nil, forensics.Recommendations...)
	merged = appendUnique(merged, compliance.Recommendations...)
	if len(merged) > maxRecommendations {
		merged = merged[:maxRecommendations]
	}

	return models.VehicleIntelligence{
		VehicleID:       vehicle.VehicleID,
		UsageCategory:   vehicle.UsageCategory,
		Forensics:       forensics,
		Compliance:      compliance,
		Insurance:       readiness,
		Alerts:          alerts,
		Recommendations: merged,
		LastUpdated:     g.getClock().Now().UTC(),
	}, nil
}

// deriveReadiness checks every fast-track precondition and records each
// failing one.
func deriveReadiness(docs models.DocumentationFlags, risk models.RiskLevel) models.InsuranceReadiness {
	issues := make([]string, 0, 6)
	if !docs.HasRegisteredOwner {
		issues = append(issues, models.IssueNoRegisteredOwner)
	}
	if !docs.HasVIN {
		issues = append(issues, models.IssueMissingVIN)
	}
	if !docs.HasLicensePlate {
		issues = append(issues, models.IssueMissingPlate)
	}
	if docs.ServiceOverdue {
		issues = append(issues, models.IssueServiceOverdue)
	}
	if docs.InspectionExpired {
		issues = append(issues, models.IssueInspectionExpired)
	}
	if risk == models.RiskCritical {
		issues = append(issues, models.IssueCriticalRisk)
	}
	return models.InsuranceReadiness{Ready: len(issues) == 0, Issues: issues}
}

func buildAlerts(forensics models.ForensicsReport, docs models.DocumentationFlags, readiness models.InsuranceReadiness) []models.Alert {
	alerts := make([]models.Alert, 0, len(forensics.Anomalies)+len(forensics.Gaps)+3)

	for _, anomaly := range forensics.Anomalies {
		alerts = append(alerts, models.Alert{
			Severity:        models.AlertCritical,
			Category:        models.CategoryDataIntegrity,
			Title:           anomalyTitle(anomaly.Kind),
			Message:         anomaly.Detail,
			SuggestedAction: models.ActionReviewAnomalies,
		})
	}

	for _, gap := range forensics.Gaps {
		if gap.Severity != models.GapSeverityViolation {
			continue
		}
		alerts = append(alerts, models.Alert{
			Severity:        models.AlertCritical,
			Category:        models.CategoryCompliance,
			Title:           "Mileage gap violation",
			Message:         gap.Message,
			SuggestedAction: models.ActionReviewMileage,
		})
	}

	if docs.ServiceOverdue {
		alerts = append(alerts, models.Alert{
			Severity:        models.AlertWarning,
			Category:        models.CategoryMaintenance,
			Title:           "Service overdue",
			Message:         "Scheduled maintenance is past due.",
			SuggestedAction: models.ActionScheduleService,
		})
	}
	if docs.InspectionExpired {
		alerts = append(alerts, models.Alert{
			Severity:        models.AlertCritical,
			Category:        models.CategoryMaintenance,
			Title:           "Inspection expired",
			Message:         "The safety inspection certificate has lapsed.",
			SuggestedAction: models.ActionRenewInspection,
		})
	}
	if !readiness.Ready {
		alerts = append(alerts, models.Alert{
			Severity:        models.AlertWarning,
			Category:        models.CategoryInsurance,
			Title:           "Not ready for fast-track claims",
			Message:         fmt.Sprintf("%d condition(s) block fast-tracked claim processing.", len(readiness.Issues)),
			SuggestedAction: models.ActionUpdateDocuments,
		})
	}

	return alerts
}

func anomalyTitle(kind models.AnomalyKind) string {
	switch kind {
	case models.AnomalyOdometerRollback:
		return "Odometer rollback detected"
	case models.AnomalyDuplicateReading:
		return "Duplicate odometer reading"
	case models.AnomalyImpossibleJump:
		return "Implausible mileage jump"
	case models.AnomalyMissingReading:
		return "Incomplete odometer record"
	default:
		return "Odometer anomaly"
	}
}

func appendUnique(existing []string, additions ...string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[item] = struct{}{}
	}
	for _, item := range additions {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		existing = append(existing, item)
		seen[item] = struct{}{}
	}
	return existing
}
