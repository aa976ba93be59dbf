package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/drivora/drivora-compliance/internal/models"
	"github.com/drivora/drivora-compliance/internal/policy"
	"github.com/drivora/drivora-compliance/internal/utils"
)

// impossibleJumpMilesPerDay is the per-day odometer delta beyond which a gap
// between two rental-only bookings cannot be explained by ordinary driving.
const impossibleJumpMilesPerDay = 1000.0

// ForensicsAnalyzer walks a vehicle's chronological booking sequence and
// reconstructs what the odometer says about real-world usage: per-pair
// mileage gaps, data-integrity anomalies, an aggregate risk level, and
// plain-language recommendations.
//
// The analyzer never fails. Malformed or contradictory input is converted
// into anomaly evidence so the result can gate user-facing dashboards
// without try/catch sprawl upstream.
type ForensicsAnalyzer struct {
	logger *slog.Logger
	table  *policy.Table
}

// NewForensicsAnalyzer constructs an analyzer over the given policy table.
func NewForensicsAnalyzer(logger *slog.Logger, table *policy.Table) *ForensicsAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if table == nil {
		table = policy.Defaults()
	}
	return &ForensicsAnalyzer{logger: logger, table: table}
}

// Analyze inspects the booking sequence against the vehicle's declared usage
// category. Input ordering is not trusted; bookings are re-sorted by start
// date before pairing.
func (a *ForensicsAnalyzer) Analyze(bookings []models.BookingOdometerRecord, vehicle models.VehicleUsageContext) models.ForensicsReport {
	report := models.ForensicsReport{
		Gaps:      []models.MileageGap{},
		Anomalies: []models.Anomaly{},
	}

	usable := make([]models.BookingOdometerRecord, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != models.BookingStatusCompleted {
			continue
		}
		report.CompletedTrips++
		if b.HasReadings() {
			usable = append(usable, b)
			continue
		}
		report.ExcludedRecords++
		if b.StartMileage != nil || b.EndMileage != nil {
			// One reading captured, its pair lost: the record contradicts
			// itself rather than merely being unread.
			report.Anomalies = append(report.Anomalies, models.Anomaly{
				Kind:              models.AnomalyMissingReading,
				RelatedBookingIDs: []string{b.BookingID},
				Detail:            fmt.Sprintf("booking %s has only one of its two odometer readings", b.BookingID),
			})
		}
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].StartDate.Before(usable[j].StartDate)
	})

	for i := 0; i+1 < len(usable); i++ {
		prev, next := usable[i], usable[i+1]

		if *next.StartMileage == *prev.StartMileage {
			report.Anomalies = append(report.Anomalies, models.Anomaly{
				Kind:              models.AnomalyDuplicateReading,
				RelatedBookingIDs: []string{prev.BookingID, next.BookingID},
				Detail: fmt.Sprintf("bookings %s and %s report the identical start reading %d",
					prev.BookingID, next.BookingID, *next.StartMileage),
			})
		}

		raw := float64(*next.StartMileage - *prev.EndMileage)
		if raw < 0 {
			report.Anomalies = append(report.Anomalies, models.Anomaly{
				Kind:              models.AnomalyOdometerRollback,
				RelatedBookingIDs: []string{prev.BookingID, next.BookingID},
				Detail: fmt.Sprintf("odometer went backwards by %d miles between bookings %s and %s",
					*prev.EndMileage-*next.StartMileage, prev.BookingID, next.BookingID),
			})
			continue
		}

		if vehicle.UsageCategory == models.UsageRentalOnly {
			if perDay, impossible := milesPerDay(prev, next, raw); impossible {
				report.Anomalies = append(report.Anomalies, models.Anomaly{
					Kind:              models.AnomalyImpossibleJump,
					RelatedBookingIDs: []string{prev.BookingID, next.BookingID},
					Detail: fmt.Sprintf("%.0f miles between bookings %s and %s averages %.0f miles/day",
						raw, prev.BookingID, next.BookingID, perDay),
				})
			}
		}

		a.appendGap(&report, prev.BookingID, next.BookingID, raw, vehicle.UsageCategory)
	}

	a.appendFinalGap(&report, usable, vehicle)

	total := 0.0
	for _, g := range report.Gaps {
		total += g.GapMiles
	}
	if len(report.Gaps) > 0 {
		report.AverageGapMiles = total / float64(len(report.Gaps))
	}

	report.RiskLevel = deriveRiskLevel(report)
	report.Recommendations = a.recommend(report, vehicle.UsageCategory)

	return report
}

func (a *ForensicsAnalyzer) appendGap(report *models.ForensicsReport, fromID, toID string, raw float64, category models.UsageCategory) {
	cls, err := a.table.Classify(raw, category)
	if err != nil {
		// Unreachable for validated gaps; keep the invariant visible.
		a.logger.Error("gap classification failed", slog.Float64("gap", raw), slog.Any("error", err))
		return
	}
	report.Gaps = append(report.Gaps, models.MileageGap{
		FromBookingID: fromID,
		ToBookingID:   toID,
		GapMiles:      raw,
		Severity:      cls.Severity,
		Message:       cls.Message,
	})
}

// appendFinalGap closes the sequence against the vehicle's current odometer
// value. A current reading below the last completed booking's end reading is
// a rollback, not a negative gap.
func (a *ForensicsAnalyzer) appendFinalGap(report *models.ForensicsReport, usable []models.BookingOdometerRecord, vehicle models.VehicleUsageContext) {
	lastID := ""
	var lastEnd int64
	switch {
	case len(usable) > 0:
		last := usable[len(usable)-1]
		lastID = last.BookingID
		lastEnd = *last.EndMileage
	case vehicle.LastCompletedBookingEndMiles != nil:
		lastID = "last-completed"
		lastEnd = *vehicle.LastCompletedBookingEndMiles
	default:
		return
	}

	raw := float64(vehicle.CurrentMileage - lastEnd)
	if raw < 0 {
		report.Anomalies = append(report.Anomalies, models.Anomaly{
			Kind:              models.AnomalyOdometerRollback,
			RelatedBookingIDs: []string{lastID, models.CurrentReadingID},
			Detail: fmt.Sprintf("current reading %d is below booking %s end reading %d",
				vehicle.CurrentMileage, lastID, lastEnd),
		})
		return
	}
	a.appendGap(report, lastID, models.CurrentReadingID, raw, vehicle.UsageCategory)
}

// milesPerDay computes the average daily mileage between a booking's end and
// the next booking's start. A positive gap with no elapsed calendar time is
// itself implausible.
func milesPerDay(prev, next models.BookingOdometerRecord, raw float64) (float64, bool) {
	if raw == 0 {
		return 0, false
	}
	anchor := prev.EndDate
	if anchor.IsZero() {
		anchor = prev.StartDate
	}
	if !next.StartDate.After(anchor) {
		return raw, true
	}
	days := utils.DaysBetween(anchor, next.StartDate)
	if days <= 0 {
		return raw, true
	}
	perDay := raw / days
	return perDay, perDay > impossibleJumpMilesPerDay
}

func deriveRiskLevel(report models.ForensicsReport) models.RiskLevel {
	warnings, criticals, violations := countSeverities(report.Gaps)

	switch {
	case len(report.Anomalies) > 0 || violations > 0:
		return models.RiskCritical
	case criticals > 0:
		return models.RiskHigh
	case len(report.Gaps) > 0 && float64(warnings)/float64(len(report.Gaps)) > 0.25:
		return models.RiskModerate
	default:
		return models.RiskLow
	}
}

func countSeverities(gaps []models.MileageGap) (warnings, criticals, violations int) {
	for _, g := range gaps {
		switch g.Severity {
		case models.GapSeverityWarning:
			warnings++
		case models.GapSeverityCritical:
			criticals++
		case models.GapSeverityViolation:
			violations++
		}
	}
	return warnings, criticals, violations
}

// recommend applies the usage-fit rule checks. At most one usage-switch
// suggestion is ever emitted, and it leads the list.
func (a *ForensicsAnalyzer) recommend(report models.ForensicsReport, category models.UsageCategory) []string {
	recs := make([]string, 0, 3)

	switch {
	case category == models.UsageRentalOnly && len(report.Gaps) > 0 && report.AverageGapMiles > 50:
		recs = append(recs, fmt.Sprintf(
			"Average gap of %.0f miles suggests regular personal use; consider declaring the Mixed usage category.",
			report.AverageGapMiles))
	case category == models.UsageMixed && len(report.Gaps) > 0 && report.AverageGapMiles < 15:
		recs = append(recs, fmt.Sprintf(
			"Average gap of %.0f miles fits rental-only usage; declaring RentalOnly may lower your insurance tier.",
			report.AverageGapMiles))
	}

	if len(report.Anomalies) > 0 {
		recs = append(recs, "Resolve odometer anomalies with supporting documentation before the next claim.")
	}

	if report.CompletedTrips > 0 && report.ExcludedRecords*3 > report.CompletedTrips {
		recs = append(recs, fmt.Sprintf(
			"Odometer readings are missing for %d of %d completed bookings; capture both readings to score confidently.",
			report.ExcludedRecords, report.CompletedTrips))
	}

	return recs
}
