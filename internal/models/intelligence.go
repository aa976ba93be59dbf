package models

import "time"

// GapSeverity tiers a single mileage gap against the vehicle's usage policy.
type GapSeverity string

const (
	GapSeverityNormal    GapSeverity = "normal"
	GapSeverityWarning   GapSeverity = "warning"
	GapSeverityCritical  GapSeverity = "critical"
	GapSeverityViolation GapSeverity = "violation"
)

// MileageGap is the odometer distance between the end of one completed
// booking and the start of the next (or up to the current reading, in which
// case ToBookingID is CurrentReadingID).
type MileageGap struct {
	FromBookingID string      `json:"from_booking_id"`
	ToBookingID   string      `json:"to_booking_id"`
	GapMiles      float64     `json:"gap_miles"`
	Severity      GapSeverity `json:"severity"`
	Message       string      `json:"message"`
}

// CurrentReadingID marks the synthetic endpoint of the final gap, from the
// last completed booking to the vehicle's current odometer value.
const CurrentReadingID = "current"

// AnomalyKind enumerates data-integrity signals. Anomalies are result data,
// never errors; they are distinct from policy-tolerance violations.
type AnomalyKind string

const (
	AnomalyOdometerRollback AnomalyKind = "odometer_rollback"
	AnomalyDuplicateReading AnomalyKind = "duplicate_reading"
	AnomalyImpossibleJump   AnomalyKind = "impossible_jump"
	AnomalyMissingReading   AnomalyKind = "missing_reading"
)

// Anomaly records a data-integrity problem in the odometer timeline.
type Anomaly struct {
	Kind              AnomalyKind `json:"kind"`
	RelatedBookingIDs []string    `json:"related_booking_ids"`
	Detail            string      `json:"detail"`
}

// RiskLevel summarises the forensic severity of a vehicle's usage history.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ForensicsReport is the ForensicsAnalyzer output for one vehicle.
type ForensicsReport struct {
	Gaps            []MileageGap `json:"gaps"`
	Anomalies       []Anomaly    `json:"anomalies"`
	RiskLevel       RiskLevel    `json:"risk_level"`
	Recommendations []string     `json:"recommendations"`
	AverageGapMiles float64      `json:"average_gap_miles"`
	CompletedTrips  int          `json:"completed_trips"`
	ExcludedRecords int          `json:"excluded_records"`
}

// ComplianceStatus bands the numeric compliance score.
type ComplianceStatus string

const (
	StatusExcellent ComplianceStatus = "excellent"
	StatusGood      ComplianceStatus = "good"
	StatusFair      ComplianceStatus = "fair"
	StatusPoor      ComplianceStatus = "poor"
	StatusCritical  ComplianceStatus = "critical"
)

// ComplianceScore is the bounded 0-100 summary of policy adherence.
type ComplianceScore struct {
	Score           int              `json:"score"`
	Status          ComplianceStatus `json:"status"`
	Recommendations []string         `json:"recommendations"`
}

// AlertSeverity grades actionable alerts shown to owners and claims staff.
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)

// AlertCategory groups alerts by the workflow they belong to.
type AlertCategory string

const (
	CategoryDataIntegrity AlertCategory = "data_integrity"
	CategoryCompliance    AlertCategory = "compliance"
	CategoryMaintenance   AlertCategory = "maintenance"
	CategoryInsurance     AlertCategory = "insurance"
)

// ActionKind is an abstract next-step reference carried by an alert. The UI
// layer maps each kind to its own route; the engine knows nothing about URLs.
type ActionKind string

const (
	ActionReviewAnomalies ActionKind = "review_anomalies"
	ActionReviewMileage   ActionKind = "review_mileage_log"
	ActionScheduleService ActionKind = "schedule_service"
	ActionRenewInspection ActionKind = "renew_inspection"
	ActionUpdateDocuments ActionKind = "update_documents"
	ActionReviewPolicy    ActionKind = "review_policy"
)

// Alert is one actionable finding attached to an intelligence snapshot.
type Alert struct {
	Severity        AlertSeverity `json:"severity"`
	Category        AlertCategory `json:"category"`
	Title           string        `json:"title"`
	Message         string        `json:"message"`
	SuggestedAction ActionKind    `json:"suggested_action"`
}

// InsuranceReadiness reports whether documentation and risk posture permit
// fast-tracked claim handling, with one issue string per failing condition.
type InsuranceReadiness struct {
	Ready  bool     `json:"ready"`
	Issues []string `json:"issues"`
}

// Readiness issue strings. The aggregator emits them and the insurance
// estimator maps them to required documentation, so they are shared constants
// rather than free text.
const (
	IssueNoRegisteredOwner = "no registered owner on file"
	IssueMissingVIN        = "vehicle identification number missing"
	IssueMissingPlate      = "license plate not recorded"
	IssueServiceOverdue    = "scheduled service overdue"
	IssueInspectionExpired = "safety inspection expired"
	IssueCriticalRisk      = "usage risk level is critical"
)

// VehicleIntelligence is the consolidated snapshot returned to callers. It is
// recomputed on every request and never mutated in place; identical inputs
// produce identical snapshots apart from LastUpdated.
type VehicleIntelligence struct {
	VehicleID       string             `json:"vehicle_id"`
	UsageCategory   UsageCategory      `json:"usage_category"`
	Forensics       ForensicsReport    `json:"forensics"`
	Compliance      ComplianceScore    `json:"compliance"`
	Insurance       InsuranceReadiness `json:"insurance"`
	Alerts          []Alert            `json:"alerts"`
	Recommendations []string           `json:"recommendations"`
	LastUpdated     time.Time          `json:"last_updated"`
}

// ProcessingSpeed tiers expected insurance-claim handling latency.
type ProcessingSpeed string

const (
	SpeedFast         ProcessingSpeed = "fast"
	SpeedNormal       ProcessingSpeed = "normal"
	SpeedSlow         ProcessingSpeed = "slow"
	SpeedManualReview ProcessingSpeed = "manual_review"
)

// InsuranceImpact projects an intelligence snapshot onto claim handling.
type InsuranceImpact struct {
	ClaimApprovalLikelihood float64         `json:"claim_approval_likelihood"`
	ProcessingSpeed         ProcessingSpeed `json:"processing_speed"`
	RequiredDocumentation   []string        `json:"required_documentation"`
	RiskFactors             []string        `json:"risk_factors"`
}
