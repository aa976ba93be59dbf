package models

// AnalyzeRequest is the POST /analyze payload: everything the engine needs,
// already fetched by the caller.
type AnalyzeRequest struct {
	Vehicle  VehicleUsageContext     `json:"vehicle"`
	Bookings []BookingOdometerRecord `json:"bookings"`
}

// AnalyzeResponse pairs the intelligence snapshot with its insurance
// projection.
type AnalyzeResponse struct {
	Intelligence    VehicleIntelligence `json:"intelligence"`
	InsuranceImpact InsuranceImpact     `json:"insurance_impact"`
}

// SnapshotRecord is one audited intelligence snapshot as stored in history.
type SnapshotRecord struct {
	ID           string              `json:"id"`
	VehicleID    string              `json:"vehicle_id"`
	Score        int                 `json:"score"`
	RiskLevel    RiskLevel           `json:"risk_level"`
	Intelligence VehicleIntelligence `json:"intelligence"`
}

// HistoryResponse is the GET /history payload: stored snapshots plus the
// trend mined from them.
type HistoryResponse struct {
	VehicleID string           `json:"vehicle_id"`
	Snapshots []SnapshotRecord `json:"snapshots"`
	Trend     *ComplianceTrend `json:"trend,omitempty"`
}

// ComplianceTrend summarises how a vehicle's compliance posture is moving
// across stored snapshots.
type ComplianceTrend struct {
	VehicleID          string        `json:"vehicle_id"`
	Samples            int           `json:"samples"`
	LatestScore        int           `json:"latest_score"`
	ScoreDelta         int           `json:"score_delta"`
	Direction          string        `json:"direction"`
	RecurringAnomalies []AnomalyKind `json:"recurring_anomalies,omitempty"`
	HighRiskSnapshots  int           `json:"high_risk_snapshots"`
}
