package trends

import (
	"log/slog"
	"sort"

	"github.com/drivora/drivora-compliance/internal/models"
)

// Trend direction labels.
const (
	DirectionImproving = "improving"
	DirectionDegrading = "degrading"
	DirectionSteady    = "steady"
)

// Miner derives simple frequency-based compliance trends from stored
// snapshot history. It has no storage of its own; callers pass the history
// they already fetched.
type Miner struct {
	logger *slog.Logger
}

// NewMiner constructs a Miner.
func NewMiner(logger *slog.Logger) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Miner{logger: logger}
}

// Mine aggregates a vehicle's snapshots (newest first, as the store returns
// them) into a trend. Returns nil when there is no history to mine.
func (m *Miner) Mine(vehicleID string, snapshots []models.SnapshotRecord) *models.ComplianceTrend {
	if len(snapshots) == 0 {
		return nil
	}

	latest := snapshots[0]
	oldest := snapshots[len(snapshots)-1]

	trend := &models.ComplianceTrend{
		VehicleID:   vehicleID,
		Samples:     len(snapshots),
		LatestScore: latest.Score,
		ScoreDelta:  latest.Score - oldest.Score,
	}

	switch {
	case trend.ScoreDelta > 0:
		trend.Direction = DirectionImproving
	case trend.ScoreDelta < 0:
		trend.Direction = DirectionDegrading
	default:
		trend.Direction = DirectionSteady
	}

	anomalyCounts := make(map[models.AnomalyKind]int)
	for _, snapshot := range snapshots {
		if snapshot.RiskLevel == models.RiskHigh || snapshot.RiskLevel == models.RiskCritical {
			trend.HighRiskSnapshots++
		}
		seen := make(map[models.AnomalyKind]struct{})
		for _, anomaly := range snapshot.Intelligence.Forensics.Anomalies {
			if _, ok := seen[anomaly.Kind]; ok {
				continue
			}
			seen[anomaly.Kind] = struct{}{}
			anomalyCounts[anomaly.Kind]++
		}
	}

	trend.RecurringAnomalies = recurringKinds(anomalyCounts, len(snapshots))

	m.logger.Debug("trend mined",
		slog.String("vehicle_id", vehicleID),
		slog.Int("samples", trend.Samples),
		slog.String("direction", trend.Direction),
	)

	return trend
}

// recurringKinds keeps anomaly kinds seen in at least two snapshots and at
// least half of the history, in stable order.
func recurringKinds(counts map[models.AnomalyKind]int, samples int) []models.AnomalyKind {
	kinds := make([]models.AnomalyKind, 0, len(counts))
	for kind, count := range counts {
		if count >= 2 && count*2 >= samples {
			kinds = append(kinds, kind)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
