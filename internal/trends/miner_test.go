package trends

import (
	"testing"

	"github.com/drivora/drivora-compliance/internal/models"
)

func snapshot(score int, risk models.RiskLevel, kinds ...models.AnomalyKind) models.SnapshotRecord {
	anomalies := make([]models.Anomaly, 0, len(kinds))
	for _, kind := range kinds {
		anomalies = append(anomalies, models.Anomaly{Kind: kind})
	}
	return models.SnapshotRecord{
		VehicleID: "veh-1",
		Score:     score,
		RiskLevel: risk,
		Intelligence: models.VehicleIntelligence{
			VehicleID:  "veh-1",
			Compliance: models.ComplianceScore{Score: score},
			Forensics:  models.ForensicsReport{RiskLevel: risk, Anomalies: anomalies},
		},
	}
}

func TestMineEmptyHistory(t *testing.T) {
	miner := NewMiner(nil)
	if trend := miner.Mine("veh-1", nil); trend != nil {
		t.Fatalf("trend = %+v, want nil for empty history", trend)
	}
}

func TestMineDirection(t *testing.T) {
	miner := NewMiner(nil)

	// Snapshots arrive newest first.
	improving := miner.Mine("veh-1", []models.SnapshotRecord{
		snapshot(90, models.RiskLow),
		snapshot(70, models.RiskModerate),
	})
	if improving.Direction != DirectionImproving || improving.ScoreDelta != 20 {
		t.Fatalf("trend = %+v, want improving by 20", improving)
	}

	degrading := miner.Mine("veh-1", []models.SnapshotRecord{
		snapshot(60, models.RiskHigh),
		snapshot(95, models.RiskLow),
	})
	if degrading.Direction != DirectionDegrading {
		t.Fatalf("trend = %+v, want degrading", degrading)
	}

	steady := miner.Mine("veh-1", []models.SnapshotRecord{
		snapshot(80, models.RiskLow),
		snapshot(80, models.RiskLow),
	})
	if steady.Direction != DirectionSteady {
		t.Fatalf("trend = %+v, want steady", steady)
	}
}

func TestMineRecurringAnomalies(t *testing.T) {
	miner := NewMiner(nil)
	trend := miner.Mine("veh-1", []models.SnapshotRecord{
		snapshot(40, models.RiskCritical, models.AnomalyOdometerRollback),
		snapshot(45, models.RiskCritical, models.AnomalyOdometerRollback, models.AnomalyDuplicateReading),
		snapshot(60, models.RiskHigh),
		snapshot(90, models.RiskLow),
	})

	if len(trend.RecurringAnomalies) != 1 || trend.RecurringAnomalies[0] != models.AnomalyOdometerRollback {
		t.Fatalf("recurring anomalies = %v, want only the rollback", trend.RecurringAnomalies)
	}
	if trend.HighRiskSnapshots != 3 {
		t.Fatalf("high-risk snapshots = %d, want 3", trend.HighRiskSnapshots)
	}
}
