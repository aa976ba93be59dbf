package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/drivora/drivora-compliance/internal/models"
	"github.com/drivora/drivora-compliance/internal/utils"
)

// SnapshotStore is a local SQLite-backed audit history of produced
// intelligence snapshots. The engine itself persists nothing; the store
// exists so compliance interpretations stay reviewable after thresholds or
// data change.
//
// WAL is enabled so history reads do not block snapshot appends.
type SnapshotStore struct {
	db *sql.DB
}

// OpenSnapshotStore opens (and if needed creates) the store at path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("missing snapshot db path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &SnapshotStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         TEXT PRIMARY KEY,
			vehicle_id TEXT NOT NULL,
			score      INTEGER NOT NULL,
			risk_level TEXT NOT NULL,
			payload    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_vehicle ON snapshots(vehicle_id, created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *SnapshotStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveSnapshot appends one intelligence snapshot to the audit history and
// returns the stored record.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, intel models.VehicleIntelligence) (models.SnapshotRecord, error) {
	payload, err := json.Marshal(intel)
	if err != nil {
		return models.SnapshotRecord{}, utils.NewAppError("repo.SaveSnapshot", "marshal snapshot", err)
	}

	record := models.SnapshotRecord{
		ID:           uuid.NewString(),
		VehicleID:    intel.VehicleID,
		Score:        intel.Compliance.Score,
		RiskLevel:    intel.Forensics.RiskLevel,
		Intelligence: intel,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, vehicle_id, score, risk_level, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.VehicleID, record.Score, string(record.RiskLevel), string(payload), intel.LastUpdated.UnixMilli(),
	)
	if err != nil {
		return models.SnapshotRecord{}, utils.NewAppError("repo.SaveSnapshot", "insert snapshot", err)
	}
	return record, nil
}

// ListSnapshots returns up to limit snapshots for a vehicle, newest first.
func (s *SnapshotStore) ListSnapshots(ctx context.Context, vehicleID string, limit int) ([]models.SnapshotRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vehicle_id, score, risk_level, payload FROM snapshots WHERE vehicle_id = ? ORDER BY created_at DESC LIMIT ?`,
		vehicleID, limit,
	)
	if err != nil {
		return nil, utils.NewAppError("repo.ListSnapshots", "query snapshots", err)
	}
	defer rows.Close()

	records := make([]models.SnapshotRecord, 0, limit)
	for rows.Next() {
		var record models.SnapshotRecord
		var riskLevel, payload string
		if err := rows.Scan(&record.ID, &record.VehicleID, &record.Score, &riskLevel, &payload); err != nil {
			return nil, utils.NewAppError("repo.ListSnapshots", "scan snapshot", err)
		}
		record.RiskLevel = models.RiskLevel(riskLevel)
		if err := json.Unmarshal([]byte(payload), &record.Intelligence); err != nil {
			return nil, utils.NewAppError("repo.ListSnapshots", "decode snapshot payload", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
