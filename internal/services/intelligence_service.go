package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/drivora/drivora-compliance/internal/cache"
	"github.com/drivora/drivora-compliance/internal/engine"
	"github.com/drivora/drivora-compliance/internal/metrics"
	"github.com/drivora/drivora-compliance/internal/models"
	"github.com/drivora/drivora-compliance/internal/trends"
	"github.com/drivora/drivora-compliance/internal/utils"
)

// PlatformClient defines the platform-core reads the service needs for the
// by-vehicle endpoints.
type PlatformClient interface {
	FetchVehicle(ctx context.Context, vehicleID string) (models.VehicleUsageContext, error)
	FetchBookings(ctx context.Context, vehicleID string) ([]models.BookingOdometerRecord, error)
}

// SnapshotRepo defines the audit-history operations behind the service.
type SnapshotRepo interface {
	SaveSnapshot(ctx context.Context, intel models.VehicleIntelligence) (models.SnapshotRecord, error)
	ListSnapshots(ctx context.Context, vehicleID string, limit int) ([]models.SnapshotRecord, error)
}

// IntelligenceService is the facade the API layer talks to. The engine
// underneath is pure; everything stateful (cache, audit store, platform
// fetches, metrics) lives here.
type IntelligenceService struct {
	logger        *slog.Logger
	aggregator    *engine.Aggregator
	estimator     *engine.InsuranceImpactEstimator
	platform      PlatformClient
	history       SnapshotRepo
	miner         *trends.Miner
	cacheProvider cache.Provider
	cacheTTL      time.Duration
	historyLimit  int
	latencies     *utils.LatencyTracker
}

// Options carries the optional service collaborators.
type Options struct {
	Platform     PlatformClient
	History      SnapshotRepo
	Cache        cache.Provider
	CacheTTL     time.Duration
	HistoryLimit int
}

// NewIntelligenceService constructs the service facade.
func NewIntelligenceService(logger *slog.Logger, aggregator *engine.Aggregator, opts Options) *IntelligenceService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.NoopProvider{}
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 50
	}
	return &IntelligenceService{
		logger:        logger,
		aggregator:    aggregator,
		estimator:     engine.NewInsuranceImpactEstimator(),
		platform:      opts.Platform,
		history:       opts.History,
		miner:         trends.NewMiner(logger),
		cacheProvider: opts.Cache,
		cacheTTL:      opts.CacheTTL,
		historyLimit:  opts.HistoryLimit,
		latencies:     utils.NewLatencyTracker(1024),
	}
}

// Analyze runs the engine over caller-supplied records. Nothing is cached or
// persisted; recomputation is always safe.
func (s *IntelligenceService) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalyzeResponse, error) {
	if s.aggregator == nil {
		return models.AnalyzeResponse{}, errors.New("aggregator not configured")
	}

	start := time.Now()
	intel, err := s.aggregator.Build(req.Vehicle, req.Bookings)
	duration := time.Since(start)
	if err != nil {
		metrics.ObserveAnalysis(duration, metrics.OutcomeError)
		s.logger.Error("analysis failed",
			slog.String("vehicle_id", req.Vehicle.VehicleID), slog.Any("error", err))
		return models.AnalyzeResponse{}, err
	}

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(duration, metrics.OutcomeSuccess)
	metrics.ObserveScore(intel.Compliance.Score)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("analysis latency",
			slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}

	return models.AnalyzeResponse{
		Intelligence:    intel,
		InsuranceImpact: s.estimator.Estimate(intel),
	}, nil
}

// VehicleIntelligence fetches a vehicle's records from the platform core,
// runs the engine, and records the snapshot. The cached copy is a pure
// function of the inputs at analysis time; recomputation on a miss is
// idempotent by construction.
func (s *IntelligenceService) VehicleIntelligence(ctx context.Context, vehicleID string) (models.AnalyzeResponse, error) {
	if s.platform == nil {
		return models.AnalyzeResponse{}, errors.New("platform client not configured")
	}

	cacheKey := intelligenceCacheKey(vehicleID)
	if payload, err := s.cacheProvider.Get(ctx, cacheKey); err == nil {
		var cached models.AnalyzeResponse
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("discarding undecodable cached snapshot", slog.String("vehicle_id", vehicleID))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("snapshot cache read failed", slog.Any("error", err))
	}

	vehicle, err := s.platform.FetchVehicle(ctx, vehicleID)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}
	bookings, err := s.platform.FetchBookings(ctx, vehicleID)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}

	resp, err := s.Analyze(ctx, models.AnalyzeRequest{Vehicle: vehicle, Bookings: bookings})
	if err != nil {
		return models.AnalyzeResponse{}, err
	}

	if s.history != nil {
		if _, err := s.history.SaveSnapshot(ctx, resp.Intelligence); err != nil {
			s.logger.Warn("failed to persist snapshot", slog.Any("error", err))
		}
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cacheProvider.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
			s.logger.Warn("snapshot cache write failed", slog.Any("error", err))
		}
	}

	return resp, nil
}

// History returns the stored snapshots for a vehicle plus the trend mined
// from them.
func (s *IntelligenceService) History(ctx context.Context, vehicleID string) (models.HistoryResponse, error) {
	if s.history == nil {
		return models.HistoryResponse{}, errors.New("snapshot store not configured")
	}

	snapshots, err := s.history.ListSnapshots(ctx, vehicleID, s.historyLimit)
	if err != nil {
		return models.HistoryResponse{}, err
	}

	return models.HistoryResponse{
		VehicleID: vehicleID,
		Snapshots: snapshots,
		Trend:     s.miner.Mine(vehicleID, snapshots),
	}, nil
}

// LatencyP95 returns the current p95 analysis latency.
func (s *IntelligenceService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func intelligenceCacheKey(vehicleID string) string {
	return fmt.Sprintf("compliance:intelligence:%s", vehicleID)
}
