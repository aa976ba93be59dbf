package engine

import "github.com/drivora/drivora-compliance/internal/models"

// Score deduction weights and the clean-history bonus. The values are part of
// the scoring contract; changing them changes historical interpretations.
const (
	warningPenalty    = 5
	criticalPenalty   = 10
	violationPenalty  = 20
	cleanHistoryBonus = 5
	cleanHistoryTrips = 10
)

// ScoreInput carries the gap-severity counts and trip volume feeding the
// compliance score.
type ScoreInput struct {
	TotalGaps      int
	WarningCount   int
	CriticalCount  int
	ViolationCount int
	CompletedTrips int
}

// ComplianceScorer converts severity counts into a bounded 0-100 score and a
// qualitative status band. It is a pure function of its input.
type ComplianceScorer struct{}

// NewComplianceScorer constructs a scorer.
func NewComplianceScorer() *ComplianceScorer {
	return &ComplianceScorer{}
}

// Score applies the deduction formula and clamps into [0,100]. The status
// band is a pure function of the clamped score.
func (s *ComplianceScorer) Score(in ScoreInput) models.ComplianceScore {
	score := 100
	score -= warningPenalty * in.WarningCount
	score -= criticalPenalty * in.CriticalCount
	score -= violationPenalty * in.ViolationCount

	if in.TotalGaps == 0 && in.CompletedTrips > cleanHistoryTrips {
		score += cleanHistoryBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.ComplianceScore{
		Score:           score,
		Status:          statusForScore(score),
		Recommendations: s.recommend(in),
	}
}

func statusForScore(score int) models.ComplianceStatus {
	switch {
	case score >= 95:
		return models.StatusExcellent
	case score >= 85:
		return models.StatusGood
	case score >= 70:
		return models.StatusFair
	case score >= 50:
		return models.StatusPoor
	default:
		return models.StatusCritical
	}
}

// recommend emits short generic guidance; the aggregator merges it with the
// analyzer's richer recommendations.
func (s *ComplianceScorer) recommend(in ScoreInput) []string {
	recs := make([]string, 0, 3)
	if in.ViolationCount > 0 {
		recs = append(recs, "Urgent: address violation-level mileage gaps before filing any claim.")
	}
	if in.CriticalCount > 0 {
		recs = append(recs, "Document explanations for significant mileage gaps.")
	}
	if in.WarningCount > 0 {
		recs = append(recs, "Log the purpose of trips that exceed the declared mileage allowance.")
	}
	return recs
}
