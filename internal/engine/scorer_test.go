package engine

import (
	"testing"

	"github.com/drivora/drivora-compliance/internal/models"
)

func TestScoreDeductions(t *testing.T) {
	scorer := NewComplianceScorer()

	// One warning and one critical gap: 100 - 5 - 10.
	result := scorer.Score(ScoreInput{
		TotalGaps:      3,
		WarningCount:   1,
		CriticalCount:  1,
		CompletedTrips: 3,
	})
	if result.Score != 85 {
		t.Fatalf("score = %d, want 85", result.Score)
	}
	if result.Status != models.StatusGood {
		t.Fatalf("status = %s, want good", result.Status)
	}
}

func TestScoreClampsToZero(t *testing.T) {
	scorer := NewComplianceScorer()
	result := scorer.Score(ScoreInput{
		TotalGaps:      10,
		ViolationCount: 10,
		CompletedTrips: 10,
	})
	if result.Score != 0 {
		t.Fatalf("score = %d, want 0", result.Score)
	}
	if result.Status != models.StatusCritical {
		t.Fatalf("status = %s, want critical", result.Status)
	}
}

func TestScoreCleanHistoryNeverExceedsHundred(t *testing.T) {
	scorer := NewComplianceScorer()
	result := scorer.Score(ScoreInput{CompletedTrips: 25})
	if result.Score != 100 {
		t.Fatalf("score = %d, want 100 after clamping the clean-history bonus", result.Score)
	}
	if result.Status != models.StatusExcellent {
		t.Fatalf("status = %s, want excellent", result.Status)
	}
}

func TestStatusBands(t *testing.T) {
	scorer := NewComplianceScorer()

	cases := []struct {
		in   ScoreInput
		want models.ComplianceStatus
	}{
		// 95: excellent boundary.
		{ScoreInput{TotalGaps: 1, WarningCount: 1, CompletedTrips: 1}, models.StatusExcellent},
		// 85: good boundary.
		{ScoreInput{TotalGaps: 3, WarningCount: 3, CompletedTrips: 3}, models.StatusGood},
		// 70: fair boundary.
		{ScoreInput{TotalGaps: 3, CriticalCount: 3, CompletedTrips: 3}, models.StatusFair},
		// 50: poor boundary.
		{ScoreInput{TotalGaps: 4, ViolationCount: 2, CriticalCount: 1, CompletedTrips: 4}, models.StatusPoor},
		// 45: below the poor band.
		{ScoreInput{TotalGaps: 4, ViolationCount: 2, CriticalCount: 1, WarningCount: 1, CompletedTrips: 4}, models.StatusCritical},
	}
	for _, tc := range cases {
		result := scorer.Score(tc.in)
		if result.Status != tc.want {
			t.Fatalf("input %+v scored %d with status %s, want %s", tc.in, result.Score, result.Status, tc.want)
		}
	}
}

func TestScoreRecommendationsFollowSeverity(t *testing.T) {
	scorer := NewComplianceScorer()
	result := scorer.Score(ScoreInput{
		TotalGaps:      3,
		WarningCount:   1,
		CriticalCount:  1,
		ViolationCount: 1,
		CompletedTrips: 3,
	})
	if len(result.Recommendations) != 3 {
		t.Fatalf("recommendations = %v, want one per severity tier", result.Recommendations)
	}
}
