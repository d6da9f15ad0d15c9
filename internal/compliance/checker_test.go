package compliance

import (
	"math"
	"testing"

	"aargeom/internal/engine"
)

func newTestChecker(t *testing.T) *Checker {
	t.Helper()
	eng := engine.NewEngine()
	if err := eng.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return NewChecker(eng)
}

// TestLevelFor tests score grading against the fixed thresholds
func TestLevelFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected Level
	}{
		{0.95, LevelExcellent},
		{0.9, LevelExcellent},
		{0.85, LevelGood},
		{0.8, LevelGood},
		{0.75, LevelAcceptable},
		{0.7, LevelAcceptable},
		{0.6, LevelNeedsImprovement},
		{0.5, LevelNeedsImprovement},
		{0.4, LevelCritical},
		{0.1, LevelCritical},
		{0.0, LevelCritical},
	}

	for _, test := range tests {
		if got := LevelFor(test.score); got != test.expected {
			t.Errorf("LevelFor(%v): expected %s, got %s", test.score, test.expected, got)
		}
	}
}

// TestUpdateCompliance tests score tracking and history trimming
func TestUpdateCompliance(t *testing.T) {
	c := newTestChecker(t)

	if c.CurrentCompliance() != 0 {
		t.Errorf("Expected initial compliance 0, got %v", c.CurrentCompliance())
	}

	c.UpdateCompliance(0.85)
	if c.CurrentCompliance() != 0.85 {
		t.Errorf("Expected 0.85, got %v", c.CurrentCompliance())
	}

	// History caps at the rolling limit.
	for i := 0; i < historyLimit+50; i++ {
		c.UpdateCompliance(0.7)
	}
	detail := c.DetailedCompliance()
	if detail.History.Samples != historyLimit {
		t.Errorf("Expected %d history samples, got %d", historyLimit, detail.History.Samples)
	}
}

// TestDetailedCompliance tests the full compliance picture
func TestDetailedCompliance(t *testing.T) {
	c := newTestChecker(t)
	c.UpdateCompliance(0.6)
	c.UpdateCompliance(0.8)

	detail := c.DetailedCompliance()
	if detail.CurrentScore != 0.8 {
		t.Errorf("Expected current score 0.8, got %v", detail.CurrentScore)
	}
	if detail.ComplianceLevel != LevelGood {
		t.Errorf("Expected good level, got %s", detail.ComplianceLevel)
	}
	if detail.LastUpdated == nil {
		t.Error("Expected last updated timestamp")
	}
	if len(detail.Recommendations) == 0 {
		t.Error("Expected recommendations")
	}
	if detail.History.Samples != 2 {
		t.Errorf("Expected 2 samples, got %d", detail.History.Samples)
	}
	if math.Abs(detail.History.Mean-0.7) > 1e-9 {
		t.Errorf("Expected mean 0.7, got %v", detail.History.Mean)
	}
	if detail.History.Min != 0.6 || detail.History.Max != 0.8 {
		t.Errorf("Expected min 0.6 max 0.8, got %v / %v", detail.History.Min, detail.History.Max)
	}
}

// TestCheckAlerts tests alert generation at each severity band
func TestCheckAlerts(t *testing.T) {
	c := newTestChecker(t)

	c.UpdateCompliance(0.2)
	alerts := c.CheckAlerts()
	if len(alerts) != 1 || alerts[0].Level != "critical" {
		t.Errorf("Expected one critical alert, got %+v", alerts)
	}

	c.UpdateCompliance(0.5)
	alerts = c.CheckAlerts()
	if len(alerts) != 1 || alerts[0].Level != "warning" {
		t.Errorf("Expected one warning alert, got %+v", alerts)
	}

	c.UpdateCompliance(0.95)
	if alerts = c.CheckAlerts(); len(alerts) != 0 {
		t.Errorf("Expected no alerts at 0.95, got %+v", alerts)
	}
}

// TestValidateMissionCompliance tests grading and the high-priority update
func TestValidateMissionCompliance(t *testing.T) {
	c := newTestChecker(t)

	record, err := engine.ParseJSON([]byte(`{
		"mission_id": "m1",
		"priority": "low",
		"context": "maintenance"
	}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	result := c.ValidateMissionCompliance(record)
	if result.MissionCompliance < 0 || result.MissionCompliance > 1 {
		t.Errorf("Expected compliance in [0,1], got %v", result.MissionCompliance)
	}
	if result.ComplianceLevel != LevelFor(result.MissionCompliance) {
		t.Errorf("Level %s does not match score %v", result.ComplianceLevel, result.MissionCompliance)
	}
	if len(result.PatternResults) != 5 {
		t.Errorf("Expected 5 pattern results, got %d", len(result.PatternResults))
	}

	// Low priority leaves the tracked score untouched.
	if c.CurrentCompliance() != 0 {
		t.Errorf("Expected tracked score unchanged, got %v", c.CurrentCompliance())
	}

	// High priority missions update the tracked score.
	high, err := engine.ParseJSON([]byte(`{"mission_id": "m2", "priority": "high"}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	highResult := c.ValidateMissionCompliance(high)
	if c.CurrentCompliance() != highResult.MissionCompliance {
		t.Errorf("Expected tracked score %v, got %v",
			highResult.MissionCompliance, c.CurrentCompliance())
	}
}

// TestRecommendationsFor tests that every level yields guidance
func TestRecommendationsFor(t *testing.T) {
	levels := []Level{
		LevelExcellent, LevelGood, LevelAcceptable,
		LevelNeedsImprovement, LevelCritical, LevelError,
	}
	for _, level := range levels {
		if recs := RecommendationsFor(level); len(recs) == 0 {
			t.Errorf("Expected recommendations for %s", level)
		}
	}
}

// TestGenerateReport tests the comprehensive report shape
func TestGenerateReport(t *testing.T) {
	c := newTestChecker(t)
	c.UpdateCompliance(0.92)

	report := c.GenerateReport()
	if report.ReportType != "geometry_compliance_report" {
		t.Errorf("Unexpected report type %s", report.ReportType)
	}
	if report.CurrentScore != 0.92 {
		t.Errorf("Expected current score 0.92, got %v", report.CurrentScore)
	}
	if report.ComplianceLevel != LevelExcellent {
		t.Errorf("Expected excellent level, got %s", report.ComplianceLevel)
	}
	if len(report.Thresholds) != 5 {
		t.Errorf("Expected 5 thresholds, got %d", len(report.Thresholds))
	}
	if report.NextReviewRecommended.IsZero() {
		t.Error("Expected a next review date")
	}
	if report.GeneratedAt.IsZero() {
		t.Error("Expected a generation timestamp")
	}
}
