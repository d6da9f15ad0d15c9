package compliance

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
	"aargeom/internal"
	"aargeom/internal/engine"
)

// Level grades a compliance score.
type Level string

const (
	LevelExcellent        Level = "excellent"
	LevelGood             Level = "good"
	LevelAcceptable       Level = "acceptable"
	LevelNeedsImprovement Level = "needs_improvement"
	LevelCritical         Level = "critical"
	LevelError            Level = "error"
)

// threshold pairs a level with its minimum score. Ordered best-first;
// classification returns the first level the score reaches.
type threshold struct {
	Level Level
	Min   float64
}

var thresholds = []threshold{
	{LevelExcellent, 0.9},
	{LevelGood, 0.8},
	{LevelAcceptable, 0.7},
	{LevelNeedsImprovement, 0.5},
	{LevelCritical, 0.3},
}

// staleAfter is how old the last check may be before an alert fires.
const staleAfter = time.Hour

// historyLimit caps the rolling score history kept for trend summaries.
const historyLimit = 200

// Alert flags a compliance condition that needs attention.
type Alert struct {
	Level          string         `json:"level"`
	Message        string         `json:"message"`
	ActionRequired string         `json:"action_required"`
	Timestamp      core.Timestamp `json:"timestamp"`
}

// HistorySummary describes the rolling compliance score history.
type HistorySummary struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// Detail is the full current compliance picture.
type Detail struct {
	CurrentScore    float64           `json:"current_score"`
	ComplianceLevel Level             `json:"compliance_level"`
	LastUpdated     *core.Timestamp   `json:"last_updated"`
	Thresholds      map[Level]float64 `json:"thresholds"`
	Recommendations []string          `json:"recommendations"`
	History         HistorySummary    `json:"history"`
}

// MissionCompliance is the outcome of validating one mission record.
type MissionCompliance struct {
	MissionCompliance float64                                     `json:"mission_compliance"`
	ComplianceLevel   Level                                       `json:"compliance_level"`
	PatternResults    map[geometry.Pattern]geometry.PatternResult `json:"pattern_results"`
	ValidatedAt       core.Timestamp                              `json:"validation_timestamp"`
	Recommendations   []string                                    `json:"recommendations"`
}

// Report is the comprehensive compliance report.
type Report struct {
	ReportType            string            `json:"report_type"`
	GeneratedAt           core.Timestamp    `json:"generated_at"`
	CurrentScore          float64           `json:"current_score"`
	ComplianceLevel       Level             `json:"compliance_level"`
	LastUpdated           *core.Timestamp   `json:"last_updated"`
	History               HistorySummary    `json:"history"`
	AlertsAndWarnings     []Alert           `json:"alerts_and_warnings"`
	Recommendations       []string          `json:"recommendations"`
	Thresholds            map[Level]float64 `json:"thresholds"`
	NextReviewRecommended core.Timestamp    `json:"next_review_recommended"`
}

// Checker tracks the running compliance level and grades individual
// mission records through the geometry engine.
type Checker struct {
	engine *engine.Engine
	logger *internal.Logger

	mu        sync.RWMutex
	current   float64
	lastCheck time.Time
	history   []float64
}

// NewChecker creates a compliance checker backed by the given engine.
func NewChecker(eng *engine.Engine) *Checker {
	return &Checker{
		engine: eng,
		logger: internal.DefaultLogger,
	}
}

// CurrentCompliance returns the current overall compliance level.
func (c *Checker) CurrentCompliance() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// UpdateCompliance records a new compliance score.
func (c *Checker) UpdateCompliance(score float64) {
	c.mu.Lock()
	c.current = score
	c.lastCheck = time.Now()
	c.history = append(c.history, score)
	if len(c.history) > historyLimit {
		c.history = c.history[len(c.history)-historyLimit:]
	}
	c.mu.Unlock()

	c.logger.Info("compliance updated: score=%.4f level=%s", score, LevelFor(score))
}

// LevelFor grades a score against the fixed thresholds.
func LevelFor(score float64) Level {
	for _, t := range thresholds {
		if score >= t.Min {
			return t.Level
		}
	}
	return LevelCritical
}

// Thresholds returns the level cutoffs.
func Thresholds() map[Level]float64 {
	out := make(map[Level]float64, len(thresholds))
	for _, t := range thresholds {
		out[t.Level] = t.Min
	}
	return out
}

// DetailedCompliance returns the full current compliance picture,
// including a summary of the rolling score history.
func (c *Checker) DetailedCompliance() Detail {
	c.mu.RLock()
	current := c.current
	lastCheck := c.lastCheck
	history := append([]float64(nil), c.history...)
	c.mu.RUnlock()

	level := LevelFor(current)
	detail := Detail{
		CurrentScore:    current,
		ComplianceLevel: level,
		Thresholds:      Thresholds(),
		Recommendations: RecommendationsFor(level),
		History:         summarizeHistory(history),
	}
	if !lastCheck.IsZero() {
		ts := core.NewTimestamp(lastCheck)
		detail.LastUpdated = &ts
	}
	return detail
}

func summarizeHistory(history []float64) HistorySummary {
	summary := HistorySummary{Samples: len(history)}
	if len(history) == 0 {
		return summary
	}
	summary.Mean, _ = stats.Mean(history)
	summary.Median, _ = stats.Median(history)
	summary.Min, _ = stats.Min(history)
	summary.Max, _ = stats.Max(history)
	if len(history) > 1 {
		summary.StdDev, _ = stats.StandardDeviation(history)
	}
	return summary
}

// CheckAlerts returns the currently firing compliance alerts.
func (c *Checker) CheckAlerts() []Alert {
	c.mu.RLock()
	current := c.current
	lastCheck := c.lastCheck
	c.mu.RUnlock()

	now := core.Now()
	alerts := []Alert{}

	switch {
	case current < Thresholds()[LevelCritical]:
		alerts = append(alerts, Alert{
			Level:          "critical",
			Message:        "Critical compliance level",
			ActionRequired: "Immediate intervention required",
			Timestamp:      now,
		})
	case current < Thresholds()[LevelAcceptable]:
		alerts = append(alerts, Alert{
			Level:          "warning",
			Message:        "Low compliance level",
			ActionRequired: "Review and improvement needed",
			Timestamp:      now,
		})
	}

	if !lastCheck.IsZero() && time.Since(lastCheck) > staleAfter {
		alerts = append(alerts, Alert{
			Level:          "info",
			Message:        "Compliance data is stale",
			ActionRequired: "Update compliance monitoring",
			Timestamp:      now,
		})
	}

	return alerts
}

// ValidateMissionCompliance validates compliance for a specific
// mission record. High-priority missions update the tracked score.
func (c *Checker) ValidateMissionCompliance(record *engine.Node) MissionCompliance {
	result := c.engine.ValidateData(record)
	score := result.OverallCompliance

	if priority := record.Get("priority"); priority != nil && priority.Str == "high" {
		c.UpdateCompliance(score)
	}

	return MissionCompliance{
		MissionCompliance: score,
		ComplianceLevel:   LevelFor(score),
		PatternResults:    result.PatternResults,
		ValidatedAt:       core.Now(),
		Recommendations:   missionRecommendations(result),
	}
}

func missionRecommendations(result geometry.AggregateResult) []string {
	recommendations := []string{}
	for _, pattern := range geometry.AllPatterns() {
		if pr, ok := result.PatternResults[pattern]; ok && pr.Score < 0.7 {
			recommendations = append(recommendations,
				"Improve "+string(pattern)+" pattern compliance")
		}
	}
	if result.OverallCompliance < 0.8 {
		recommendations = append(recommendations,
			"Consider comprehensive geometry pattern review and optimization")
	}
	return recommendations
}

// RecommendationsFor returns guidance for a compliance level.
func RecommendationsFor(level Level) []string {
	switch level {
	case LevelExcellent:
		return []string{
			"Maintain current geometry practices",
			"Share best practices with other teams",
			"Consider advanced pattern optimizations",
		}
	case LevelGood:
		return []string{
			"Continue current practices with minor refinements",
			"Focus on improving weaker patterns",
			"Regular compliance monitoring",
		}
	case LevelAcceptable:
		return []string{
			"Review and strengthen pattern implementation",
			"Increase focus on pattern compliance",
			"Consider additional training or resources",
		}
	case LevelNeedsImprovement:
		return []string{
			"Immediate review of geometry practices required",
			"Implement structured improvement plan",
			"Increase monitoring frequency",
		}
	case LevelCritical:
		return []string{
			"Emergency intervention required",
			"Halt non-critical activities until compliance improved",
			"Implement immediate corrective measures",
		}
	default:
		return []string{"Contact system administrator"}
	}
}

// GenerateReport builds the comprehensive compliance report.
func (c *Checker) GenerateReport() Report {
	detail := c.DetailedCompliance()
	return Report{
		ReportType:            "geometry_compliance_report",
		GeneratedAt:           core.Now(),
		CurrentScore:          detail.CurrentScore,
		ComplianceLevel:       detail.ComplianceLevel,
		LastUpdated:           detail.LastUpdated,
		History:               detail.History,
		AlertsAndWarnings:     c.CheckAlerts(),
		Recommendations:       detail.Recommendations,
		Thresholds:            detail.Thresholds,
		NextReviewRecommended: c.nextReviewDate(detail.CurrentScore),
	}
}

// nextReviewDate schedules the next review sooner the worse the score.
func (c *Checker) nextReviewDate(score float64) core.Timestamp {
	now := time.Now()
	switch {
	case score >= Thresholds()[LevelExcellent]:
		return core.NewTimestamp(now.Add(4 * 7 * 24 * time.Hour))
	case score >= Thresholds()[LevelGood]:
		return core.NewTimestamp(now.Add(2 * 7 * 24 * time.Hour))
	case score >= Thresholds()[LevelAcceptable]:
		return core.NewTimestamp(now.Add(7 * 24 * time.Hour))
	default:
		return core.NewTimestamp(now.Add(24 * time.Hour))
	}
}
