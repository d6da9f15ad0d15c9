package geometry

import (
	"aargeom/domain/core"
)

// Pattern identifies one of the five geometry rubrics a record is
// scored against.
type Pattern string

const (
	PatternCircle      Pattern = "circle"
	PatternTriangle    Pattern = "triangle"
	PatternSpiral      Pattern = "spiral"
	PatternGoldenRatio Pattern = "golden_ratio"
	PatternFractal     Pattern = "fractal"
)

// AllPatterns lists every supported pattern in canonical order.
func AllPatterns() []Pattern {
	return []Pattern{
		PatternCircle,
		PatternTriangle,
		PatternSpiral,
		PatternGoldenRatio,
		PatternFractal,
	}
}

// PatternNames lists every supported pattern name in canonical order.
func PatternNames() []string {
	patterns := AllPatterns()
	names := make([]string, len(patterns))
	for i, p := range patterns {
		names[i] = string(p)
	}
	return names
}

// IsSupported reports whether name is a declared pattern.
func IsSupported(name string) bool {
	switch Pattern(name) {
	case PatternCircle, PatternTriangle, PatternSpiral, PatternGoldenRatio, PatternFractal:
		return true
	default:
		return false
	}
}

// PatternResult is the outcome of scoring one record against one
// pattern. Score is always clamped to [0,1]; Valid is a threshold
// function of Score (and for the triangle pattern, of its sub-scores).
// Results are created fresh per validation call and never mutated
// after return.
type PatternResult struct {
	Valid   bool                   `json:"valid"`
	Score   float64                `json:"score"`
	Details map[string]interface{} `json:"details,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// AggregateResult combines the five pattern results into the single
// compliance figure callers gate on. OverallCompliance is the
// unweighted arithmetic mean of the five pattern scores.
type AggregateResult struct {
	OverallCompliance float64                   `json:"overall_compliance"`
	ValidPatterns     int                       `json:"valid_patterns"`
	TotalPatterns     int                       `json:"total_patterns"`
	PatternResults    map[Pattern]PatternResult `json:"pattern_results"`
	Timestamp         core.Timestamp            `json:"timestamp"`
}
