package engine

import (
	"fmt"
	"strings"

	"aargeom/domain/geometry"
)

// Validator is the contract every pattern rubric satisfies. A
// validator must tolerate missing keys and heterogeneous types without
// failing; internal faults degrade to a zero-score result carrying the
// error text.
type Validator interface {
	Pattern() geometry.Pattern
	Validate(record *Node) geometry.PatternResult
}

// ValidatorFor acts as the factory for the five rubrics.
func ValidatorFor(pattern geometry.Pattern, constants *Constants) Validator {
	switch pattern {
	case geometry.PatternCircle:
		return &CircleValidator{}
	case geometry.PatternTriangle:
		return &TriangleValidator{}
	case geometry.PatternSpiral:
		return &SpiralValidator{Constants: constants}
	case geometry.PatternGoldenRatio:
		return &GoldenRatioValidator{Constants: constants}
	case geometry.PatternFractal:
		return &FractalValidator{}
	default:
		return nil
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// serializeLower renders the record as compact JSON lowercased, the
// form every keyword heuristic scans.
func serializeLower(n *Node) string {
	return strings.ToLower(n.JSON())
}

// keywordCoverage returns the fraction of keywords present as
// substrings of haystack, capped at 1.0.
func keywordCoverage(haystack string, keywords []string) float64 {
	found := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			found++
		}
	}
	frac := float64(found) / float64(len(keywords))
	if frac > 1 {
		return 1
	}
	return frac
}

func faultResult(pattern geometry.Pattern, err error) geometry.PatternResult {
	return geometry.PatternResult{
		Valid: false,
		Score: 0.0,
		Error: fmt.Sprintf("%s pattern validation failed: %v", pattern, err),
	}
}
