package engine

import (
	"math"
	"strings"

	"aargeom/domain/geometry"
)

var (
	growthIndicators    = []string{"step", "phase", "iteration", "version", "level"}
	iterationIndicators = []string{"improve", "enhance", "refine", "iterate", "evolve"}
	timestampIndicators = []string{"time", "date", "created", "updated"}
)

// SpiralValidator scores progression: growth and iteration vocabulary,
// versioning/timestamp keys and Fibonacci alignment of the record's
// numbers.
type SpiralValidator struct {
	Constants *Constants
}

func (v *SpiralValidator) Pattern() geometry.Pattern { return geometry.PatternSpiral }

func (v *SpiralValidator) Validate(record *Node) geometry.PatternResult {
	serialized := serializeLower(record)

	growthScore := keywordCoverage(serialized, growthIndicators)
	iterationScore := keywordCoverage(serialized, iterationIndicators)
	progressionScore := enhancementProgression(record)
	fibScore := v.fibonacciAlignment(record)

	score := clamp01((growthScore + iterationScore + progressionScore + fibScore) / 4)

	return geometry.PatternResult{
		Valid: score >= 0.6,
		Score: score,
		Details: map[string]interface{}{
			"spiral_growth":           growthScore,
			"iteration_quality":       iterationScore,
			"enhancement_progression": progressionScore,
			"fibonacci_alignment":     fibScore,
		},
	}
}

// enhancementProgression counts top-level keys that look like version
// markers (containing "version" or the letter "v" - the heuristic is
// that permissive on purpose) or timestamps, normalized by 4.
// Non-mapping records default to a moderate 0.5.
func enhancementProgression(record *Node) float64 {
	if record == nil || !record.IsMap() {
		return 0.5
	}

	versionKeys, timestampKeys := 0, 0
	for _, key := range record.Keys {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "version") || strings.Contains(lower, "v") {
			versionKeys++
		}
		for _, t := range timestampIndicators {
			if strings.Contains(lower, t) {
				timestampKeys++
				break
			}
		}
	}

	score := float64(versionKeys+timestampKeys) / 4
	if score > 1 {
		return 1
	}
	return score
}

// fibonacciAlignment is the fraction of extracted numbers whose
// integer truncation is one of the first 20 Fibonacci numbers. No
// numbers defaults to 0.5.
func (v *SpiralValidator) fibonacciAlignment(record *Node) float64 {
	numbers := ExtractNumbers(record)
	if len(numbers) == 0 {
		return 0.5
	}

	matches := 0
	for _, num := range numbers {
		if v.Constants.IsFibonacci(int(math.Trunc(num))) {
			matches++
		}
	}

	frac := float64(matches) / float64(len(numbers))
	if frac > 1 {
		return 1
	}
	return frac
}
