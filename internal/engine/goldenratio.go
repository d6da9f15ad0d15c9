package engine

import (
	"math"
	"strings"

	"aargeom/domain/geometry"
)

// phiThreshold is the validity cutoff for the golden ratio pattern,
// the literal approximation of 1/φ the heuristic compares against.
const phiThreshold = 0.618

var metaIndicators = []string{"meta", "context", "info", "config"}

// GoldenRatioValidator scores proportionality: consecutive number
// ratios near φ, values equal to φ, and the content/metadata split of
// the top-level layout against the 1/φ ideal.
type GoldenRatioValidator struct {
	Constants *Constants
}

func (v *GoldenRatioValidator) Pattern() geometry.Pattern { return geometry.PatternGoldenRatio }

func (v *GoldenRatioValidator) Validate(record *Node) geometry.PatternResult {
	proportionScore := v.proportionalRelationships(record)
	numericalScore := v.numericalGoldenRatios(record)
	layoutScore := v.layoutProportions(record)

	score := clamp01((proportionScore + numericalScore + layoutScore) / 3)

	return geometry.PatternResult{
		Valid: score >= phiThreshold,
		Score: score,
		Details: map[string]interface{}{
			"proportional_relationships": proportionScore,
			"numerical_golden_ratios":    numericalScore,
			"api_design_proportions":     layoutScore,
			"phi_threshold":              phiThreshold,
		},
	}
}

// proportionalRelationships is the fraction of consecutive-pair ratios
// within 0.1 of φ. Zero divisors are skipped; fewer than two numbers
// (or no usable ratios) defaults to 0.5.
func (v *GoldenRatioValidator) proportionalRelationships(record *Node) float64 {
	numbers := ExtractNumbers(record)
	if len(numbers) < 2 {
		return 0.5
	}

	ratios := make([]float64, 0, len(numbers)-1)
	for i := 0; i < len(numbers)-1; i++ {
		if numbers[i] != 0 {
			ratios = append(ratios, numbers[i+1]/numbers[i])
		}
	}
	if len(ratios) == 0 {
		return 0.5
	}

	matches := 0
	for _, r := range ratios {
		if math.Abs(r-v.Constants.Phi) < 0.1 {
			matches++
		}
	}

	frac := float64(matches) / float64(len(ratios))
	if frac > 1 {
		return 1
	}
	return frac
}

// numericalGoldenRatios is the fraction of extracted numbers within
// 0.01 of φ; no numbers defaults to 0.5.
func (v *GoldenRatioValidator) numericalGoldenRatios(record *Node) float64 {
	numbers := ExtractNumbers(record)
	if len(numbers) == 0 {
		return 0.5
	}

	matches := 0
	for _, num := range numbers {
		if math.Abs(num-v.Constants.Phi) < 0.01 {
			matches++
		}
	}

	frac := float64(matches) / float64(len(numbers))
	if frac > 1 {
		return 1
	}
	return frac
}

// layoutProportions classifies top-level keys as metadata or content
// and scores how close the content share is to 1/φ (~62% content,
// ~38% metadata). Non-mapping records score 0.
func (v *GoldenRatioValidator) layoutProportions(record *Node) float64 {
	if record == nil || !record.IsMap() {
		return 0.0
	}
	total := record.Len()
	if total == 0 {
		return 0.0
	}

	contentKeys := 0
	for _, key := range record.Keys {
		lower := strings.ToLower(key)
		isMeta := false
		for _, m := range metaIndicators {
			if strings.Contains(lower, m) {
				isMeta = true
				break
			}
		}
		if !isMeta {
			contentKeys++
		}
	}

	contentRatio := float64(contentKeys) / float64(total)
	deviation := math.Abs(contentRatio - 1/v.Constants.Phi)

	score := 1 - deviation*2
	if score < 0 {
		return 0
	}
	return score
}
