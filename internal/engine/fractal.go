package engine

import (
	"math"
	"sort"

	"aargeom/domain/geometry"
)

// FractalValidator scores self-similarity: repeated subtree shapes,
// ancestor key recursion, scale-invariant level populations and a
// box-counting fractal dimension estimate.
type FractalValidator struct{}

func (v *FractalValidator) Pattern() geometry.Pattern { return geometry.PatternFractal }

func (v *FractalValidator) Validate(record *Node) geometry.PatternResult {
	selfSimilarity := 0.0
	scaleInvariance := 0.0
	dimensionScore := 0.0
	if record.IsMap() {
		selfSimilarity = RepeatedSubtreeRatio(record)
		scaleInvariance = scaleInvarianceScore(record)
		dimensionScore = fractalDimensionScore(record)
	}
	recursiveScore := AncestorKeyRecursionRatio(record)

	score := clamp01((selfSimilarity + recursiveScore + scaleInvariance + dimensionScore) / 4)

	return geometry.PatternResult{
		Valid: score >= 0.65,
		Score: score,
		Details: map[string]interface{}{
			"self_similarity":    selfSimilarity,
			"recursive_patterns": recursiveScore,
			"scale_invariance":   scaleInvariance,
			"fractal_dimension":  dimensionScore,
		},
	}
}

// scaleInvarianceScore checks whether adjacent nesting levels thin out
// at a roughly constant rate: the fraction of adjacent level pairs
// whose population ratio falls in [1.5, 3.0]. Fewer than two levels
// defaults to 0.5.
func scaleInvarianceScore(record *Node) float64 {
	levelCounts := LevelPopulation(record)
	if len(levelCounts) == 0 {
		return 0.0
	}

	levels := make([]int, 0, len(levelCounts))
	for level := range levelCounts {
		levels = append(levels, level)
	}
	sort.Ints(levels)

	if len(levels) < 2 {
		return 0.5
	}

	consistent := 0
	for i := 0; i < len(levels)-1; i++ {
		ratio := 1.0
		if levelCounts[levels[i+1]] > 0 {
			ratio = float64(levelCounts[levels[i]]) / float64(levelCounts[levels[i+1]])
		}
		if ratio >= 1.5 && ratio <= 3.0 {
			consistent++
		}
	}

	return float64(consistent) / float64(len(levels)-1)
}

// fractalDimensionScore estimates a box-counting dimension from the
// first and last scale populations: ln(c0/c1)/ln(s1/s0), reported as
// min(|dimension|/3, 1). Degenerate inputs default to 0.5.
func fractalDimensionScore(record *Node) float64 {
	scaleCounts := ScalePopulation(record)
	if len(scaleCounts) < 2 {
		return 0.5
	}

	scales := make([]int, 0, len(scaleCounts))
	for scale := range scaleCounts {
		scales = append(scales, scale)
	}
	sort.Ints(scales)

	first, last := scales[0], scales[len(scales)-1]
	if scaleCounts[last] == 0 || first == last {
		return 0.5
	}

	dimension := math.Log(float64(scaleCounts[first])/float64(scaleCounts[last])) /
		math.Log(float64(last)/float64(first))

	return math.Min(math.Abs(dimension)/3, 1.0)
}
