package engine

import (
	"math"
	"testing"

	"aargeom/domain/geometry"
)

// TestValidatorFor tests the rubric factory
func TestValidatorFor(t *testing.T) {
	constants := NewEngine().Constants()

	for _, pattern := range geometry.AllPatterns() {
		v := ValidatorFor(pattern, constants)
		if v == nil {
			t.Fatalf("Expected validator for %s, got nil", pattern)
		}
		if v.Pattern() != pattern {
			t.Errorf("Expected pattern %s, got %s", pattern, v.Pattern())
		}
	}

	if v := ValidatorFor(geometry.Pattern("hexagon"), constants); v != nil {
		t.Errorf("Expected nil validator for unknown pattern, got %T", v)
	}
}

// TestCircleMissingFields tests that incomplete records score zero
func TestCircleMissingFields(t *testing.T) {
	v := &CircleValidator{}

	result := v.Validate(mustParse(t, `{}`))
	if result.Valid {
		t.Error("Expected invalid result for empty record")
	}
	if result.Score != 0.0 {
		t.Errorf("Expected score 0.0, got %v", result.Score)
	}
	missing, ok := result.Details["missing_fields"].([]string)
	if !ok || len(missing) != 3 {
		t.Errorf("Expected 3 missing fields, got %v", result.Details["missing_fields"])
	}

	// Partial record still reports the absent fields only.
	partial := v.Validate(mustParse(t, `{"mission_id": "m1"}`))
	missing, ok = partial.Details["missing_fields"].([]string)
	if !ok || len(missing) != 2 {
		t.Errorf("Expected 2 missing fields, got %v", partial.Details["missing_fields"])
	}
}

// TestCircleCompleteRecord tests scoring with all required fields
func TestCircleCompleteRecord(t *testing.T) {
	v := &CircleValidator{}

	record := mustParse(t, `{
		"mission_id": "m1",
		"mission_type": "development",
		"context_data": {"mission_id": "m1", "notes": "errors handled with try and catch"}
	}`)
	result := v.Validate(record)

	// context_data references mission_id: 1 of 3 fields cross-reference.
	circular := result.Details["circular_completeness"].(float64)
	if math.Abs(circular-1.0/3.0) > 1e-9 {
		t.Errorf("Expected circular completeness 1/3, got %v", circular)
	}

	// "error", "try", "catch", "handle" appear: 4 of 6 indicators.
	errorScore := result.Details["error_handling"].(float64)
	if math.Abs(errorScore-4.0/6.0) > 1e-9 {
		t.Errorf("Expected error handling 4/6, got %v", errorScore)
	}

	expected := (1.0/3.0 + 4.0/6.0) / 2
	if math.Abs(result.Score-expected) > 1e-9 {
		t.Errorf("Expected score %v, got %v", expected, result.Score)
	}
	if result.Valid {
		t.Error("Expected result below the 0.7 validity cutoff")
	}
}

// TestTriangleRejectsNonMapping tests the fault path for non-map roots
func TestTriangleRejectsNonMapping(t *testing.T) {
	v := &TriangleValidator{}

	for _, raw := range []string{`[1, 2, 3]`, `"scalar"`, `42`} {
		result := v.Validate(mustParse(t, raw))
		if result.Valid {
			t.Errorf("Expected invalid result for %s", raw)
		}
		if result.Score != 0.0 {
			t.Errorf("Expected score 0.0 for %s, got %v", raw, result.Score)
		}
		if result.Error == "" {
			t.Errorf("Expected error text for %s", raw)
		}
	}
}

// TestTriangleBalanceDiscount tests that tier spread discounts the mean
func TestTriangleBalanceDiscount(t *testing.T) {
	v := &TriangleValidator{}

	result := v.Validate(mustParse(t, `{
		"context": "deployment background",
		"scope": "cluster",
		"status": "done"
	}`))

	balance, ok := result.Details["balance_factor"].(float64)
	if !ok {
		t.Fatal("Expected balance_factor detail")
	}
	if balance < 0 || balance > 1 {
		t.Errorf("Expected balance factor in [0,1], got %v", balance)
	}

	structure := result.Details["structure"].(float64)
	content := result.Details["content"].(float64)
	context := result.Details["context"].(float64)

	mean := (structure + content + context) / 3
	expected := mean * balance
	if expected > 1 {
		expected = 1
	}
	if math.Abs(result.Score-expected) > 1e-9 {
		t.Errorf("Expected score %v (mean %v * balance %v), got %v",
			expected, mean, balance, result.Score)
	}

	// All top-level values are meaningful strings.
	if content != 1.0 {
		t.Errorf("Expected content quality 1.0, got %v", content)
	}
	// "context" and "scope" match 2 of 5 indicators.
	if math.Abs(context-0.4) > 1e-9 {
		t.Errorf("Expected contextual relevance 0.4, got %v", context)
	}
}

// TestTriangleUnbalancedTiersScoreLower tests that tier spread is
// punished relative to an even tier profile
func TestTriangleUnbalancedTiersScoreLower(t *testing.T) {
	v := &TriangleValidator{}

	// No context vocabulary at all: the context tier bottoms out while
	// structure and content stay high.
	unbalanced := v.Validate(mustParse(t, `{"alpha": "x", "beta": "y", "gamma": "z"}`))
	unbalancedFactor := unbalanced.Details["balance_factor"].(float64)

	// All five context indicators present pulls the tiers together.
	balanced := v.Validate(mustParse(t, `{
		"context": "a", "background": "b", "environment": "c",
		"situation": "d", "scope": "e"
	}`))
	balancedFactor := balanced.Details["balance_factor"].(float64)

	if unbalancedFactor >= balancedFactor {
		t.Errorf("Expected unbalanced factor %v < balanced factor %v",
			unbalancedFactor, balancedFactor)
	}
}

// TestSpiralFibonacciAlignment tests alignment over a pure Fibonacci record
func TestSpiralFibonacciAlignment(t *testing.T) {
	v := &SpiralValidator{Constants: NewEngine().Constants()}

	result := v.Validate(mustParse(t, `{"counts": [1, 1, 2, 3, 5, 8, 13]}`))
	fib, ok := result.Details["fibonacci_alignment"].(float64)
	if !ok {
		t.Fatal("Expected fibonacci_alignment detail")
	}
	if fib != 1.0 {
		t.Errorf("Expected full Fibonacci alignment, got %v", fib)
	}

	// Records without numbers fall back to the moderate default.
	noNumbers := v.Validate(mustParse(t, `{"name": "plain"}`))
	if got := noNumbers.Details["fibonacci_alignment"].(float64); got != 0.5 {
		t.Errorf("Expected 0.5 default without numbers, got %v", got)
	}
}

// TestSpiralKeywordScores tests growth and iteration vocabulary coverage
func TestSpiralKeywordScores(t *testing.T) {
	v := &SpiralValidator{Constants: NewEngine().Constants()}

	result := v.Validate(mustParse(t, `{
		"phase": "two",
		"step": 3,
		"notes": "improve and refine the iteration"
	}`))

	// "step", "phase", "iteration" cover 3 of 5 growth indicators.
	growth := result.Details["spiral_growth"].(float64)
	if math.Abs(growth-0.6) > 1e-9 {
		t.Errorf("Expected growth 0.6, got %v", growth)
	}

	// "improve", "refine", "iterate" cover 3 of 5 iteration indicators.
	iteration := result.Details["iteration_quality"].(float64)
	if math.Abs(iteration-0.6) > 1e-9 {
		t.Errorf("Expected iteration 0.6, got %v", iteration)
	}
}

// TestGoldenRatioPerfectProportion tests consecutive ratios equal to phi
func TestGoldenRatioPerfectProportion(t *testing.T) {
	v := &GoldenRatioValidator{Constants: NewEngine().Constants()}

	result := v.Validate(mustParse(t, `{"series": [1.0, 1.618033988749895]}`))
	proportion := result.Details["proportional_relationships"].(float64)
	if proportion != 1.0 {
		t.Errorf("Expected proportional score 1.0, got %v", proportion)
	}

	// One of the two numbers equals phi exactly.
	numerical := result.Details["numerical_golden_ratios"].(float64)
	if numerical != 0.5 {
		t.Errorf("Expected numerical score 0.5, got %v", numerical)
	}

	if result.Details["phi_threshold"].(float64) != 0.618 {
		t.Errorf("Expected phi threshold 0.618, got %v", result.Details["phi_threshold"])
	}
}

// TestGoldenRatioDefaults tests the moderate fallbacks and layout zero
func TestGoldenRatioDefaults(t *testing.T) {
	v := &GoldenRatioValidator{Constants: NewEngine().Constants()}

	// A single number cannot form a ratio.
	result := v.Validate(mustParse(t, `{"phi": 1.618033988749895}`))
	if got := result.Details["proportional_relationships"].(float64); got != 0.5 {
		t.Errorf("Expected 0.5 proportional default, got %v", got)
	}
	if got := result.Details["numerical_golden_ratios"].(float64); got != 1.0 {
		t.Errorf("Expected numerical score 1.0, got %v", got)
	}

	// Non-mapping roots have no layout to proportion.
	seq := v.Validate(mustParse(t, `[1, 2, 3]`))
	if got := seq.Details["api_design_proportions"].(float64); got != 0.0 {
		t.Errorf("Expected layout score 0.0 for sequence, got %v", got)
	}
}

// TestFractalNonMappingRoot tests that structural sub-scores zero out
func TestFractalNonMappingRoot(t *testing.T) {
	v := &FractalValidator{}

	result := v.Validate(mustParse(t, `[1, 2]`))
	for _, key := range []string{"self_similarity", "scale_invariance", "fractal_dimension"} {
		if got := result.Details[key].(float64); got != 0.0 {
			t.Errorf("Expected %s 0.0 for non-mapping root, got %v", key, got)
		}
	}
	if result.Valid {
		t.Error("Expected invalid result for non-mapping root")
	}
}

// TestFractalSelfSimilarStructure tests a repeating subtree shape
func TestFractalSelfSimilarStructure(t *testing.T) {
	v := &FractalValidator{}

	result := v.Validate(mustParse(t, `{
		"left":  {"value": 1, "child": {"value": 2}},
		"right": {"value": 3, "child": {"value": 4}}
	}`))

	similarity := result.Details["self_similarity"].(float64)
	if similarity <= 0 {
		t.Errorf("Expected positive self-similarity, got %v", similarity)
	}
	if result.Score < 0 || result.Score > 1 {
		t.Errorf("Expected score in [0,1], got %v", result.Score)
	}
}

// TestValidatorScoresAlwaysClamped tests the score contract over
// adversarial record shapes
func TestValidatorScoresAlwaysClamped(t *testing.T) {
	constants := NewEngine().Constants()
	records := []string{
		`{}`,
		`[]`,
		`null`,
		`"text"`,
		`0`,
		`{"a": {"a": {"a": {"a": {"a": {"a": {"a": {"a": 1}}}}}}}}`,
		`{"x": [1, 1, 1, 1], "y": [1, 1, 1, 1], "z": [1, 1, 1, 1]}`,
		`{"mission_id": 1, "mission_type": null, "context_data": []}`,
	}

	for _, pattern := range geometry.AllPatterns() {
		v := ValidatorFor(pattern, constants)
		for _, raw := range records {
			result := v.Validate(mustParse(t, raw))
			if result.Score < 0 || result.Score > 1 {
				t.Errorf("%s(%s): score %v out of [0,1]", pattern, raw, result.Score)
			}
		}
	}
}
