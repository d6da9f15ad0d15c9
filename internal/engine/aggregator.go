package engine

import (
	"fmt"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
)

// ValidateData runs all five pattern validators against the record and
// aggregates their scores into one compliance figure. One faulting
// validator never aborts its siblings; its result contributes a zero
// score. The caller always receives a complete aggregate.
func (e *Engine) ValidateData(record *Node) geometry.AggregateResult {
	patterns := geometry.AllPatterns()
	results := make(map[geometry.Pattern]geometry.PatternResult, len(patterns))

	for _, pattern := range patterns {
		results[pattern] = e.runPattern(pattern, record)
	}

	validCount := 0
	scoreSum := 0.0
	for pattern, result := range results {
		if result.Valid {
			validCount++
		}
		scoreSum += result.Score
		if result.Error != "" {
			e.logger.Error("pattern validation failed: pattern=%s error=%s", pattern, result.Error)
		}
	}

	return geometry.AggregateResult{
		OverallCompliance: scoreSum / float64(len(patterns)),
		ValidPatterns:     validCount,
		TotalPatterns:     len(patterns),
		PatternResults:    results,
		Timestamp:         core.Now(),
	}
}

// ValidateJSON parses raw JSON into a record tree and validates it.
func (e *Engine) ValidateJSON(raw []byte) (geometry.AggregateResult, error) {
	record, err := ParseJSON(raw)
	if err != nil {
		return geometry.AggregateResult{}, err
	}
	return e.ValidateData(record), nil
}

// ValidatePatterns reports whether every requested pattern name is a
// declared rubric; used to vet caller-supplied pattern lists before
// trusting them.
func (e *Engine) ValidatePatterns(names []string) bool {
	for _, name := range names {
		if !geometry.IsSupported(name) {
			return false
		}
	}
	return true
}

func (e *Engine) runPattern(pattern geometry.Pattern, record *Node) (result geometry.PatternResult) {
	defer func() {
		if r := recover(); r != nil {
			result = geometry.PatternResult{
				Valid: false,
				Score: 0.0,
				Error: fmt.Sprintf("%s pattern validation failed: %v", pattern, r),
			}
		}
	}()

	validator := ValidatorFor(pattern, e.constants)
	if validator == nil {
		return faultResult(pattern, core.NewPatternError(string(pattern)))
	}
	return validator.Validate(record)
}
