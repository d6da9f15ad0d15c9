package engine

import (
	"strings"

	"aargeom/domain/geometry"
)

// requiredFields are the top-level keys a complete record carries.
var requiredFields = []string{"mission_id", "mission_type", "context_data"}

// errorIndicators is the fixed keyword table for error-handling
// coverage. The literal table is the behavior; do not generalize it.
var errorIndicators = []string{"error", "exception", "try", "catch", "finally", "handle"}

// CircleValidator scores completeness: all required fields present,
// cross-referencing fields and error-handling vocabulary.
type CircleValidator struct{}

func (v *CircleValidator) Pattern() geometry.Pattern { return geometry.PatternCircle }

func (v *CircleValidator) Validate(record *Node) geometry.PatternResult {
	var missing []string
	for _, field := range requiredFields {
		if record == nil || !record.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return geometry.PatternResult{
			Valid: false,
			Score: 0.0,
			Details: map[string]interface{}{
				"missing_fields": missing,
			},
		}
	}

	circularScore := circularCompleteness(record)
	errorScore := keywordCoverage(serializeLower(record), errorIndicators)

	score := clamp01((circularScore + errorScore) / 2)

	return geometry.PatternResult{
		Valid: score >= 0.7,
		Score: score,
		Details: map[string]interface{}{
			"circular_completeness": circularScore,
			"error_handling":        errorScore,
			"complete_fields":       record.Len(),
		},
	}
}

// circularCompleteness is the fraction of top-level fields whose
// serialized container value mentions another field's key name.
// One hit per field, case-insensitive.
func circularCompleteness(record *Node) float64 {
	total := record.Len()
	if total == 0 {
		return 0.0
	}

	hits := 0
	for i, key := range record.Keys {
		value := record.Values[i]
		if !value.IsContainer() {
			continue
		}
		serialized := serializeLower(value)
		for _, other := range record.Keys {
			if other == key {
				continue
			}
			if strings.Contains(serialized, strings.ToLower(other)) {
				hits++
				break
			}
		}
	}

	frac := float64(hits) / float64(total)
	if frac > 1 {
		return 1
	}
	return frac
}
