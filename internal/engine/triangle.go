package engine

import (
	"strings"

	"aargeom/domain/core"
	"aargeom/domain/geometry"
)

// contextIndicators is the fixed table of substrings sought in
// top-level key names for contextual relevance.
var contextIndicators = []string{"context", "background", "environment", "situation", "scope"}

// TriangleValidator scores stability across three tiers: structure,
// content and context. All three must be balanced; the spread between
// the best and worst tier discounts the mean.
type TriangleValidator struct{}

func (v *TriangleValidator) Pattern() geometry.Pattern { return geometry.PatternTriangle }

func (v *TriangleValidator) Validate(record *Node) geometry.PatternResult {
	if record == nil || !record.IsMap() {
		return faultResult(geometry.PatternTriangle, core.ErrInvalidRecord)
	}

	structureScore := structuralIntegrity(record)
	contentScore := contentQuality(record)
	contextScore := contextualRelevance(record)

	scores := []float64{structureScore, contentScore, contextScore}
	minScore, maxScore := scores[0], scores[0]
	sum := 0.0
	for _, s := range scores {
		sum += s
		if s < minScore {
			minScore = s
		}
		if s > maxScore {
			maxScore = s
		}
	}

	balanceFactor := 1 - (maxScore - minScore)
	score := clamp01((sum / 3) * balanceFactor)

	allAbove := structureScore >= 0.5 && contentScore >= 0.5 && contextScore >= 0.5

	return geometry.PatternResult{
		Valid: score >= 0.7 && allAbove,
		Score: score,
		Details: map[string]interface{}{
			"structure":      structureScore,
			"content":        contentScore,
			"context":        contextScore,
			"balance_factor": balanceFactor,
		},
	}
}

// structuralIntegrity combines a nesting-depth penalty with the type
// balance of the top-level values. Depth beyond 5 levels is penalized
// linearly, zeroing out at 15.
func structuralIntegrity(record *Node) float64 {
	depth := MaxDepth(record)
	depthScore := 1.0
	if depth > 5 {
		depthScore = 1 - float64(depth-5)/10
		if depthScore < 0 {
			depthScore = 0
		}
	}

	balanceScore := TypeBalance(record)

	return (depthScore + balanceScore) / 2
}

// contentQuality is the fraction of top-level values that carry
// meaningful content: not null, false, zero, empty or whitespace-only.
func contentQuality(record *Node) float64 {
	total := record.Len()
	if total == 0 {
		return 0.0
	}

	meaningful := 0
	for _, value := range record.Values {
		if isMeaningful(value) {
			meaningful++
		}
	}
	return float64(meaningful) / float64(total)
}

func isMeaningful(n *Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case KindNull:
		return false
	case KindBool:
		return n.Boolean
	case KindInt, KindFloat:
		return n.Num != 0
	case KindString:
		return strings.TrimSpace(n.Str) != ""
	case KindMap, KindSeq:
		return n.Len() > 0
	default:
		return false
	}
}

// contextualRelevance is the fraction of context indicator words that
// appear in any top-level key name, capped at 1.0.
func contextualRelevance(record *Node) float64 {
	found := 0
	for _, indicator := range contextIndicators {
		for _, key := range record.Keys {
			if strings.Contains(strings.ToLower(key), indicator) {
				found++
				break
			}
		}
	}

	frac := float64(found) / float64(len(contextIndicators))
	if frac > 1 {
		return 1
	}
	return frac
}
