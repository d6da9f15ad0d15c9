package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Structural analysis utilities. Pure, stateless and deterministic for
// the same input tree; shared by the pattern validators.

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// MaxDepth returns the maximum nesting depth of the tree. Scalars and
// empty containers sit at the current depth; each non-empty container
// descent adds one.
func MaxDepth(n *Node) int {
	return maxDepthAt(n, 0)
}

func maxDepthAt(n *Node, depth int) int {
	if n == nil {
		return depth
	}
	switch n.Kind {
	case KindMap:
		if len(n.Values) == 0 {
			return depth
		}
		deepest := 0
		for _, v := range n.Values {
			if d := maxDepthAt(v, depth+1); d > deepest {
				deepest = d
			}
		}
		return deepest
	case KindSeq:
		if len(n.Items) == 0 {
			return depth
		}
		deepest := 0
		for _, item := range n.Items {
			if d := maxDepthAt(item, depth+1); d > deepest {
				deepest = d
			}
		}
		return deepest
	default:
		return depth
	}
}

// ExtractNumbers collects every numeric value in traversal order:
// mapping values in key order, sequence items in order, numeric
// scalars as-is, booleans as 0/1, and any signed decimals embedded in
// text scalars. Duplicates are retained, parse failures skipped.
func ExtractNumbers(n *Node) []float64 {
	var numbers []float64
	extractNumbers(n, &numbers)
	return numbers
}

func extractNumbers(n *Node, out *[]float64) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindInt, KindFloat:
		*out = append(*out, n.Num)
	case KindBool:
		if n.Boolean {
			*out = append(*out, 1.0)
		} else {
			*out = append(*out, 0.0)
		}
	case KindMap:
		for _, v := range n.Values {
			extractNumbers(v, out)
		}
	case KindSeq:
		for _, item := range n.Items {
			extractNumbers(item, out)
		}
	case KindString:
		for _, match := range numberPattern.FindAllString(n.Str, -1) {
			if f, err := strconv.ParseFloat(match, 64); err == nil {
				*out = append(*out, f)
			}
		}
	}
}

// TypeBalance measures how evenly the immediate values of a mapping
// spread across type categories: Shannon entropy of the category
// distribution over the maximum entropy for the categories present.
// An empty mapping scores 0; a single category scores 1.0 by
// convention (the degenerate max-entropy case).
func TypeBalance(n *Node) float64 {
	if n == nil || n.Kind != KindMap || len(n.Values) == 0 {
		return 0.0
	}

	counts := make(map[string]int)
	for _, v := range n.Values {
		counts[v.Kind.TypeTag()]++
	}

	total := float64(len(n.Values))
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/total)
	}

	maxEntropy := math.Log(float64(len(counts)))
	if maxEntropy == 0 {
		return 1.0
	}
	return stat.Entropy(probs) / maxEntropy
}

// RepeatedSubtreeRatio walks the tree recording a (kind, depth, size)
// signature at every container node and returns the occurrences that
// belong to recurring signatures over the distinct signature count,
// clamped to [0,1]. No containers means 0.
func RepeatedSubtreeRatio(n *Node) float64 {
	signatures := make(map[string]int)
	collectSignatures(n, 0, signatures)

	if len(signatures) == 0 {
		return 0.0
	}

	repeated := 0
	for _, count := range signatures {
		if count > 1 {
			repeated += count
		}
	}
	return math.Min(float64(repeated)/float64(len(signatures)), 1.0)
}

func collectSignatures(n *Node, level int, signatures map[string]int) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindMap:
		key := fmt.Sprintf("map_level_%d_keys_%d", level, len(n.Keys))
		signatures[key]++
		for _, v := range n.Values {
			collectSignatures(v, level+1, signatures)
		}
	case KindSeq:
		key := fmt.Sprintf("seq_level_%d_items_%d", level, len(n.Items))
		signatures[key]++
		for _, item := range n.Items {
			collectSignatures(item, level+1, signatures)
		}
	}
}

// AncestorKeyRecursionRatio walks mappings carrying the ancestor key
// path; a hit is a mapping key whose name already occurs on the path
// leading to it. The denominator counts every visited node.
func AncestorKeyRecursionRatio(n *Node) float64 {
	hits, visited := 0, 0
	walkRecursion(n, nil, &hits, &visited)
	if visited == 0 {
		return 0.0
	}
	return float64(hits) / float64(visited)
}

func walkRecursion(n *Node, path []string, hits, visited *int) {
	if n == nil {
		return
	}
	*visited++
	switch n.Kind {
	case KindMap:
		for i, key := range n.Keys {
			for _, ancestor := range path {
				if key == ancestor {
					*hits++
					break
				}
			}
			walkRecursion(n.Values[i], append(path, key), hits, visited)
		}
	case KindSeq:
		for _, item := range n.Items {
			walkRecursion(item, path, hits, visited)
		}
	}
}

// LevelPopulation counts nodes visited at each nesting level, the root
// at level 0.
func LevelPopulation(n *Node) map[int]int {
	counts := make(map[int]int)
	countLevels(n, 0, counts)
	return counts
}

func countLevels(n *Node, level int, counts map[int]int) {
	if n == nil {
		return
	}
	counts[level]++
	switch n.Kind {
	case KindMap:
		for _, v := range n.Values {
			countLevels(v, level+1, counts)
		}
	case KindSeq:
		for _, item := range n.Items {
			countLevels(item, level+1, counts)
		}
	}
}

// ScalePopulation counts nodes grouped by a doubling nesting metric
// (1, 2, 4, 8, ...) instead of a linear level; used only for the
// fractal dimension estimate.
func ScalePopulation(n *Node) map[int]int {
	counts := make(map[int]int)
	countScales(n, 1, counts)
	return counts
}

func countScales(n *Node, scale int, counts map[int]int) {
	if n == nil {
		return
	}
	counts[scale]++
	switch n.Kind {
	case KindMap:
		for _, v := range n.Values {
			countScales(v, scale*2, counts)
		}
	case KindSeq:
		for _, item := range n.Items {
			countScales(item, scale*2, counts)
		}
	}
}
