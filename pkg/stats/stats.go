// Package stats provides the small numeric and set helpers shared by every
// analyzer: set similarity, descriptive statistics, and score clamping.
package stats

import (
	"math"
	"sort"
	"strings"
)

// Jaccard returns the Jaccard similarity of two string sets: |A∩B| / |A∪B|.
// Two empty sets are treated as identical (similarity 1). Comparison is exact;
// callers normalize case beforehand when needed.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for item := range setA {
		if _, ok := setB[item]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}

// Intersect returns the sorted intersection of two string sets.
func Intersect(a, b []string) []string {
	setB := toSet(b)
	var out []string
	seen := make(map[string]struct{})
	for _, item := range a {
		if _, ok := setB[item]; !ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Difference returns the sorted elements of a that are absent from b.
func Difference(a, b []string) []string {
	setB := toSet(b)
	var out []string
	seen := make(map[string]struct{})
	for _, item := range a {
		if _, ok := setB[item]; ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

// Tokenize lowercases text and splits it into word tokens, dropping tokens
// shorter than 3 characters so that articles and particles do not inflate
// description overlap.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	var tokens []string
	for _, f := range fields {
		if len(f) >= 3 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the median of values, or 0 for an empty slice.
// The input slice is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Variance returns the population variance of values, or 0 when fewer than
// two values are supplied.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
// It is the scale-free spread measure used by the clustering heuristics.
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(Variance(values)) / mean
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to the canonical score range [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Confidence derives an analysis confidence from a set of dimension scores:
// the mean rewarded for agreement and penalized for scatter, clamped to the
// platform confidence range [0.3, 0.95].
func Confidence(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.3
	}
	mean := Mean(scores)
	spread := math.Sqrt(Variance(scores))
	return Clamp(mean*(1-spread), 0.3, 0.95)
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
