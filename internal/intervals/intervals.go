// Package intervals selects maximal non-overlapping intervals out of a set of candidates.
package intervals

import "sort"

// Interval is a half-open range [Start, End).
type Interval struct {
	Start, End int
}

// Len returns the length of the interval.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Select returns the candidates kept by a greedy left-to-right scan over the candidates
// ordered by start ascending and, for equal starts, by length descending. A candidate is
// kept only if it starts at or after the end of the previously kept one. Candidates with
// equal start and length keep their input order.
//
// The input slice is not modified.
func Select[T any](candidates []T, span func(T) Interval) []T {
	if len(candidates) == 0 {
		return nil
	}
	sorted := make([]T, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := span(sorted[i]), span(sorted[j])
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Len() > b.Len()
	})

	var kept []T
	lastEnd := -1
	for _, c := range sorted {
		iv := span(c)
		if iv.Len() <= 0 {
			continue
		}
		if iv.Start >= lastEnd {
			kept = append(kept, c)
			lastEnd = iv.End
		}
	}
	return kept
}
