package search

import "sort"

// Merge concatenates the per-kind lists in argument order and sorts the
// result by rank, best first. The sort is stable, so equal ranks keep each
// kind's own order and the kinds' relative order. No cap is applied.
func Merge(lists ...[]Result) []Result {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	out := make([]Result, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank > out[j].Rank })
	return out
}
