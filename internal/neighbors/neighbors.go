// Package neighbors answers brute-force k-nearest-neighbor queries over a
// dense feature matrix.
//
// Distances are Euclidean. Equidistant candidates are ordered by ascending row
// index, so results never depend on sort internals.
package neighbors

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// NoExclude disables self-exclusion in NearestTo.
const NoExclude = -1

type Neighbor struct {
	Index    int
	Distance float64
}

// Nearest returns the k rows of X closest to row i, excluding row i itself.
// Exact duplicates of row i at other indices are regular candidates. Fewer
// than k neighbors are returned when X is too small.
func Nearest(X [][]float64, i, k int) []Neighbor {
	return NearestTo(X, X[i], k, i)
}

// NearestTo returns the k rows of X closest to q, skipping row exclude.
func NearestTo(X [][]float64, q []float64, k, exclude int) []Neighbor {
	if k <= 0 {
		return nil
	}
	cand := make([]Neighbor, 0, len(X))
	for j, x := range X {
		if j == exclude {
			continue
		}
		cand = append(cand, Neighbor{Index: j, Distance: floats.Distance(q, x, 2)})
	}
	sort.Slice(cand, func(a, b int) bool {
		if cand[a].Distance != cand[b].Distance {
			return cand[a].Distance < cand[b].Distance
		}
		return cand[a].Index < cand[b].Index
	})
	if k < len(cand) {
		cand = cand[:k]
	}
	return cand
}
