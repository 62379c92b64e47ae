// Package poison corrupts a dataset by flipping labels, to measure how
// training and the label audit react to noisy data.
package poison

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"

	"irisops/internal/data"
)

var (
	ErrInvalidLevel  = errors.New("poison level must be between 0.0 and 1.0")
	ErrTooFewClasses = errors.New("cannot flip labels with less than two unique classes")
)

type Result struct {
	Rows    int
	Flipped []int
	// From holds the original label of each flipped row, keyed by row index.
	From map[int]string
}

// FlipLabels returns a copy of ds where int(N*level) rows, chosen without
// replacement, carry a uniformly chosen different label. The input is not
// modified. A level too small to select any row returns an unchanged copy.
func FlipLabels(ds *data.Dataset, level float64, rng *rand.Rand) (*data.Dataset, Result, error) {
	res := Result{Rows: ds.Len(), From: map[int]string{}}
	if !(level >= 0 && level <= 1) {
		return nil, res, errors.Wrapf(ErrInvalidLevel, "got %v", level)
	}
	classes := ds.Classes()
	if len(classes) < 2 {
		return nil, res, errors.Wrapf(ErrTooFewClasses, "found %v", classes)
	}
	out := ds.Clone()
	n := int(float64(ds.Len()) * level)
	if n == 0 {
		return out, res, nil
	}

	picked := rng.Perm(ds.Len())[:n]
	sort.Ints(picked)
	for _, i := range picked {
		orig := out.Flowers[i].Species
		others := make([]string, 0, len(classes)-1)
		for _, c := range classes {
			if c != orig {
				others = append(others, c)
			}
		}
		out.Flowers[i].Species = others[rng.Intn(len(others))]
		res.From[i] = orig
	}
	res.Flipped = picked
	return out, res, nil
}
