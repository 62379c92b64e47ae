package bias

import (
	"math/rand"

	"irisops/internal/data"
)

// Skew is the probability that a flower lands in its species' favored
// location: 1 for Virginica, 0 for every other species.
const Skew = 0.8

// InduceBias returns a copy of ds with a location column correlated with
// species, for exercising fairness metrics.
func InduceBias(ds *data.Dataset, seed int64) *data.Dataset {
	rng := rand.New(rand.NewSource(seed))
	out := ds.Clone()
	out.HasLocation = true
	for i := range out.Flowers {
		favored := 0
		if out.Flowers[i].Species == data.Virginica {
			favored = 1
		}
		loc := favored
		if rng.Float64() >= Skew {
			loc = 1 - favored
		}
		out.Flowers[i].Location = loc
	}
	return out
}
