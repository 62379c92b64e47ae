package data

import (
	"math"
	"math/rand"
)

type classStats struct {
	species string
	mean    [4]float64
	std     [4]float64
}

// Per-class means and standard deviations of the Fisher Iris measurements.
var irisStats = []classStats{
	{Setosa, [4]float64{5.006, 3.428, 1.462, 0.246}, [4]float64{0.352, 0.379, 0.174, 0.105}},
	{Versicolor, [4]float64{5.936, 2.770, 4.260, 1.326}, [4]float64{0.516, 0.314, 0.470, 0.198}},
	{Virginica, [4]float64{6.588, 2.974, 5.552, 2.026}, [4]float64{0.636, 0.322, 0.552, 0.275}},
}

// SyntheticIris draws n flowers, balanced across the three species, from
// independent normals around the real class statistics. Values are rounded to
// one decimal like the original measurements.
func SyntheticIris(n int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &Dataset{Flowers: make([]Flower, 0, n)}
	for i := 0; i < n; i++ {
		cs := irisStats[i%len(irisStats)]
		var v [4]float64
		for j := range v {
			x := cs.mean[j] + rng.NormFloat64()*cs.std[j]
			v[j] = math.Max(0.1, math.Round(x*10)/10)
		}
		ds.Flowers = append(ds.Flowers, Flower{
			SepalLength: v[0],
			SepalWidth:  v[1],
			PetalLength: v[2],
			PetalWidth:  v[3],
			Species:     cs.species,
		})
	}
	return ds
}

func GenerateSyntheticIris(n int, seed int64, outPath string) error {
	return WriteCSV(outPath, SyntheticIris(n, seed))
}
