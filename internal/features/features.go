package features

import (
	"sort"

	"github.com/pkg/errors"

	"irisops/internal/data"
)

var FeatureNames = data.FeatureColumns

func Vectorize(f data.Flower) []float64 {
	return []float64{f.SepalLength, f.SepalWidth, f.PetalLength, f.PetalWidth}
}

func Matrix(ds *data.Dataset) [][]float64 {
	X := make([][]float64, len(ds.Flowers))
	for i, f := range ds.Flowers {
		X[i] = Vectorize(f)
	}
	return X
}

// LabelEncoder maps species names to dense class ids in alphabetical order.
// Exported fields so it travels inside gob bundles.
type LabelEncoder struct {
	Classes []string
}

func (le *LabelEncoder) Fit(labels []string) {
	seen := map[string]bool{}
	le.Classes = le.Classes[:0]
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			le.Classes = append(le.Classes, l)
		}
	}
	sort.Strings(le.Classes)
}

func (le *LabelEncoder) Index(label string) (int, bool) {
	i := sort.SearchStrings(le.Classes, label)
	if i < len(le.Classes) && le.Classes[i] == label {
		return i, true
	}
	return -1, false
}

func (le *LabelEncoder) Encode(labels []string) ([]int, error) {
	out := make([]int, len(labels))
	for i, l := range labels {
		c, ok := le.Index(l)
		if !ok {
			return nil, errors.Errorf("row %d: unknown label %q, known %v", i, l, le.Classes)
		}
		out[i] = c
	}
	return out, nil
}

func (le *LabelEncoder) Decode(ids []int) []string {
	out := make([]string, len(ids))
	for i, c := range ids {
		if c >= 0 && c < len(le.Classes) {
			out[i] = le.Classes[c]
		}
	}
	return out
}

// XY builds the training matrix and encoded labels, fitting le on the way.
func XY(ds *data.Dataset, le *LabelEncoder) ([][]float64, []int, error) {
	labels := ds.Labels()
	le.Fit(labels)
	y, err := le.Encode(labels)
	if err != nil {
		return nil, nil, err
	}
	return Matrix(ds), y, nil
}
