package drift

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/bias"
	"irisops/internal/data"
)

func TestIdenticalDataHasNoDrift(t *testing.T) {
	ds := data.SyntheticIris(150, 1)
	rep, err := Compare(ds, ds.Clone())
	require.NoError(t, err)
	assert.Len(t, rep.Columns, 5)
	for _, c := range rep.Columns {
		assert.False(t, c.Drifted, c.String())
		assert.InDelta(t, 1.0, c.PValue, 1e-9, c.Column)
	}
	assert.False(t, rep.DatasetDrift)
	assert.Equal(t, 0.0, rep.DriftedShare)
}

func shift(ds *data.Dataset, cols int) *data.Dataset {
	out := ds.Clone()
	for i := range out.Flowers {
		f := &out.Flowers[i]
		for j, p := range []*float64{&f.SepalLength, &f.SepalWidth, &f.PetalLength, &f.PetalWidth} {
			if j < cols {
				*p += 5
			}
		}
	}
	return out
}

func TestShiftedColumnsDrift(t *testing.T) {
	ds := data.SyntheticIris(150, 2)

	rep, err := Compare(ds, shift(ds, 2))
	require.NoError(t, err)
	assert.True(t, rep.Columns[0].Drifted)
	assert.True(t, rep.Columns[1].Drifted)
	assert.False(t, rep.Columns[2].Drifted)
	assert.InDelta(t, 1.0, rep.Columns[0].Statistic, 1e-12)
	assert.Equal(t, 2, rep.DriftedCount)
	assert.False(t, rep.DatasetDrift)

	rep, err = Compare(ds, shift(ds, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, rep.DriftedCount)
	assert.True(t, rep.DatasetDrift)
}

func TestCategoricalDrift(t *testing.T) {
	ref := data.SyntheticIris(300, 3)
	cur := ref.Clone()
	for i := range cur.Flowers {
		if i%2 == 0 {
			cur.Flowers[i].Species = FakeSpecies
		}
	}
	rep, err := Compare(ref, cur)
	require.NoError(t, err)
	species := rep.Columns[4]
	assert.Equal(t, data.LabelColumn, species.Column)
	assert.True(t, species.Drifted)
	assert.Equal(t, 150, species.Current.Counts[FakeSpecies])
}

func TestLocationIncludedWhenPresent(t *testing.T) {
	ref := bias.InduceBias(data.SyntheticIris(150, 4), 42)
	rep, err := Compare(ref, ref.Clone())
	require.NoError(t, err)
	assert.Len(t, rep.Columns, 6)
	assert.Equal(t, data.LocationColumn, rep.Columns[5].Column)
}

func TestInjectNoise(t *testing.T) {
	ds := &data.Dataset{Flowers: []data.Flower{
		{SepalLength: 7.7, SepalWidth: 3, PetalLength: 6.7, PetalWidth: 2.2, Species: data.Virginica},
		{SepalLength: 5.0, SepalWidth: 3, PetalLength: 1.4, PetalWidth: 0.2, Species: data.Setosa},
		{SepalLength: 7.9, SepalWidth: 3.8, PetalLength: 6.4, PetalWidth: 2.0, Species: data.Virginica},
	}}
	out := InjectNoise(ds)
	require.Len(t, out.Flowers, 5)
	assert.Len(t, ds.Flowers, 3)
	for _, f := range out.Flowers[3:] {
		assert.Equal(t, 15.0, f.SepalLength)
		assert.Equal(t, 100.0, f.PetalLength)
		assert.Equal(t, FakeSpecies, f.Species)
	}
	assert.Equal(t, 3.8, out.Flowers[4].SepalWidth)
}

func TestKSPValue(t *testing.T) {
	assert.Equal(t, 1.0, ksPValue(0, 100, 100))
	assert.Less(t, ksPValue(0.5, 100, 100), 1e-6)
	mid := ksPValue(0.15, 100, 100)
	assert.Greater(t, mid, 0.1)
	assert.Less(t, mid, 0.4)
}

func TestEmpty(t *testing.T) {
	_, err := Compare(&data.Dataset{}, data.SyntheticIris(3, 1))
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestZeroSummaryFieldsAreSerialized(t *testing.T) {
	b, err := json.Marshal(numericSummary([]float64{0, 0, 0, 0}))
	require.NoError(t, err)
	for _, k := range []string{"mean", "std", "min", "q25", "median", "q75", "max"} {
		assert.Contains(t, string(b), `"`+k+`":0`)
	}
}
