package poison

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/audit"
	"irisops/internal/data"
	"irisops/internal/features"
)

func TestFlipLabels(t *testing.T) {
	ds := data.SyntheticIris(150, 1)
	out, res, err := FlipLabels(ds, 0.1, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Len(t, res.Flipped, 15)

	changed := 0
	for i := range ds.Flowers {
		if ds.Flowers[i].Species != out.Flowers[i].Species {
			changed++
			assert.Equal(t, ds.Flowers[i].Species, res.From[i])
		}
		assert.Equal(t, ds.Flowers[i].PetalLength, out.Flowers[i].PetalLength)
	}
	assert.Equal(t, 15, changed)
}

func TestFlipLabelsLowLevelIsNoop(t *testing.T) {
	ds := data.SyntheticIris(9, 1)
	out, res, err := FlipLabels(ds, 0.05, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Empty(t, res.Flipped)
	assert.Equal(t, ds, out)
}

func TestFlipLabelsErrors(t *testing.T) {
	ds := data.SyntheticIris(9, 1)
	for _, lvl := range []float64{-0.1, 1.5, math.NaN()} {
		_, _, err := FlipLabels(ds, lvl, rand.New(rand.NewSource(1)))
		assert.True(t, errors.Is(err, ErrInvalidLevel))
	}

	one := &data.Dataset{Flowers: []data.Flower{{Species: "a"}, {Species: "a"}}}
	_, _, err := FlipLabels(one, 0.5, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, ErrTooFewClasses))
}

func TestAuditFindsMostFlippedRows(t *testing.T) {
	ds := data.SyntheticIris(150, 9)
	out, res, err := FlipLabels(ds, 0.05, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	rep, err := audit.FindSuspicious(features.Matrix(out), out.Labels(), audit.DefaultOptions())
	require.NoError(t, err)
	found := 0
	for _, i := range res.Flipped {
		for _, s := range rep.Suspicious {
			if s == i {
				found++
			}
		}
	}
	assert.GreaterOrEqual(t, float64(found)/float64(len(res.Flipped)), 0.5)
}
