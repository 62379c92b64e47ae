package fairness

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricFrame(t *testing.T) {
	yTrue := []string{"a", "b", "a", "b", "a", "b"}
	yPred := []string{"a", "a", "a", "b", "b", "b"}
	groups := []int{0, 0, 0, 1, 1, 1}

	f, err := MetricFrame(yTrue, yPred, groups, "a")
	require.NoError(t, err)
	require.Len(t, f.ByGroup, 2)
	assert.Equal(t, 6, f.Overall.Count)
	assert.InDelta(t, 4.0/6.0, f.Overall.Accuracy, 1e-12)
	assert.InDelta(t, 2.0/3.0, f.ByGroup[0].Accuracy, 1e-12)
	assert.InDelta(t, 1.0, f.ByGroup[0].SelectionRate, 1e-12)
	assert.InDelta(t, 0.0, f.ByGroup[1].SelectionRate, 1e-12)
}

func TestDemographicParity(t *testing.T) {
	yPred := []string{"a", "a", "b", "b", "a", "b", "b", "b"}
	groups := []int{0, 0, 0, 0, 1, 1, 1, 1}
	d, err := DemographicParityDifference(yPred, groups, "a")
	require.NoError(t, err)
	assert.InDelta(t, 0.25, d, 1e-12)

	same, err := DemographicParityDifference([]string{"a", "a"}, []int{0, 1}, "a")
	require.NoError(t, err)
	assert.Equal(t, 0.0, same)
}

func TestAssess(t *testing.T) {
	yTrue := []string{"x", "y", "z", "x", "y", "z"}
	yPred := []string{"x", "y", "z", "x", "x", "x"}
	groups := []int{0, 0, 0, 1, 1, 1}
	rep, err := Assess(yTrue, yPred, groups, []string{"x", "y", "z"}, "y")
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, rep.Parity["demographic_parity_difference_x"], 1e-12)
	assert.InDelta(t, 1.0/3.0, rep.Parity["demographic_parity_difference_y"], 1e-12)
	assert.InDelta(t, 2.0/3.0, rep.Accuracy, 1e-12)
}

func TestLengthMismatch(t *testing.T) {
	_, err := MetricFrame([]string{"a"}, []string{"a", "b"}, []int{0}, "a")
	assert.True(t, errors.Is(err, ErrLength))
}
