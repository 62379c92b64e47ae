package audit

import (
	"math"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/data"
)

// twoClusters builds 10 rows, five of class A near the origin and five of
// class B far away.
func twoClusters() ([][]float64, []string) {
	X := [][]float64{
		{0.0, 0.0}, {0.1, 0.0}, {0.0, 0.1}, {0.1, 0.1}, {0.05, 0.05},
		{10.0, 10.0}, {10.1, 10.0}, {10.0, 10.1}, {10.1, 10.1}, {10.05, 10.05},
	}
	y := []string{"A", "A", "A", "A", "A", "B", "B", "B", "B", "B"}
	return X, y
}

func TestSeparatedClassesNothingSuspicious(t *testing.T) {
	X, y := twoClusters()
	rep, err := FindSuspicious(X, y, Options{K: 3, Threshold: 0.5})
	require.NoError(t, err)
	assert.Empty(t, rep.Suspicious)
	assert.Equal(t, 10, rep.Total)
	assert.Equal(t, 0, rep.Flagged())
}

func TestSwappedLabelIsFlagged(t *testing.T) {
	X, y := twoClusters()
	y[7] = "A"
	rep, err := FindSuspicious(X, y, Options{K: 3, Threshold: 0.34})
	require.NoError(t, err)
	assert.Contains(t, rep.Suspicious, 7)

	var f Finding
	for _, x := range rep.Findings {
		if x.Index == 7 {
			f = x
		}
	}
	assert.Equal(t, 3, f.Mismatched)
	assert.Equal(t, 1.0, f.Ratio)
	assert.Equal(t, "B", f.Majority)
	assert.Equal(t, "A", f.Label)
}

func TestInvalidParameters(t *testing.T) {
	X, y := twoClusters()
	for name, o := range map[string]Options{
		"k zero":         {K: 0, Threshold: 0.5},
		"k negative":     {K: -2, Threshold: 0.5},
		"k equals n":     {K: 10, Threshold: 0.5},
		"k above n":      {K: 11, Threshold: 0.5},
		"threshold low":  {K: 3, Threshold: -0.1},
		"threshold high": {K: 3, Threshold: 1.01},
		"threshold nan":  {K: 3, Threshold: math.NaN()},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FindSuspicious(X, y, o)
			assert.True(t, errors.Is(err, ErrInvalidParameter), "got %v", err)
		})
	}
}

func TestErrorMessagesCarryValues(t *testing.T) {
	X, y := twoClusters()
	_, err := FindSuspicious(X, y, Options{K: 12, Threshold: 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "k=12")
	assert.Contains(t, err.Error(), "10")
}

func TestSchemaMismatch(t *testing.T) {
	_, err := FindSuspicious([][]float64{{1, 2}, {1}}, []string{"a", "b"}, Options{K: 1, Threshold: 0.5})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	_, err = FindSuspicious([][]float64{{1}, {2}}, []string{"a"}, Options{K: 1, Threshold: 0.5})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	_, err = FindSuspicious([][]float64{{1}, {math.NaN()}}, []string{"a", "b"}, Options{K: 1, Threshold: 0.5})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	_, err = FindSuspicious([][]float64{{1, 0}, {math.Inf(1), 0}, {math.Inf(-1), 5}}, []string{"a", "b", "b"}, Options{K: 1, Threshold: 0.5})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	tb, err := data.ParseTable(strings.NewReader("x,y,species\n1,0,A\n2,0,A\n3,1,A\ninf,0,B\n4,1,B\n5,1,B\n+Inf,5,B\n"))
	require.NoError(t, err)
	_, err = FindSuspiciousInTable(tb, "species", Options{K: 2, Threshold: 0.5})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
	assert.Contains(t, err.Error(), "row 3")
}

func TestSchemaCheckedBeforeParameters(t *testing.T) {
	tb, err := data.ParseTable(strings.NewReader("a,b\n1,2\n3,4\n"))
	require.NoError(t, err)
	_, err = FindSuspiciousInTable(tb, "species", Options{K: 0, Threshold: 7})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))

	tb, err = data.ParseTable(strings.NewReader("a,b,species\n1,x,A\n3,4,B\n"))
	require.NoError(t, err)
	_, err = FindSuspiciousInTable(tb, "species", Options{K: 1, Threshold: 0.5})
	assert.True(t, errors.Is(err, ErrSchemaMismatch))
}

func randomData(seed int64, n int) ([][]float64, []string) {
	rng := rand.New(rand.NewSource(seed))
	classes := []string{"x", "y", "z"}
	X := make([][]float64, n)
	y := make([]string, n)
	for i := range X {
		X[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
		y[i] = classes[rng.Intn(len(classes))]
	}
	return X, y
}

func TestIndicesInRangeAndUnique(t *testing.T) {
	X, y := randomData(1, 60)
	for _, k := range []int{1, 3, 5, 10, 59} {
		for _, thr := range []float64{0, 0.2, 0.5, 0.8, 1} {
			rep, err := FindSuspicious(X, y, Options{K: k, Threshold: thr})
			require.NoError(t, err)
			seen := map[int]bool{}
			prev := -1
			for _, idx := range rep.Suspicious {
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, len(X))
				assert.False(t, seen[idx])
				assert.Greater(t, idx, prev)
				seen[idx] = true
				prev = idx
			}
			assert.Equal(t, len(rep.Suspicious), len(rep.Findings))
		}
	}
}

func TestThresholdMonotonic(t *testing.T) {
	X, y := randomData(2, 80)
	thresholds := []float64{0, 0.1, 0.2, 0.25, 0.4, 0.5, 0.6, 0.75, 0.9, 1}
	for _, k := range []int{1, 4, 7} {
		var prev map[int]bool
		for _, thr := range thresholds {
			rep, err := FindSuspicious(X, y, Options{K: k, Threshold: thr})
			require.NoError(t, err)
			cur := map[int]bool{}
			for _, i := range rep.Suspicious {
				cur[i] = true
				if prev != nil {
					assert.True(t, prev[i], "k=%d thr=%v row %d appeared when threshold rose", k, thr, i)
				}
			}
			prev = cur
		}
	}
}

func TestNotMonotonicInK(t *testing.T) {
	// Row 0 (label A) has one B right next to it and two A a bit further out:
	// with k=1 it is fully outvoted, with k=3 only one in three disagrees.
	X := [][]float64{{0}, {0.1}, {1}, {1.1}, {50}, {50.1}}
	y := []string{"A", "B", "A", "A", "B", "B"}

	rep1, err := FindSuspicious(X, y, Options{K: 1, Threshold: 0.5})
	require.NoError(t, err)
	rep3, err := FindSuspicious(X, y, Options{K: 3, Threshold: 0.5})
	require.NoError(t, err)
	assert.Contains(t, rep1.Suspicious, 0)
	assert.NotContains(t, rep3.Suspicious, 0)
}

func TestZeroThresholdFlagsEveryDisagreement(t *testing.T) {
	X, y := randomData(3, 40)
	rep, err := FindSuspicious(X, y, Options{K: 4, Threshold: 0})
	require.NoError(t, err)
	flaggedSet := map[int]bool{}
	for _, i := range rep.Suspicious {
		flaggedSet[i] = true
	}
	strict, err := FindSuspicious(X, y, Options{K: 4, Threshold: 0.25})
	require.NoError(t, err)
	for _, i := range strict.Suspicious {
		assert.True(t, flaggedSet[i])
	}
	// a ratio of 0 still satisfies ratio >= 0
	assert.Equal(t, len(X), rep.Flagged())
}

func TestFlaggedAboveOneNeverTrue(t *testing.T) {
	for k := 1; k <= 6; k++ {
		for m := 0; m <= k; m++ {
			assert.False(t, flagged(m, k, 1.0000001))
			assert.Equal(t, m == k, flagged(m, k, 1))
		}
	}
}

func TestTieBreakIsStable(t *testing.T) {
	// row 1 is equidistant from rows 0 and 2; k=1 must pick row 0
	X := [][]float64{{0}, {1}, {2}}
	y := []string{"A", "B", "B"}
	rep, err := FindSuspicious(X, y, Options{K: 1, Threshold: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, rep.Suspicious)
	assert.Equal(t, []int{1}, rep.Findings[0].Neighbors)
	assert.Equal(t, []int{0}, rep.Findings[1].Neighbors)
}

func TestFindSuspiciousInFile(t *testing.T) {
	ds := data.SyntheticIris(60, 5)
	ds.Flowers[0].Species = data.Virginica
	path := filepath.Join(t.TempDir(), "iris.csv")
	require.NoError(t, data.WriteCSV(path, ds))

	rep, err := FindSuspiciousInFile(path, data.LabelColumn, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 60, rep.Total)
	assert.Contains(t, rep.Suspicious, 0)

	_, err = FindSuspiciousInFile(filepath.Join(t.TempDir(), "missing.csv"), data.LabelColumn, DefaultOptions())
	assert.Error(t, err)
}
