package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/data"
	"irisops/internal/metrics"
)

func TestTrain(t *testing.T) {
	p := filepath.Join(t.TempDir(), "iris.csv")
	require.NoError(t, data.GenerateSyntheticIris(150, 1, p))

	for _, algo := range []string{"dt", "rf", "knn"} {
		t.Run(algo, func(t *testing.T) {
			b, ts, err := train(options{dataPath: p, algo: algo, maxDepth: 3, minSamples: 2, estimators: 10, k: 5, testSize: 0.4, seed: 1})
			require.NoError(t, err)
			assert.Equal(t, 90, b.Metadata.TrainRows)
			assert.Equal(t, 60, b.Metadata.TestRows)
			assert.Len(t, ts.X, 60)
			assert.Equal(t, []string{data.Setosa, data.Versicolor, data.Virginica}, b.Encoder.Classes)
			assert.Equal(t, ts.Labels, b.Encoder.Decode(ts.Y))
			assert.Greater(t, metrics.Accuracy(ts.Y, b.Model.Predict(ts.X)), 0.8)
		})
	}
}

func TestTrainErrors(t *testing.T) {
	p := filepath.Join(t.TempDir(), "iris.csv")
	require.NoError(t, data.GenerateSyntheticIris(30, 1, p))

	_, _, err := train(options{dataPath: p, algo: "lgbm", testSize: 0.4})
	assert.Error(t, err)
	_, _, err = train(options{dataPath: p, algo: "dt", testSize: 1.5})
	assert.Error(t, err)
	_, _, err = train(options{dataPath: filepath.Join(t.TempDir(), "none.csv"), algo: "dt", testSize: 0.4})
	assert.Error(t, err)
}
