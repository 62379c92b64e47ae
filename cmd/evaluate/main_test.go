package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/artifacts"
	"irisops/internal/data"
	"irisops/internal/features"
	"irisops/internal/models"
	"irisops/internal/split"
)

func fixture(t *testing.T, algo string) (*artifacts.Bundle, *artifacts.TestSet) {
	t.Helper()
	var le features.LabelEncoder
	X, y, err := features.XY(data.SyntheticIris(150, 3), &le)
	require.NoError(t, err)
	trainIdx, testIdx, err := split.Stratified(y, 0.4, 1)
	require.NoError(t, err)
	Xtr, ytr := split.Take(X, y, trainIdx)
	Xte, yte := split.Take(X, y, testIdx)
	m, err := models.New(algo, 3, 2, 5, 5, 1)
	require.NoError(t, err)
	require.NoError(t, m.Fit(Xtr, ytr))
	return &artifacts.Bundle{Model: m, Encoder: le, Features: features.FeatureNames},
		&artifacts.TestSet{X: Xte, Y: yte, Labels: le.Decode(yte)}
}

func TestEvaluateWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	b, ts := fixture(t, "dt")
	rep, err := evaluate(b, ts, dir)
	require.NoError(t, err)
	assert.Equal(t, 60, rep.Total)
	assert.Greater(t, rep.Accuracy, 0.8)

	for _, f := range []string{metricsTxt, reportTxt, metricsJSON, dashboardPNG, confusionPNG, importancePNG} {
		st, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, f)
		assert.Greater(t, st.Size(), int64(0), f)
	}
	txt, err := os.ReadFile(filepath.Join(dir, metricsTxt))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(txt), "Accuracy:  "))
	cr, err := os.ReadFile(filepath.Join(dir, reportTxt))
	require.NoError(t, err)
	assert.Contains(t, string(cr), "Classification Report:")
	assert.Contains(t, string(cr), data.Virginica)
}

func TestEvaluateKNNHasNoImportance(t *testing.T) {
	dir := t.TempDir()
	b, ts := fixture(t, "knn")
	_, err := evaluate(b, ts, dir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, importancePNG))
	assert.True(t, os.IsNotExist(err))
}
