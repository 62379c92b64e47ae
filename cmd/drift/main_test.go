package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/data"
	"irisops/internal/drift"
)

func TestRunWithInjectedNoise(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "iris.csv")
	ds := data.SyntheticIris(150, 1)
	ds.Flowers[0].SepalLength = 7.9
	require.NoError(t, data.WriteCSV(ref, ds))

	out := filepath.Join(dir, "artifacts")
	rep, err := run(ref, "", out)
	require.NoError(t, err)
	assert.Greater(t, rep.CurrentRows, rep.ReferenceRows)
	assert.Equal(t, data.LabelColumn, rep.Columns[4].Column)
	assert.Greater(t, rep.Columns[4].Current.Counts[drift.FakeSpecies], 0)

	for _, f := range []string{"drift_report.html", "drift_report.json"} {
		_, err := os.Stat(filepath.Join(out, f))
		assert.NoError(t, err, f)
	}
}

func TestRunExplicitCurrent(t *testing.T) {
	dir := t.TempDir()
	ref := filepath.Join(dir, "ref.csv")
	cur := filepath.Join(dir, "cur.csv")
	require.NoError(t, data.GenerateSyntheticIris(90, 1, ref))
	require.NoError(t, data.GenerateSyntheticIris(90, 1, cur))

	rep, err := run(ref, cur, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.DriftedCount)
	assert.False(t, rep.DatasetDrift)
}

func TestRunMissingReference(t *testing.T) {
	_, err := run(filepath.Join(t.TempDir(), "none.csv"), "", t.TempDir())
	assert.Error(t, err)
}
