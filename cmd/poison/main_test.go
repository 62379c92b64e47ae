package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irisops/internal/data"
	"irisops/internal/poison"
)

func TestPoisonFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "iris.csv")
	out := filepath.Join(dir, "poisoned", "iris.csv")
	require.NoError(t, data.GenerateSyntheticIris(150, 1, in))

	var buf bytes.Buffer
	res, err := poisonFile(&buf, in, out, 0.1, 7)
	require.NoError(t, err)
	assert.Len(t, res.Flipped, 15)
	assert.Contains(t, buf.String(), "Flipping labels for 15 of 150 rows (10.00%)...")
	assert.Contains(t, buf.String(), "saved to "+out)

	orig, err := data.ReadCSV(in)
	require.NoError(t, err)
	got, err := data.ReadCSV(out)
	require.NoError(t, err)
	changed := 0
	for i := range got.Flowers {
		if got.Flowers[i].Species != orig.Flowers[i].Species {
			changed++
		}
	}
	assert.Equal(t, 15, changed)
}

func TestPoisonFileTooLow(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "iris.csv")
	require.NoError(t, data.GenerateSyntheticIris(30, 1, in))

	var buf bytes.Buffer
	res, err := poisonFile(&buf, in, filepath.Join(dir, "out.csv"), 0.01, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Flipped)
	assert.Contains(t, buf.String(), "Warning: Poison level 1% is too low")
}

func TestPoisonFileZeroLevel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "iris.csv")
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, data.GenerateSyntheticIris(30, 1, in))

	var buf bytes.Buffer
	res, err := poisonFile(&buf, in, out, 0, 1)
	require.NoError(t, err)
	assert.Empty(t, res.Flipped)
	assert.NotContains(t, buf.String(), "Warning")
	assert.NotContains(t, buf.String(), "Flipping")
	assert.Contains(t, buf.String(), "saved to "+out)
}

func TestPoisonFileBadLevel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "iris.csv")
	require.NoError(t, data.GenerateSyntheticIris(30, 1, in))
	_, err := poisonFile(&bytes.Buffer{}, in, filepath.Join(dir, "out.csv"), 1.5, 1)
	assert.True(t, errors.Is(err, poison.ErrInvalidLevel))
}
