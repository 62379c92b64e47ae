package artifacts

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"irisops/internal/features"
	"irisops/internal/models"
)

// Bundle is everything needed to score new flowers.
type Bundle struct {
	Model    models.Model
	Encoder  features.LabelEncoder
	Features []string
	Metadata Metadata
}

type Metadata struct {
	Algorithm  string
	Dataset    string
	TrainRows  int
	TestRows   int
	Seed       int64
	TrainedAt  time.Time
	Parameters map[string]string
}

// TestSet is the held-out split written next to the model.
type TestSet struct {
	X      [][]float64
	Y      []int
	Labels []string
}

func (b *Bundle) Predict(X [][]float64) []string {
	return b.Encoder.Decode(b.Model.Predict(X))
}

func SaveBundle(path string, b *Bundle) error { return saveGob(path, b) }

func LoadBundle(path string) (*Bundle, error) {
	var b Bundle
	if err := loadGob(path, &b); err != nil {
		return nil, err
	}
	if b.Model == nil {
		return nil, errors.Errorf("bundle %s has no model", path)
	}
	return &b, nil
}

func SaveTestSet(path string, ts *TestSet) error { return saveGob(path, ts) }

func LoadTestSet(path string) (*TestSet, error) {
	var ts TestSet
	if err := loadGob(path, &ts); err != nil {
		return nil, err
	}
	return &ts, nil
}

func saveGob(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return errors.Wrapf(err, "encode %s", path)
	}
	return f.Close()
}

func loadGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
