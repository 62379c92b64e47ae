// Package curve computes learning curves: train and test scores of a model
// refitted on growing prefixes of a shuffled training set.
package curve

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"irisops/internal/metrics"
	"irisops/internal/models"
)

type Point struct {
	Size     int     `json:"size"`
	TrainAcc float64 `json:"train_acc"`
	TestAcc  float64 `json:"test_acc"`
	TrainF1  float64 `json:"train_f1"`
	TestF1   float64 `json:"test_f1"`
}

// Sizes returns strictly increasing training sizes from min up to total,
// spaced geometrically when useLog is set. The last size is always total.
func Sizes(total, points, min int, useLog bool) []int {
	if total <= 0 {
		return nil
	}
	if points <= 1 {
		points = 2
	}
	if min < 10 {
		min = 10
	}
	if min > total {
		min = int(math.Max(10, float64(total)/2))
	}
	sizes := make([]int, 0, points)
	if useLog {
		ratio := math.Pow(float64(total)/float64(min), 1.0/float64(points-1))
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)*math.Pow(ratio, float64(i)))))
		}
	} else {
		step := float64(total-min) / float64(points-1)
		for i := 0; i < points; i++ {
			sizes = append(sizes, int(math.Round(float64(min)+float64(i)*step)))
		}
	}
	cleaned := make([]int, 0, len(sizes))
	last := 0
	for _, s := range sizes {
		if s <= last {
			s = last + 1
		}
		if s > total {
			s = total
		}
		if s != last {
			cleaned = append(cleaned, s)
			last = s
		}
	}
	cleaned[len(cleaned)-1] = total
	return cleaned
}

// Compute fits a fresh model from build on the first s rows of a seeded
// shuffle of the training set for every s in sizes.
func Compute(build func() (models.Model, error), Xtrain [][]float64, ytrain []int, Xtest [][]float64, ytest []int, classes []string, sizes []int, seed int64) ([]Point, error) {
	perm := rand.New(rand.NewSource(seed)).Perm(len(Xtrain))
	X := make([][]float64, len(Xtrain))
	y := make([]int, len(ytrain))
	for i, j := range perm {
		X[i], y[i] = Xtrain[j], ytrain[j]
	}

	pts := make([]Point, 0, len(sizes))
	for _, s := range sizes {
		if s < 1 || s > len(X) {
			return nil, errors.Errorf("curve size %d outside [1, %d]", s, len(X))
		}
		m, err := build()
		if err != nil {
			return nil, err
		}
		if err := m.Fit(X[:s], y[:s]); err != nil {
			return nil, errors.Wrapf(err, "fit on %d rows", s)
		}
		tr := metrics.Classification(y[:s], m.Predict(X[:s]), classes)
		te := metrics.Classification(ytest, m.Predict(Xtest), classes)
		pts = append(pts, Point{Size: s, TrainAcc: tr.Accuracy, TestAcc: te.Accuracy, TrainF1: tr.MacroF1, TestF1: te.MacroF1})
	}
	return pts, nil
}

func WriteCSV(path string, pts []Point) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"size", "train_acc", "test_acc", "train_f1", "test_f1"}); err != nil {
		return err
	}
	for _, p := range pts {
		rec := []string{strconv.Itoa(p.Size), fmt.Sprintf("%.6f", p.TrainAcc), fmt.Sprintf("%.6f", p.TestAcc),
			fmt.Sprintf("%.6f", p.TrainF1), fmt.Sprintf("%.6f", p.TestF1)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
