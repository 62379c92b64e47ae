package models

import (
	"encoding/gob"

	"github.com/pkg/errors"
)

// Model is a multiclass classifier over dense features. Labels are class ids
// 0..NClasses-1; PredictProba returns one probability row per sample.
type Model interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) [][]float64
	Name() string
}

// Importancer is implemented by models that can rank features.
type Importancer interface {
	FeatureImportances() []float64
}

var ErrEmptyTrainingSet = errors.New("empty training set")

func init() {
	gob.Register(&DecisionTree{})
	gob.Register(&RandomForest{})
	gob.Register(&KNN{})
	gob.Register(&GradientBoosting{})
}

// New builds an untrained model by algorithm name: dt, rf, bagging, gb or knn.
// For gb, estimators is the number of boosting rounds.
func New(algo string, maxDepth, minSamples, estimators, k int, seed int64) (Model, error) {
	switch algo {
	case "dt", "":
		dt := NewDecisionTree()
		dt.MaxDepth = maxDepth
		dt.MinSamplesSplit = minSamples
		dt.Seed = seed
		return dt, nil
	case "rf":
		rf := NewRandomForest()
		rf.NEstimators = estimators
		rf.MaxDepth = maxDepth
		rf.MinSamples = minSamples
		rf.Seed = seed
		return rf, nil
	case "bagging":
		rf := NewRandomForest()
		rf.NEstimators = estimators
		rf.MaxDepth = maxDepth
		rf.MinSamples = minSamples
		rf.MaxFeatures = -1
		rf.Seed = seed
		return rf, nil
	case "gb":
		gb := NewGradientBoosting()
		gb.NEstimators = estimators
		return gb, nil
	case "knn":
		return NewKNN(k), nil
	default:
		return nil, errors.Errorf("unknown algorithm %q, expected dt|rf|bagging|gb|knn", algo)
	}
}

func checkFit(X [][]float64, y []int) (nClasses int, err error) {
	if len(X) == 0 {
		return 0, ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return 0, errors.Errorf("%d rows but %d labels", len(X), len(y))
	}
	for i, c := range y {
		if c < 0 {
			return 0, errors.Errorf("row %d: negative class id %d", i, c)
		}
		if c+1 > nClasses {
			nClasses = c + 1
		}
	}
	return nClasses, nil
}

func argmax(p []float64) int {
	best := 0
	for i := range p {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}
	return out
}
