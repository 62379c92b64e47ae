package models

import (
	"math"
	"math/rand"
)

// RandomForest averages class probabilities over bootstrapped trees. With
// MaxFeatures < 0 every split sees all features, which is plain bagging;
// 0 picks sqrt(n_features).
type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	NClasses           int
	Trees              []*DecisionTree
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 30, MaxDepth: 6, MinSamples: 2, MaxThresholdsPerFe: 32, Seed: 1, Trees: []*DecisionTree{}}
}

func (rf *RandomForest) Name() string {
	if rf.MaxFeatures < 0 {
		return "Bagging"
	}
	return "RandomForest"
}

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	nClasses, err := checkFit(X, y)
	if err != nil {
		return err
	}
	rf.NClasses = nClasses
	if rf.NEstimators <= 0 {
		rf.NEstimators = 30
	}
	n := len(X)
	nFeats := len(X[0])
	maxFeatures := rf.MaxFeatures
	if maxFeatures == 0 {
		maxFeatures = int(math.Max(1, math.Min(float64(nFeats), math.Sqrt(float64(nFeats)))))
	}
	rng := rand.New(rand.NewSource(rf.Seed))
	rf.Trees = make([]*DecisionTree, 0, rf.NEstimators)
	for k := 0; k < rf.NEstimators; k++ {
		Xb := make([][]float64, n)
		yb := make([]int, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			Xb[i] = X[j]
			yb[i] = y[j]
		}
		dt := NewDecisionTree()
		dt.MaxDepth = rf.MaxDepth
		dt.MinSamplesSplit = rf.MinSamples
		dt.MaxThresholdsPerFe = rf.MaxThresholdsPerFe
		dt.MaxFeatures = max(maxFeatures, 0)
		dt.NClasses = nClasses
		dt.Seed = rng.Int63()
		if err := dt.Fit(Xb, yb); err != nil {
			return err
		}
		rf.Trees = append(rf.Trees, dt)
	}
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) []int {
	ps := rf.PredictProba(X)
	out := make([]int, len(ps))
	for i := range ps {
		out[i] = argmax(ps[i])
	}
	return out
}

func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
	n := len(X)
	out := make([][]float64, n)
	if len(rf.Trees) == 0 {
		for i := range out {
			out[i] = uniform(max(rf.NClasses, 1))
		}
		return out
	}
	for i := range out {
		out[i] = make([]float64, rf.NClasses)
	}
	for _, dt := range rf.Trees {
		p := dt.PredictProba(X)
		for i := 0; i < n; i++ {
			for c := range p[i] {
				out[i][c] += p[i][c]
			}
		}
	}
	m := float64(len(rf.Trees))
	for i := 0; i < n; i++ {
		for c := range out[i] {
			out[i][c] /= m
		}
	}
	return out
}

// FeatureImportances averages the per-tree importances.
func (rf *RandomForest) FeatureImportances() []float64 {
	if len(rf.Trees) == 0 {
		return nil
	}
	out := make([]float64, len(rf.Trees[0].Importances))
	for _, dt := range rf.Trees {
		for i, v := range dt.Importances {
			out[i] += v
		}
	}
	for i := range out {
		out[i] /= float64(len(rf.Trees))
	}
	return out
}
