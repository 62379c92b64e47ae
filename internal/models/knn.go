package models

import (
	"irisops/internal/neighbors"
)

// KNN predicts by majority vote of the K closest training rows. Vote ties go
// to the smaller class id.
type KNN struct {
	K        int
	NClasses int
	X        [][]float64
	Y        []int
}

func NewKNN(k int) *KNN {
	if k <= 0 {
		k = 5
	}
	return &KNN{K: k}
}

func (m *KNN) Name() string { return "KNN" }

func (m *KNN) Fit(X [][]float64, y []int) error {
	nClasses, err := checkFit(X, y)
	if err != nil {
		return err
	}
	m.NClasses = nClasses
	m.X = X
	m.Y = y
	return nil
}

func (m *KNN) Predict(X [][]float64) []int {
	ps := m.PredictProba(X)
	out := make([]int, len(ps))
	for i := range ps {
		out[i] = argmax(ps[i])
	}
	return out
}

func (m *KNN) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, q := range X {
		nbrs := neighbors.NearestTo(m.X, q, m.K, neighbors.NoExclude)
		p := make([]float64, max(m.NClasses, 1))
		if len(nbrs) == 0 {
			out[i] = uniform(len(p))
			continue
		}
		for _, n := range nbrs {
			p[m.Y[n.Index]]++
		}
		for c := range p {
			p[c] /= float64(len(nbrs))
		}
		out[i] = p
	}
	return out
}
