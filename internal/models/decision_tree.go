package models

import (
	"math"
	"math/rand"
	"sort"
)

type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	Proba     []float64
	Samples   int
}

// DecisionTree is a CART classifier using Gini impurity. Splits go left when
// x[Feature] <= Threshold. MaxDepth <= 0 means unlimited depth.
type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	MaxFeatures        int
	Seed               int64
	NClasses           int
	NFeatures          int
	Root               *DTNode
	Importances        []float64

	rng *rand.Rand
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 3, MinSamplesSplit: 2, MaxThresholdsPerFe: 64, Seed: 1}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
	nClasses, err := checkFit(X, y)
	if err != nil {
		return err
	}
	if dt.NClasses < nClasses {
		dt.NClasses = nClasses
	}
	dt.NFeatures = len(X[0])
	dt.Importances = make([]float64, dt.NFeatures)
	dt.rng = rand.New(rand.NewSource(dt.Seed))
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.Root = dt.build(X, y, idx, 0)

	total := 0.0
	for _, v := range dt.Importances {
		total += v
	}
	if total > 0 {
		for i := range dt.Importances {
			dt.Importances[i] /= total
		}
	}
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
	out := make([]int, len(X))
	for i := range X {
		out[i] = argmax(dt.predictProbaOne(X[i]))
	}
	return out
}

func (dt *DecisionTree) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i := range X {
		p := dt.predictProbaOne(X[i])
		out[i] = append([]float64(nil), p...)
	}
	return out
}

// FeatureImportances returns the normalized total impurity decrease per feature.
func (dt *DecisionTree) FeatureImportances() []float64 {
	return append([]float64(nil), dt.Importances...)
}

// Depth returns the number of split levels below the root.
func (dt *DecisionTree) Depth() int { return depth(dt.Root) }

func depth(n *DTNode) int {
	if n == nil || n.IsLeaf {
		return 0
	}
	l, r := depth(n.Left), depth(n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}

func (dt *DecisionTree) predictProbaOne(x []float64) []float64 {
	n := dt.Root
	if n == nil {
		return uniform(max(dt.NClasses, 1))
	}
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return uniform(max(dt.NClasses, 1))
		}
	}
	return n.Proba
}

func (dt *DecisionTree) build(X [][]float64, y []int, idx []int, d int) *DTNode {
	counts := classCounts(y, idx, dt.NClasses)
	node := &DTNode{Proba: normalize(counts, len(idx)), Samples: len(idx)}
	imp := gini(counts, len(idx))
	if len(idx) < dt.MinSamplesSplit || (dt.MaxDepth > 0 && d >= dt.MaxDepth) || imp == 0 {
		node.IsLeaf = true
		return node
	}

	bestFeature := -1
	bestThr := 0.0
	bestImp := math.MaxFloat64
	var leftIdxBest, rightIdxBest []int

	for _, f := range pickFeatures(dt.NFeatures, dt.MaxFeatures, dt.rng) {
		for _, thr := range candidateThresholds(X, idx, f, dt.MaxThresholdsPerFe) {
			lIdx, rIdx := splitIdx(X, idx, f, thr)
			if len(lIdx) == 0 || len(rIdx) == 0 {
				continue
			}
			s := splitImpurity(y, lIdx, rIdx, dt.NClasses)
			if s < bestImp {
				bestImp = s
				bestFeature = f
				bestThr = thr
				leftIdxBest = lIdx
				rightIdxBest = rIdx
			}
		}
	}

	if bestFeature == -1 || bestImp >= imp {
		node.IsLeaf = true
		return node
	}
	dt.Importances[bestFeature] += float64(len(idx)) * (imp - bestImp)
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = dt.build(X, y, leftIdxBest, d+1)
	node.Right = dt.build(X, y, rightIdxBest, d+1)
	return node
}

func classCounts(y []int, idx []int, nClasses int) []float64 {
	c := make([]float64, nClasses)
	for _, i := range idx {
		c[y[i]]++
	}
	return c
}

func normalize(counts []float64, n int) []float64 {
	out := make([]float64, len(counts))
	if n == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = c / float64(n)
	}
	return out
}

func gini(counts []float64, n int) float64 {
	if n == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := c / float64(n)
		g -= p * p
	}
	return g
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

func splitImpurity(y []int, lIdx, rIdx []int, nClasses int) float64 {
	wl := float64(len(lIdx))
	wr := float64(len(rIdx))
	n := wl + wr
	return (wl/n)*gini(classCounts(y, lIdx, nClasses), len(lIdx)) +
		(wr/n)*gini(classCounts(y, rIdx, nClasses), len(rIdx))
}

// candidateThresholds returns midpoints between consecutive distinct values of
// feature f. When there are more than maxC of them an evenly spaced subset is
// kept.
func candidateThresholds(X [][]float64, idx []int, f int, maxC int) []float64 {
	values := make([]float64, len(idx))
	for j, i := range idx {
		values[j] = X[i][f]
	}
	sort.Float64s(values)
	mids := make([]float64, 0, len(values))
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			mids = append(mids, (values[i]+values[i-1])/2)
		}
	}
	if maxC <= 0 || len(mids) <= maxC {
		return mids
	}
	out := make([]float64, 0, maxC)
	step := float64(len(mids)) / float64(maxC)
	for i := 0; i < maxC; i++ {
		out = append(out, mids[int(float64(i)*step)])
	}
	return out
}

func pickFeatures(nFeats int, maxFeats int, rng *rand.Rand) []int {
	if maxFeats <= 0 || maxFeats >= nFeats || rng == nil {
		out := make([]int, nFeats)
		for i := 0; i < nFeats; i++ {
			out[i] = i
		}
		return out
	}
	out := rng.Perm(nFeats)[:maxFeats]
	sort.Ints(out)
	return out
}
