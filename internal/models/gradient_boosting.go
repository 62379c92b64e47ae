package models

import (
	"math"
	"sort"
)

// Stump is a depth-one regression tree. Feature -1 marks a round where no
// split was found for that class; it contributes nothing.
type Stump struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
	Gain      float64
}

func (s Stump) value(x []float64) float64 {
	if s.Feature < 0 {
		return 0
	}
	if x[s.Feature] <= s.Threshold {
		return s.LeftVal
	}
	return s.RightVal
}

// GradientBoosting is multiclass boosting with softmax outputs: every round
// fits one stump per class to the residual (one-hot target minus current
// probability) and adds it with LearningRate shrinkage.
type GradientBoosting struct {
	NEstimators        int
	LearningRate       float64
	MinSamples         int
	MaxThresholdsPerFe int
	NClasses           int
	NFeatures          int
	Init               []float64
	Rounds             [][]Stump
}

func NewGradientBoosting() *GradientBoosting {
	return &GradientBoosting{NEstimators: 50, LearningRate: 0.1, MinSamples: 1, MaxThresholdsPerFe: 32}
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

func (gb *GradientBoosting) Fit(X [][]float64, y []int) error {
	nClasses, err := checkFit(X, y)
	if err != nil {
		return err
	}
	n := len(X)
	gb.NClasses = nClasses
	gb.NFeatures = len(X[0])
	gb.Init = make([]float64, nClasses)
	for _, c := range y {
		gb.Init[c]++
	}
	for c := range gb.Init {
		p := math.Min(math.Max(gb.Init[c]/float64(n), 1e-3), 1-1e-3)
		gb.Init[c] = math.Log(p)
	}

	F := make([][]float64, n)
	for i := range F {
		F[i] = append([]float64(nil), gb.Init...)
	}
	thresholds := make([][]float64, gb.NFeatures)
	for j := range thresholds {
		thresholds[j] = gbCandidateThresholds(X, j, gb.MaxThresholdsPerFe)
	}

	gb.Rounds = gb.Rounds[:0]
	r := make([]float64, n)
	for m := 0; m < gb.NEstimators; m++ {
		round := make([]Stump, nClasses)
		found := false
		P := make([][]float64, n)
		for i := range F {
			P[i] = softmax(F[i])
		}
		for c := 0; c < nClasses; c++ {
			for i := 0; i < n; i++ {
				target := 0.0
				if y[i] == c {
					target = 1
				}
				r[i] = target - P[i][c]
			}
			round[c] = fitStump(X, r, thresholds, gb.MinSamples)
			if round[c].Feature >= 0 {
				found = true
			}
		}
		if !found {
			break
		}
		gb.Rounds = append(gb.Rounds, round)
		for i := 0; i < n; i++ {
			for c, s := range round {
				F[i][c] += gb.LearningRate * s.value(X[i])
			}
		}
	}
	return nil
}

func (gb *GradientBoosting) scores(x []float64) []float64 {
	f := append([]float64(nil), gb.Init...)
	for _, round := range gb.Rounds {
		for c, s := range round {
			f[c] += gb.LearningRate * s.value(x)
		}
	}
	return f
}

func (gb *GradientBoosting) PredictProba(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, x := range X {
		if gb.NClasses == 0 {
			out[i] = uniform(1)
			continue
		}
		out[i] = softmax(gb.scores(x))
	}
	return out
}

func (gb *GradientBoosting) Predict(X [][]float64) []int {
	p := gb.PredictProba(X)
	out := make([]int, len(p))
	for i := range p {
		out[i] = argmax(p[i])
	}
	return out
}

// FeatureImportances sums the squared-error reduction of every stump per
// feature, normalized to 1.
func (gb *GradientBoosting) FeatureImportances() []float64 {
	imp := make([]float64, gb.NFeatures)
	total := 0.0
	for _, round := range gb.Rounds {
		for _, s := range round {
			if s.Feature >= 0 {
				imp[s.Feature] += s.Gain
				total += s.Gain
			}
		}
	}
	if total > 0 {
		for j := range imp {
			imp[j] /= total
		}
	}
	return imp
}

func fitStump(X [][]float64, r []float64, thresholds [][]float64, minSamples int) Stump {
	if minSamples < 1 {
		minSamples = 1
	}
	var sum, sq float64
	for _, v := range r {
		sum += v
		sq += v * v
	}
	n := float64(len(r))
	baseSSE := sq - sum*sum/n

	best := Stump{Feature: -1}
	bestSSE := baseSSE
	for j, cands := range thresholds {
		for _, thr := range cands {
			var leftSum, leftCount float64
			for i := range X {
				if X[i][j] <= thr {
					leftSum += r[i]
					leftCount++
				}
			}
			rightSum, rightCount := sum-leftSum, n-leftCount
			if int(leftCount) < minSamples || int(rightCount) < minSamples {
				continue
			}
			sse := sq - leftSum*leftSum/leftCount - rightSum*rightSum/rightCount
			if sse < bestSSE-1e-12 {
				bestSSE = sse
				best = Stump{Feature: j, Threshold: thr, LeftVal: leftSum / leftCount, RightVal: rightSum / rightCount}
			}
		}
	}
	if best.Feature >= 0 {
		best.Gain = baseSSE - bestSSE
	}
	return best
}

func softmax(f []float64) []float64 {
	hi := f[0]
	for _, v := range f[1:] {
		hi = math.Max(hi, v)
	}
	out := make([]float64, len(f))
	total := 0.0
	for c, v := range f {
		out[c] = math.Exp(v - hi)
		total += out[c]
	}
	for c := range out {
		out[c] /= total
	}
	return out
}

func gbCandidateThresholds(X [][]float64, j int, nCand int) []float64 {
	if nCand <= 0 {
		nCand = 16
	}
	n := len(X)
	vals := make([]float64, n)
	for i := range X {
		vals[i] = X[i][j]
	}
	sort.Float64s(vals)
	out := make([]float64, 0, nCand)
	for k := 1; k < nCand; k++ {
		idx := int(math.Round(float64(k) / float64(nCand) * float64(n-1)))
		if idx <= 0 || idx >= n {
			continue
		}
		if thr := vals[idx]; len(out) == 0 || thr != out[len(out)-1] {
			out = append(out, thr)
		}
	}
	return out
}
