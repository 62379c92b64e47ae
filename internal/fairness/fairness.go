// Package fairness compares model behaviour across groups of a sensitive
// attribute.
package fairness

import (
	"sort"

	"github.com/pkg/errors"
)

var ErrLength = errors.New("inputs have different lengths")

type GroupMetrics struct {
	Group         int     `json:"group"`
	Count         int     `json:"count"`
	Accuracy      float64 `json:"accuracy"`
	SelectionRate float64 `json:"selection_rate"`
}

// Frame holds metrics overall and per group. SelectionRate is the share of
// predictions equal to the Selected class.
type Frame struct {
	Selected string         `json:"selected_class"`
	Overall  GroupMetrics   `json:"overall"`
	ByGroup  []GroupMetrics `json:"by_group"`
}

// Difference returns max minus min of a per-group metric.
func (f Frame) Difference(metric func(GroupMetrics) float64) float64 {
	if len(f.ByGroup) == 0 {
		return 0
	}
	lo, hi := metric(f.ByGroup[0]), metric(f.ByGroup[0])
	for _, g := range f.ByGroup[1:] {
		v := metric(g)
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}

func MetricFrame(yTrue, yPred []string, groups []int, selected string) (Frame, error) {
	if len(yTrue) != len(yPred) || len(yTrue) != len(groups) {
		return Frame{}, errors.Wrapf(ErrLength, "y_true=%d y_pred=%d groups=%d", len(yTrue), len(yPred), len(groups))
	}
	type acc struct{ n, correct, selected int }
	all := acc{}
	per := map[int]*acc{}
	for i := range yTrue {
		a := per[groups[i]]
		if a == nil {
			a = &acc{}
			per[groups[i]] = a
		}
		for _, x := range []*acc{&all, a} {
			x.n++
			if yTrue[i] == yPred[i] {
				x.correct++
			}
			if yPred[i] == selected {
				x.selected++
			}
		}
	}
	mk := func(g int, a acc) GroupMetrics {
		m := GroupMetrics{Group: g, Count: a.n}
		if a.n > 0 {
			m.Accuracy = float64(a.correct) / float64(a.n)
			m.SelectionRate = float64(a.selected) / float64(a.n)
		}
		return m
	}
	f := Frame{Selected: selected, Overall: mk(-1, all)}
	keys := make([]int, 0, len(per))
	for g := range per {
		keys = append(keys, g)
	}
	sort.Ints(keys)
	for _, g := range keys {
		f.ByGroup = append(f.ByGroup, mk(g, *per[g]))
	}
	return f, nil
}

// DemographicParityDifference is the spread of selection rates for class
// across groups, treating every prediction of class as a positive.
func DemographicParityDifference(yPred []string, groups []int, class string) (float64, error) {
	f, err := MetricFrame(yPred, yPred, groups, class)
	if err != nil {
		return 0, err
	}
	return f.Difference(func(g GroupMetrics) float64 { return g.SelectionRate }), nil
}

type Report struct {
	Frame    Frame              `json:"metric_frame"`
	Parity   map[string]float64 `json:"demographic_parity_difference"`
	Accuracy float64            `json:"accuracy_difference"`
}

// Assess computes the grouped metric frame for selected and the demographic
// parity difference of every class.
func Assess(yTrue, yPred []string, groups []int, classes []string, selected string) (*Report, error) {
	f, err := MetricFrame(yTrue, yPred, groups, selected)
	if err != nil {
		return nil, err
	}
	rep := &Report{
		Frame:    f,
		Parity:   map[string]float64{},
		Accuracy: f.Difference(func(g GroupMetrics) float64 { return g.Accuracy }),
	}
	for _, c := range classes {
		d, err := DemographicParityDifference(yPred, groups, c)
		if err != nil {
			return nil, err
		}
		rep.Parity["demographic_parity_difference_"+c] = d
	}
	return rep, nil
}
