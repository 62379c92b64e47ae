// Package drift compares a current dataset against a reference one column by
// column and decides whether the distribution has shifted.
//
// Numeric columns use the two-sample Kolmogorov-Smirnov test, categorical
// columns a chi-square test of homogeneity. A column drifts when its p-value
// falls below PValueThreshold; the dataset drifts when at least ShareThreshold
// of its columns do.
package drift

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"irisops/internal/data"
)

const (
	PValueThreshold = 0.05
	ShareThreshold  = 0.5
	FakeSpecies     = "fakeiris"
)

var ErrEmpty = errors.New("dataset is empty")

type Summary struct {
	Count  int            `json:"count"`
	Mean   float64        `json:"mean"`
	Std    float64        `json:"std"`
	Min    float64        `json:"min"`
	Q25    float64        `json:"q25"`
	Median float64        `json:"median"`
	Q75    float64        `json:"q75"`
	Max    float64        `json:"max"`
	Counts map[string]int `json:"counts,omitempty"`
}

type ColumnDrift struct {
	Column    string  `json:"column"`
	Type      string  `json:"type"`
	Test      string  `json:"test"`
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Drifted   bool    `json:"drift_detected"`
	Reference Summary `json:"reference"`
	Current   Summary `json:"current"`
}

type Report struct {
	ReferenceRows int           `json:"reference_rows"`
	CurrentRows   int           `json:"current_rows"`
	Columns       []ColumnDrift `json:"columns"`
	DriftedCount  int           `json:"drifted_columns"`
	DriftedShare  float64       `json:"share_of_drifted_columns"`
	DatasetDrift  bool          `json:"dataset_drift"`
}

// Compare runs the per-column tests. The location column is included only
// when both datasets carry it.
func Compare(ref, cur *data.Dataset) (*Report, error) {
	if ref.Len() == 0 || cur.Len() == 0 {
		return nil, errors.Wrapf(ErrEmpty, "reference=%d current=%d rows", ref.Len(), cur.Len())
	}
	rep := &Report{ReferenceRows: ref.Len(), CurrentRows: cur.Len()}
	for j, name := range data.FeatureColumns {
		rep.Columns = append(rep.Columns, numericDrift(name, column(ref, j), column(cur, j)))
	}
	rep.Columns = append(rep.Columns, categoricalDrift(data.LabelColumn, ref.Labels(), cur.Labels()))
	if ref.HasLocation && cur.HasLocation {
		rep.Columns = append(rep.Columns, categoricalDrift(data.LocationColumn, itoa(ref.Locations()), itoa(cur.Locations())))
	}
	for _, c := range rep.Columns {
		if c.Drifted {
			rep.DriftedCount++
		}
	}
	rep.DriftedShare = float64(rep.DriftedCount) / float64(len(rep.Columns))
	rep.DatasetDrift = rep.DriftedShare >= ShareThreshold
	return rep, nil
}

// InjectNoise appends a corrupted copy of every flower with sepal_length > 7.5:
// sepal_length 15, petal_length 100 and an unseen species.
func InjectNoise(ds *data.Dataset) *data.Dataset {
	out := ds.Clone()
	for _, f := range ds.Flowers {
		if f.SepalLength > 7.5 {
			f.SepalLength = 15.0
			f.PetalLength = 100.0
			f.Species = FakeSpecies
			out.Flowers = append(out.Flowers, f)
		}
	}
	return out
}

func column(ds *data.Dataset, j int) []float64 {
	out := make([]float64, ds.Len())
	for i, f := range ds.Flowers {
		out[i] = [4]float64{f.SepalLength, f.SepalWidth, f.PetalLength, f.PetalWidth}[j]
	}
	return out
}

func itoa(v []int) []string {
	out := make([]string, len(v))
	for i, x := range v {
		out[i] = strconv.Itoa(x)
	}
	return out
}

func numericDrift(name string, ref, cur []float64) ColumnDrift {
	r := append([]float64(nil), ref...)
	c := append([]float64(nil), cur...)
	sort.Float64s(r)
	sort.Float64s(c)
	d := stat.KolmogorovSmirnov(r, nil, c, nil)
	p := ksPValue(d, len(r), len(c))
	return ColumnDrift{
		Column:    name,
		Type:      "numerical",
		Test:      "K-S p_value",
		Statistic: d,
		PValue:    p,
		Drifted:   p < PValueThreshold,
		Reference: numericSummary(r),
		Current:   numericSummary(c),
	}
}

// ksPValue is the asymptotic two-sided Kolmogorov distribution tail with the
// Stephens small-sample correction.
func ksPValue(d float64, n, m int) float64 {
	en := math.Sqrt(float64(n) * float64(m) / float64(n+m))
	lambda := (en + 0.12 + 0.11/en) * d
	if lambda < 0.2 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := sign * math.Exp(-2*float64(j*j)*lambda*lambda)
		sum += term
		if math.Abs(term) < 1e-12 {
			break
		}
		sign = -sign
	}
	return math.Min(1, math.Max(0, 2*sum))
}

func numericSummary(sorted []float64) Summary {
	if len(sorted) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(sorted, nil)
	return Summary{
		Count:  len(sorted),
		Mean:   mean,
		Std:    std,
		Min:    floats.Min(sorted),
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    floats.Max(sorted),
	}
}

func categoricalDrift(name string, ref, cur []string) ColumnDrift {
	rc, cc := counts(ref), counts(cur)
	cats := make([]string, 0, len(rc)+len(cc))
	for k := range rc {
		cats = append(cats, k)
	}
	for k := range cc {
		if _, ok := rc[k]; !ok {
			cats = append(cats, k)
		}
	}
	sort.Strings(cats)

	out := ColumnDrift{
		Column:    name,
		Type:      "categorical",
		Test:      "chi-square p_value",
		PValue:    1,
		Reference: Summary{Count: len(ref), Counts: rc},
		Current:   Summary{Count: len(cur), Counts: cc},
	}
	if len(cats) < 2 {
		return out
	}
	n := float64(len(ref) + len(cur))
	obsR := make([]float64, len(cats))
	obsC := make([]float64, len(cats))
	expR := make([]float64, len(cats))
	expC := make([]float64, len(cats))
	for i, k := range cats {
		obsR[i] = float64(rc[k])
		obsC[i] = float64(cc[k])
		col := obsR[i] + obsC[i]
		expR[i] = col * float64(len(ref)) / n
		expC[i] = col * float64(len(cur)) / n
	}
	chi := stat.ChiSquare(obsR, expR) + stat.ChiSquare(obsC, expC)
	out.Statistic = chi
	out.PValue = distuv.ChiSquared{K: float64(len(cats) - 1)}.Survival(chi)
	out.Drifted = out.PValue < PValueThreshold
	return out
}

func counts(v []string) map[string]int {
	m := map[string]int{}
	for _, s := range v {
		m[s]++
	}
	return m
}

func (c ColumnDrift) String() string {
	state := "no drift"
	if c.Drifted {
		state = "DRIFT"
	}
	return fmt.Sprintf("%-14s %-12s %-20s stat=%.4f p=%.4g %s", c.Column, c.Type, c.Test, c.Statistic, c.PValue, state)
}
