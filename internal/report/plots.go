package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"irisops/internal/curve"
	"irisops/internal/metrics"
)

// ClassMetricsPNG draws precision, recall and F1 side by side for each class.
func ClassMetricsPNG(path string, rep metrics.Report) error {
	p := plot.New()
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1.05

	names := make([]string, len(rep.Classes))
	prec := make(plotter.Values, len(rep.Classes))
	rec := make(plotter.Values, len(rep.Classes))
	f1 := make(plotter.Values, len(rep.Classes))
	for i, c := range rep.Classes {
		names[i] = c.Class
		prec[i], rec[i], f1[i] = c.Precision, c.Recall, c.F1
	}

	w := vg.Points(14)
	series := []struct {
		label string
		vals  plotter.Values
	}{{"Precision", prec}, {"Recall", rec}, {"F1-Score", f1}}
	for i, s := range series {
		bars, err := plotter.NewBarChart(s.vals, w)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(i-1)
		p.Add(bars)
		p.Legend.Add(s.label, bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)
	p.Title.Text = fmt.Sprintf("Per-Class Metrics (accuracy %.3f, macro F1 %.3f)", rep.Accuracy, rep.MacroF1)
	return save(p, 8*vg.Inch, 4*vg.Inch, path)
}

type confusionGrid struct{ m [][]int }

func (g confusionGrid) Dims() (c, r int) { return len(g.m), len(g.m) }

// Rows are drawn top-down so the matrix reads like the printed one.
func (g confusionGrid) Z(c, r int) float64 { return float64(g.m[len(g.m)-1-r][c]) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }

// ConfusionPNG renders the confusion matrix as an annotated heat map.
func ConfusionPNG(path string, cm [][]int, classes []string) error {
	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Predicted label"
	p.Y.Label.Text = "True label"

	g := confusionGrid{m: cm}
	hm := plotter.NewHeatMap(g, palette.Heat(16, 1))
	if hm.Max == hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	n := len(cm)
	var xys plotter.XYs
	var labels []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(n - 1 - r)})
			labels = append(labels, fmt.Sprint(cm[r][c]))
		}
	}
	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(lbl)

	rev := make([]string, n)
	for i, c := range classes {
		rev[n-1-i] = c
	}
	p.NominalX(classes...)
	p.NominalY(rev...)
	return save(p, 5*vg.Inch, 5*vg.Inch, path)
}

// ImportancePNG plots one bar per feature.
func ImportancePNG(path string, names []string, importances []float64) error {
	p := plot.New()
	p.Title.Text = "Feature Importance"
	p.Y.Label.Text = "Impurity decrease"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(importances), vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return save(p, 6*vg.Inch, 4*vg.Inch, path)
}

// LearningCurvePNG draws train and test accuracy and macro F1 against the
// number of training rows.
func LearningCurvePNG(path string, pts []curve.Point) error {
	p := plot.New()
	p.Title.Text = "Learning Curve"
	p.X.Label.Text = "Training rows"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0
	p.Y.Max = 1

	xy := func(score func(curve.Point) float64) plotter.XYs {
		out := make(plotter.XYs, len(pts))
		for i, pt := range pts {
			out[i].X = float64(pt.Size)
			out[i].Y = score(pt)
		}
		return out
	}
	err := plotutil.AddLinePoints(p,
		"Train (Acc)", xy(func(pt curve.Point) float64 { return pt.TrainAcc }),
		"Test (Acc)", xy(func(pt curve.Point) float64 { return pt.TestAcc }),
		"Train (F1)", xy(func(pt curve.Point) float64 { return pt.TrainF1 }),
		"Test (F1)", xy(func(pt curve.Point) float64 { return pt.TestF1 }),
	)
	if err != nil {
		return err
	}
	p.Legend.Top = false
	return save(p, 8*vg.Inch, 4*vg.Inch, path)
}

func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return p.Save(w, h, path)
}
