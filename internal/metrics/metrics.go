package metrics

import (
	"fmt"
	"strings"
)

func Accuracy(y, p []int) float64 {
	if len(y) == 0 {
		return 0
	}
	c := 0
	for i := range y {
		if y[i] == p[i] {
			c++
		}
	}
	return float64(c) / float64(len(y))
}

// ConfusionMatrix has true classes as rows and predicted classes as columns.
func ConfusionMatrix(y, p []int, nClasses int) [][]int {
	cm := make([][]int, nClasses)
	for i := range cm {
		cm[i] = make([]int, nClasses)
	}
	for i := range y {
		if y[i] < nClasses && p[i] < nClasses && y[i] >= 0 && p[i] >= 0 {
			cm[y[i]][p[i]]++
		}
	}
	return cm
}

type ClassMetrics struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

type Report struct {
	Accuracy       float64        `json:"accuracy"`
	MacroPrecision float64        `json:"macro_precision"`
	MacroRecall    float64        `json:"macro_recall"`
	MacroF1        float64        `json:"macro_f1"`
	WeightedPrec   float64        `json:"weighted_precision"`
	WeightedRecall float64        `json:"weighted_recall"`
	WeightedF1     float64        `json:"weighted_f1"`
	Classes        []ClassMetrics `json:"classes"`
	Confusion      [][]int        `json:"confusion_matrix"`
	Total          int            `json:"total"`
}

// Classification computes per-class precision/recall/F1 one-vs-rest plus
// their unweighted (macro) and support-weighted means. Undefined ratios are 0.
func Classification(y, p []int, classes []string) Report {
	k := len(classes)
	cm := ConfusionMatrix(y, p, k)
	rep := Report{Accuracy: Accuracy(y, p), Confusion: cm, Total: len(y)}
	for c := 0; c < k; c++ {
		tp := cm[c][c]
		var fp, fn int
		for j := 0; j < k; j++ {
			if j == c {
				continue
			}
			fp += cm[j][c]
			fn += cm[c][j]
		}
		prec, rec, f1 := prf1(tp, fp, fn)
		cls := ClassMetrics{Class: classes[c], Precision: prec, Recall: rec, F1: f1, Support: tp + fn}
		rep.Classes = append(rep.Classes, cls)
		rep.MacroPrecision += prec
		rep.MacroRecall += rec
		rep.MacroF1 += f1
		rep.WeightedPrec += prec * float64(cls.Support)
		rep.WeightedRecall += rec * float64(cls.Support)
		rep.WeightedF1 += f1 * float64(cls.Support)
	}
	if k > 0 {
		rep.MacroPrecision /= float64(k)
		rep.MacroRecall /= float64(k)
		rep.MacroF1 /= float64(k)
	}
	if len(y) > 0 {
		rep.WeightedPrec /= float64(len(y))
		rep.WeightedRecall /= float64(len(y))
		rep.WeightedF1 /= float64(len(y))
	}
	return rep
}

func prf1(tp, fp, fn int) (precision, recall, f1 float64) {
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return
}

// Text renders the report as a fixed-width table.
func (r Report) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %10s %10s %10s %10s\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%-14s %10.3f %10.3f %10.3f %10d\n", c.Class, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-14s %10s %10s %10.3f %10d\n", "accuracy", "", "", r.Accuracy, r.Total)
	fmt.Fprintf(&b, "%-14s %10.3f %10.3f %10.3f %10d\n", "macro avg", r.MacroPrecision, r.MacroRecall, r.MacroF1, r.Total)
	fmt.Fprintf(&b, "%-14s %10.3f %10.3f %10.3f %10d\n", "weighted avg", r.WeightedPrec, r.WeightedRecall, r.WeightedF1, r.Total)
	return b.String()
}

// Summary is the short metrics block printed by the evaluator.
func (r Report) Summary() string {
	return fmt.Sprintf("Accuracy:  %.3f\nPrecision: %.3f\nRecall:    %.3f\nF1 Score:  %.3f\n",
		r.Accuracy, r.MacroPrecision, r.MacroRecall, r.MacroF1)
}
