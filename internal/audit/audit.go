// Package audit flags rows whose label disagrees with most of their nearest
// neighbors in feature space, a cheap signal for mislabeled or poisoned data.
//
// For every row i the k nearest other rows are found (Euclidean distance,
// ties broken by ascending row index). Row i is suspicious when the share of
// those neighbors carrying a different label is at least the threshold.
package audit

import (
	"math"

	"github.com/pkg/errors"

	"irisops/internal/data"
	"irisops/internal/neighbors"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrSchemaMismatch   = data.ErrSchemaMismatch
)

const (
	DefaultK         = 5
	DefaultThreshold = 0.5
)

type Options struct {
	K         int
	Threshold float64
}

func DefaultOptions() Options {
	return Options{K: DefaultK, Threshold: DefaultThreshold}
}

// Finding describes one flagged row.
type Finding struct {
	Index      int     `json:"index"`
	Label      string  `json:"label"`
	Mismatched int     `json:"mismatched"`
	Ratio      float64 `json:"ratio"`
	Neighbors  []int   `json:"neighbors"`
	Majority   string  `json:"majority_label"`
}

type Report struct {
	Total      int       `json:"total_rows"`
	K          int       `json:"k"`
	Threshold  float64   `json:"threshold"`
	Suspicious []int     `json:"suspicious_indices"`
	Findings   []Finding `json:"findings"`
}

func (r *Report) Flagged() int { return len(r.Suspicious) }

// ValidateOptions checks the parameters that do not depend on the data size.
func ValidateOptions(o Options) error {
	if o.K < 1 {
		return errors.Wrapf(ErrInvalidParameter, "k=%d: need at least one neighbor", o.K)
	}
	if math.IsNaN(o.Threshold) || o.Threshold < 0 || o.Threshold > 1 {
		return errors.Wrapf(ErrInvalidParameter, "threshold=%v: must lie in [0, 1]", o.Threshold)
	}
	return nil
}

// Validate checks o against a dataset of n rows.
func Validate(n int, o Options) error {
	if err := ValidateOptions(o); err != nil {
		return err
	}
	if o.K >= n {
		return errors.Wrapf(ErrInvalidParameter, "k=%d: must be smaller than the row count %d", o.K, n)
	}
	return nil
}

// FindSuspicious audits labels against the feature matrix X. Shape problems
// are reported as ErrSchemaMismatch and bad k/threshold as ErrInvalidParameter,
// both before any distance is computed.
func FindSuspicious(X [][]float64, labels []string, o Options) (*Report, error) {
	if err := checkShape(X, labels); err != nil {
		return nil, err
	}
	if err := Validate(len(X), o); err != nil {
		return nil, err
	}

	rep := &Report{Total: len(X), K: o.K, Threshold: o.Threshold, Suspicious: []int{}, Findings: []Finding{}}
	for i := range X {
		nbrs := neighbors.Nearest(X, i, o.K)
		ids := make([]int, len(nbrs))
		mismatched := 0
		for j, n := range nbrs {
			ids[j] = n.Index
			if labels[n.Index] != labels[i] {
				mismatched++
			}
		}
		if !flagged(mismatched, o.K, o.Threshold) {
			continue
		}
		rep.Suspicious = append(rep.Suspicious, i)
		rep.Findings = append(rep.Findings, Finding{
			Index:      i,
			Label:      labels[i],
			Mismatched: mismatched,
			Ratio:      float64(mismatched) / float64(o.K),
			Neighbors:  ids,
			Majority:   majority(labels, ids),
		})
	}
	return rep, nil
}

// FindSuspiciousInTable uses every column except labelColumn as a feature.
func FindSuspiciousInTable(t *data.Table, labelColumn string, o Options) (*Report, error) {
	X, labels, _, err := t.Matrix(labelColumn)
	if err != nil {
		return nil, err
	}
	return FindSuspicious(X, labels, o)
}

// FindSuspiciousInFile loads a CSV and audits it.
func FindSuspiciousInFile(path, labelColumn string, o Options) (*Report, error) {
	t, err := data.ReadTable(path)
	if err != nil {
		return nil, err
	}
	return FindSuspiciousInTable(t, labelColumn, o)
}

func flagged(mismatched, k int, threshold float64) bool {
	return float64(mismatched)/float64(k) >= threshold
}

func checkShape(X [][]float64, labels []string) error {
	if len(X) != len(labels) {
		return errors.Wrapf(ErrSchemaMismatch, "%d feature rows but %d labels", len(X), len(labels))
	}
	if len(X) == 0 {
		return nil
	}
	d := len(X[0])
	if d == 0 {
		return errors.Wrap(ErrSchemaMismatch, "rows have no feature columns")
	}
	for i, x := range X {
		if len(x) != d {
			return errors.Wrapf(ErrSchemaMismatch, "row %d has %d features, expected %d", i, len(x), d)
		}
		for j, v := range x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrSchemaMismatch, "row %d feature %d is %v, expected a finite number", i, j, v)
			}
		}
	}
	return nil
}

// majority returns the most frequent label among ids; on a tie the label that
// reached the top count first wins.
func majority(labels []string, ids []int) string {
	counts := map[string]int{}
	best, bestN := "", 0
	for _, id := range ids {
		l := labels[id]
		counts[l]++
		if counts[l] > bestN {
			best, bestN = l, counts[l]
		}
	}
	return best
}
