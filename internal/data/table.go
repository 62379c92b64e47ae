package data

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrSchemaMismatch reports input whose columns or cell values do not have the
// expected shape.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Table is a CSV file kept as raw strings.
type Table struct {
	Header  []string
	Records [][]string
}

func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	t, err := ParseTable(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return t, nil
}

// ParseTable reads a header row followed by records. Ragged rows are a schema
// mismatch rather than a CSV syntax error.
func ParseTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrSchemaMismatch, "empty file: expected a header row")
	}
	hdr := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		hdr[i] = strings.TrimSpace(h)
	}
	t := &Table{Header: hdr, Records: rows[1:]}
	for i, rec := range t.Records {
		if len(rec) != len(hdr) {
			return nil, errors.Wrapf(ErrSchemaMismatch, "row %d has %d fields, header has %d", i, len(rec), len(hdr))
		}
	}
	return t, nil
}

// Column returns the index of name in the header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Matrix splits the table into a numeric feature matrix made of every column
// except labelColumn, and the label column itself. All validation happens
// here, before any caller touches the numbers.
func (t *Table) Matrix(labelColumn string) (X [][]float64, labels []string, names []string, err error) {
	li := t.Column(labelColumn)
	if li < 0 {
		return nil, nil, nil, errors.Wrapf(ErrSchemaMismatch, "label column %q not found in header %v", labelColumn, t.Header)
	}
	if len(t.Header) < 2 {
		return nil, nil, nil, errors.Wrapf(ErrSchemaMismatch, "no feature columns besides %q", labelColumn)
	}
	for i, h := range t.Header {
		if i != li {
			names = append(names, h)
		}
	}
	X = make([][]float64, 0, len(t.Records))
	labels = make([]string, 0, len(t.Records))
	for r, rec := range t.Records {
		row := make([]float64, 0, len(names))
		for c, s := range rec {
			if c == li {
				continue
			}
			v, err := parseCell(s)
			if err != nil {
				return nil, nil, nil, errors.Wrapf(ErrSchemaMismatch, "row %d column %q: %v", r, t.Header[c], err)
			}
			row = append(row, v)
		}
		lbl := strings.TrimSpace(rec[li])
		if lbl == "" {
			return nil, nil, nil, errors.Wrapf(ErrSchemaMismatch, "row %d: empty %q", r, labelColumn)
		}
		X = append(X, row)
		labels = append(labels, lbl)
	}
	return X, labels, names, nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value, expected a number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("non-numeric value %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.Errorf("non-finite value %q", s)
	}
	return v, nil
}
