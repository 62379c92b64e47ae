package data

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func ReadCSV(path string) (*Dataset, error) {
	t, err := ReadTable(path)
	if err != nil {
		return nil, err
	}
	ds, err := FromTable(t)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return ds, nil
}

// FromTable requires the four measurement columns and species; location is
// optional. Extra columns are ignored.
func FromTable(t *Table) (*Dataset, error) {
	idx := make([]int, len(FeatureColumns))
	for i, c := range FeatureColumns {
		idx[i] = t.Column(c)
		if idx[i] < 0 {
			return nil, errors.Wrapf(ErrSchemaMismatch, "missing column %q, expected %v and %q", c, FeatureColumns, LabelColumn)
		}
	}
	li := t.Column(LabelColumn)
	if li < 0 {
		return nil, errors.Wrapf(ErrSchemaMismatch, "missing label column %q", LabelColumn)
	}
	loc := t.Column(LocationColumn)

	ds := &Dataset{Flowers: make([]Flower, 0, len(t.Records)), HasLocation: loc >= 0}
	for r, rec := range t.Records {
		var v [4]float64
		for i, c := range idx {
			x, err := parseCell(rec[c])
			if err != nil {
				return nil, errors.Wrapf(ErrSchemaMismatch, "row %d column %q: %v", r, FeatureColumns[i], err)
			}
			v[i] = x
		}
		sp := strings.TrimSpace(rec[li])
		if sp == "" {
			return nil, errors.Wrapf(ErrSchemaMismatch, "row %d: empty %q", r, LabelColumn)
		}
		f := Flower{SepalLength: v[0], SepalWidth: v[1], PetalLength: v[2], PetalWidth: v[3], Species: sp}
		if loc >= 0 {
			l, err := strconv.Atoi(strings.TrimSpace(rec[loc]))
			if err != nil {
				return nil, errors.Wrapf(ErrSchemaMismatch, "row %d column %q: non-integer value %q", r, LocationColumn, rec[loc])
			}
			f.Location = l
		}
		ds.Flowers = append(ds.Flowers, f)
	}
	return ds, nil
}

func WriteCSV(path string, ds *Dataset) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "mkdir %s", dir)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := Encode(f, ds); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

func Encode(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	header := append([]string{}, FeatureColumns...)
	header = append(header, LabelColumn)
	if ds.HasLocation {
		header = append(header, LocationColumn)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, fl := range ds.Flowers {
		rec := []string{
			formatFloat(fl.SepalLength),
			formatFloat(fl.SepalWidth),
			formatFloat(fl.PetalLength),
			formatFloat(fl.PetalWidth),
			fl.Species,
		}
		if ds.HasLocation {
			rec = append(rec, strconv.Itoa(fl.Location))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
