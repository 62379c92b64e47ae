package report

import (
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"irisops/internal/drift"
)

var driftTmpl = template.Must(template.New("drift").Funcs(template.FuncMap{
	"pct": func(f float64) float64 { return f * 100 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Data Drift Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f3f3f3; }
td.name { text-align: left; }
.drift { color: #b00020; font-weight: bold; }
.ok { color: #1b5e20; }
</style>
</head>
<body>
<h1>Data Drift Report</h1>
<p>Reference rows: {{.ReferenceRows}}, current rows: {{.CurrentRows}}.</p>
<p>Drifted columns: {{.DriftedCount}} of {{len .Columns}} ({{printf "%.1f" (pct .DriftedShare)}}%).
Dataset drift: {{if .DatasetDrift}}<span class="drift">detected</span>{{else}}<span class="ok">not detected</span>{{end}}</p>
<table>
<tr><th>Column</th><th>Type</th><th>Test</th><th>Statistic</th><th>p-value</th><th>Drift</th>
<th>Ref mean</th><th>Cur mean</th><th>Ref std</th><th>Cur std</th></tr>
{{range .Columns}}<tr>
<td class="name">{{.Column}}</td><td>{{.Type}}</td><td>{{.Test}}</td>
<td>{{printf "%.4f" .Statistic}}</td><td>{{printf "%.4g" .PValue}}</td>
<td>{{if .Drifted}}<span class="drift">yes</span>{{else}}<span class="ok">no</span>{{end}}</td>
{{if eq .Type "numerical"}}<td>{{printf "%.3f" .Reference.Mean}}</td><td>{{printf "%.3f" .Current.Mean}}</td>
<td>{{printf "%.3f" .Reference.Std}}</td><td>{{printf "%.3f" .Current.Std}}</td>
{{else}}<td colspan="4">{{range $k, $v := .Current.Counts}}{{$k}}: {{$v}} {{end}}</td>{{end}}
</tr>
{{end}}</table>
</body>
</html>
`))

func RenderDriftHTML(w io.Writer, rep *drift.Report) error {
	return driftTmpl.Execute(w, rep)
}

func DriftHTML(path string, rep *drift.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "mkdir %s", filepath.Dir(path))
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	if err := RenderDriftHTML(f, rep); err != nil {
		return errors.Wrapf(err, "render %s", path)
	}
	return f.Close()
}
