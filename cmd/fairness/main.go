package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"irisops/internal/artifacts"
	"irisops/internal/config"
	"irisops/internal/data"
	"irisops/internal/fairness"
	"irisops/internal/features"
	"irisops/internal/report"
	"irisops/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	dataPath := flag.String("data-path", cfg.Paths.Data, "CSV with a location column")
	modelPath := flag.String("model", cfg.Paths.Model, "Model bundle")
	selected := flag.String("selected", data.Versicolor, "Class whose selection rate is reported per group")
	out := flag.String("out", filepath.Join(cfg.Paths.Artifacts, "fairness_report.json"), "Report path")
	flag.Parse()

	fmt.Println("--- Checking Model Fairness ---")
	ds, err := data.ReadCSV(*dataPath)
	if err != nil {
		logger.Fatal("read dataset", zap.Error(err))
	}
	b, err := artifacts.LoadBundle(*modelPath)
	if err != nil {
		logger.Fatal("load model", zap.Error(err))
	}
	rep, err := assess(b, ds, *selected)
	if err != nil {
		logger.Fatal("fairness check failed", zap.Error(err))
	}
	if err := printReport(os.Stdout, rep); err != nil {
		logger.Fatal("print report", zap.Error(err))
	}
	if err := report.WriteJSON(*out, rep); err != nil {
		logger.Fatal("save report", zap.Error(err))
	}
	fmt.Printf("\nFairness report saved to: %s\n", *out)
	fmt.Println("-----------------------------")
}

func assess(b *artifacts.Bundle, ds *data.Dataset, selected string) (*fairness.Report, error) {
	if !ds.HasLocation {
		return nil, errors.Wrapf(data.ErrSchemaMismatch, "column %q not found, run inducebias first", data.LocationColumn)
	}
	pred := b.Predict(features.Matrix(ds))
	return fairness.Assess(ds.Labels(), pred, ds.Locations(), b.Encoder.Classes, selected)
}

func printReport(w io.Writer, rep *fairness.Report) error {
	fmt.Fprintln(w, "\nFairness metrics by 'location' group:")
	fmt.Fprintf(w, "%-10s %8s %10s %18s\n", "location", "count", "accuracy", "selection_rate_"+rep.Frame.Selected)
	for _, g := range rep.Frame.ByGroup {
		fmt.Fprintf(w, "%-10d %8d %10.3f %18.3f\n", g.Group, g.Count, g.Accuracy, g.SelectionRate)
	}
	fmt.Fprintln(w, "\nOverall Fairness Report:")
	b, err := json.MarshalIndent(rep.Parity, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
