package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"irisops/internal/config"
	"irisops/internal/data"
	"irisops/internal/drift"
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

	refPath := flag.String("reference", cfg.Paths.Data, "Reference CSV")
	curPath := flag.String("current", "", "Current CSV (defaults to the reference with injected noise)")
	outDir := flag.String("out", cfg.Paths.Artifacts, "Directory for drift_report.html and drift_report.json")
	flag.Parse()

	rep, err := run(*refPath, *curPath, *outDir)
	if err != nil {
		logger.Fatal("drift analysis failed", zap.Error(err))
	}
	for _, c := range rep.Columns {
		fmt.Println(c.String())
	}
	logger.Info("drift analysis done",
		zap.Int("drifted_columns", rep.DriftedCount),
		zap.Float64("share", rep.DriftedShare),
		zap.Bool("dataset_drift", rep.DatasetDrift),
	)
	fmt.Printf("Drift report saved to %s\n", filepath.Join(*outDir, "drift_report.html"))
	fmt.Println("Drift analysis completed successfully.")
}

func run(refPath, curPath, outDir string) (*drift.Report, error) {
	ref, err := data.ReadCSV(refPath)
	if err != nil {
		return nil, err
	}
	var cur *data.Dataset
	if curPath == "" {
		cur = drift.InjectNoise(ref)
	} else if cur, err = data.ReadCSV(curPath); err != nil {
		return nil, err
	}
	rep, err := drift.Compare(ref, cur)
	if err != nil {
		return nil, err
	}
	if err := report.DriftHTML(filepath.Join(outDir, "drift_report.html"), rep); err != nil {
		return nil, err
	}
	if err := report.WriteJSON(filepath.Join(outDir, "drift_report.json"), rep); err != nil {
		return nil, err
	}
	return rep, nil
}
