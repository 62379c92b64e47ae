package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"irisops/internal/artifacts"
	"irisops/internal/config"
	"irisops/internal/metrics"
	"irisops/internal/models"
	"irisops/internal/report"
	"irisops/pkg/utils"
)

const (
	metricsTxt    = "metrics.txt"
	reportTxt     = "classification_report.txt"
	metricsJSON   = "metrics.json"
	dashboardPNG  = "full_detailed_report.png"
	confusionPNG  = "confusion_matrix.png"
	importancePNG = "feature_importance.png"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	modelPath := flag.String("model", cfg.Paths.Model, "Model bundle written by the trainer")
	testPath := flag.String("test-data", cfg.Paths.TestData, "Held-out split written by the trainer")
	outDir := flag.String("out", cfg.Paths.Artifacts, "Directory for reports and plots")
	minAccuracy := flag.Float64("min-accuracy", 0, "Exit with status 1 when accuracy is below this value")
	upload := flag.Bool("upload", false, "Upload the report directory to GCS")
	flag.Parse()

	bundle, err := artifacts.LoadBundle(*modelPath)
	if err != nil {
		logger.Fatal("load model", zap.Error(err))
	}
	ts, err := artifacts.LoadTestSet(*testPath)
	if err != nil {
		logger.Fatal("load test data", zap.Error(err))
	}

	rep, err := evaluate(bundle, ts, *outDir)
	if err != nil {
		logger.Fatal("evaluation failed", zap.Error(err))
	}
	fmt.Print(rep.Summary())
	fmt.Printf("Metrics saved to %s\n", filepath.Join(*outDir, metricsTxt))
	fmt.Printf("Confusion matrix saved to %s\n", filepath.Join(*outDir, confusionPNG))
	fmt.Printf("Classification report saved to %s\n", filepath.Join(*outDir, reportTxt))
	fmt.Printf("Detailed evaluation dashboard saved to %s\n", filepath.Join(*outDir, dashboardPNG))

	if *upload {
		if err := uploadReports(cfg, *outDir); err != nil {
			logger.Fatal("upload reports", zap.Error(err))
		}
	}

	if rep.Accuracy < *minAccuracy {
		logger.Error("accuracy below gate",
			zap.Float64("accuracy", rep.Accuracy),
			zap.Float64("min_accuracy", *minAccuracy),
		)
		logger.Sync()
		os.Exit(1)
	}
}

func uploadReports(cfg *config.Config, dir string) error {
	if cfg.GCS.Bucket == "" {
		return errors.New("no bucket configured, set IRISOPS_BUCKET or gcs.bucket")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	u, err := artifacts.NewGCSUploader(ctx, cfg.GCS.Bucket, path.Join(cfg.GCS.Prefix, "reports"), cfg.GCS.Project, cfg.GCS.CredentialsFile, utils.Logger())
	if err != nil {
		return err
	}
	defer u.Close()
	return artifacts.UploadDir(ctx, u, dir)
}

func evaluate(b *artifacts.Bundle, ts *artifacts.TestSet, outDir string) (metrics.Report, error) {
	pred := b.Model.Predict(ts.X)
	rep := metrics.Classification(ts.Y, pred, b.Encoder.Classes)

	if err := report.WriteText(filepath.Join(outDir, metricsTxt), rep.Summary()); err != nil {
		return rep, err
	}
	if err := report.WriteText(filepath.Join(outDir, reportTxt), "Classification Report:\n"+rep.Text()); err != nil {
		return rep, err
	}
	if err := report.WriteJSON(filepath.Join(outDir, metricsJSON), rep); err != nil {
		return rep, err
	}
	if err := report.ClassMetricsPNG(filepath.Join(outDir, dashboardPNG), rep); err != nil {
		return rep, err
	}
	if err := report.ConfusionPNG(filepath.Join(outDir, confusionPNG), rep.Confusion, b.Encoder.Classes); err != nil {
		return rep, err
	}
	if imp, ok := b.Model.(models.Importancer); ok {
		if err := report.ImportancePNG(filepath.Join(outDir, importancePNG), b.Features, imp.FeatureImportances()); err != nil {
			return rep, err
		}
	}
	return rep, nil
}
