package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"irisops/internal/artifacts"
	"irisops/internal/config"
	"irisops/internal/data"
	"irisops/internal/features"
	"irisops/internal/metrics"
	"irisops/internal/models"
	"irisops/internal/split"
	"irisops/pkg/utils"
)

type options struct {
	dataPath   string
	algo       string
	maxDepth   int
	minSamples int
	estimators int
	k          int
	testSize   float64
	seed       int64
}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	regen := flag.Bool("regen", false, "Generate a synthetic iris dataset at --data before training")
	n := flag.Int("n", 150, "Number of synthetic rows when --regen is set")
	dataPath := flag.String("data", cfg.Paths.Data, "Training CSV")
	algo := flag.String("algo", cfg.Train.Algo, "Algorithm: dt|rf|bagging|gb|knn")
	maxDepth := flag.Int("max-depth", cfg.Train.MaxDepth, "Maximum tree depth (dt/rf)")
	minSamples := flag.Int("min-samples", cfg.Train.MinSamples, "Minimum samples to split a node (dt/rf)")
	estimators := flag.Int("estimators", cfg.Train.Estimators, "Number of trees (rf, bagging) or boosting rounds (gb)")
	k := flag.Int("k", cfg.Train.K, "Number of neighbors (knn)")
	testSize := flag.Float64("test-size", cfg.Train.TestSize, "Held-out fraction")
	seed := flag.Int64("seed", cfg.Train.Seed, "Random seed for split, generation and trees")
	modelOut := flag.String("model-out", cfg.Paths.Model, "Where to write the model bundle")
	testOut := flag.String("test-out", cfg.Paths.TestData, "Where to write the held-out split")
	upload := flag.Bool("upload", cfg.GCS.Bucket != "", "Upload the bundle and test split to GCS")
	flag.Parse()

	if *regen {
		logger.Info("generating synthetic dataset", zap.Int("n", *n), zap.String("out", *dataPath))
		if err := data.GenerateSyntheticIris(*n, *seed, *dataPath); err != nil {
			logger.Fatal("generate dataset", zap.Error(err))
		}
	}

	opts := options{
		dataPath:   *dataPath,
		algo:       *algo,
		maxDepth:   *maxDepth,
		minSamples: *minSamples,
		estimators: *estimators,
		k:          *k,
		testSize:   *testSize,
		seed:       *seed,
	}
	bundle, ts, err := train(opts)
	if err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}

	acc := metrics.Accuracy(ts.Y, bundle.Model.Predict(ts.X))
	logger.Info("holdout metrics",
		zap.String("model", bundle.Model.Name()),
		zap.Int("train_rows", bundle.Metadata.TrainRows),
		zap.Int("test_rows", bundle.Metadata.TestRows),
		zap.Float64("accuracy", acc),
	)

	if err := artifacts.SaveBundle(*modelOut, bundle); err != nil {
		logger.Fatal("save model", zap.Error(err))
	}
	if err := artifacts.SaveTestSet(*testOut, ts); err != nil {
		logger.Fatal("save test data", zap.Error(err))
	}
	logger.Info("model saved", zap.String("model", *modelOut), zap.String("test_data", *testOut))
	fmt.Println("Model and test data saved.")

	if *upload {
		if cfg.GCS.Bucket == "" {
			logger.Fatal("--upload needs a bucket, set IRISOPS_BUCKET or gcs.bucket")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		u, err := artifacts.NewGCSUploader(ctx, cfg.GCS.Bucket, cfg.GCS.Prefix, cfg.GCS.Project, cfg.GCS.CredentialsFile, logger)
		if err != nil {
			logger.Fatal("connect to GCS", zap.Error(err))
		}
		var errs error
		for _, p := range []string{*modelOut, *testOut} {
			errs = multierr.Append(errs, u.UploadFile(ctx, p, filepath.Base(p)))
		}
		errs = multierr.Append(errs, u.Close())
		if errs != nil {
			logger.Fatal("upload artifacts", zap.Error(errs))
		}
	}
}

func train(o options) (*artifacts.Bundle, *artifacts.TestSet, error) {
	ds, err := data.ReadCSV(o.dataPath)
	if err != nil {
		return nil, nil, err
	}
	var le features.LabelEncoder
	X, y, err := features.XY(ds, &le)
	if err != nil {
		return nil, nil, err
	}
	trainIdx, testIdx, err := split.Stratified(y, o.testSize, o.seed)
	if err != nil {
		return nil, nil, err
	}
	Xtrain, ytrain := split.Take(X, y, trainIdx)
	Xtest, ytest := split.Take(X, y, testIdx)

	mdl, err := models.New(o.algo, o.maxDepth, o.minSamples, o.estimators, o.k, o.seed)
	if err != nil {
		return nil, nil, err
	}
	if err := mdl.Fit(Xtrain, ytrain); err != nil {
		return nil, nil, err
	}

	bundle := &artifacts.Bundle{
		Model:    mdl,
		Encoder:  le,
		Features: append([]string(nil), features.FeatureNames...),
		Metadata: artifacts.Metadata{
			Algorithm: o.algo,
			Dataset:   o.dataPath,
			TrainRows: len(Xtrain),
			TestRows:  len(Xtest),
			Seed:      o.seed,
			TrainedAt: time.Now().UTC(),
			Parameters: map[string]string{
				"max_depth":   strconv.Itoa(o.maxDepth),
				"min_samples": strconv.Itoa(o.minSamples),
				"estimators":  strconv.Itoa(o.estimators),
				"k":           strconv.Itoa(o.k),
				"test_size":   strconv.FormatFloat(o.testSize, 'f', -1, 64),
			},
		},
	}
	ts := &artifacts.TestSet{X: Xtest, Y: ytest, Labels: le.Decode(ytest)}
	return bundle, ts, nil
}
