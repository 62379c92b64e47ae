package main

import (
	"flag"
	"fmt"

	"go.uber.org/zap"

	"irisops/internal/config"
	"irisops/internal/curve"
	"irisops/internal/data"
	"irisops/internal/features"
	"irisops/internal/models"
	"irisops/internal/report"
	"irisops/internal/split"
	"irisops/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	algo := flag.String("algo", cfg.Train.Algo, "Algorithm: dt|rf|bagging|gb|knn")
	estimators := flag.Int("estimators", cfg.Train.Estimators, "Number of trees (rf, bagging) or boosting rounds (gb)")
	maxDepth := flag.Int("max-depth", cfg.Train.MaxDepth, "Maximum tree depth")
	minSamples := flag.Int("min-samples", cfg.Train.MinSamples, "Minimum samples to split a node")
	k := flag.Int("k", cfg.Train.K, "Number of neighbors (knn)")
	seed := flag.Int64("seed", cfg.Train.Seed, "Random seed")
	points := flag.Int("points", 8, "Number of points on the curve")
	minSize := flag.Int("min-size", 10, "Smallest training size")
	useLog := flag.Bool("log", false, "Space sizes geometrically")
	dataPath := flag.String("data", cfg.Paths.Data, "Input CSV")
	outImg := flag.String("out-img", cfg.Paths.Artifacts+"/learning_curve.png", "Output PNG")
	outCsv := flag.String("out-csv", cfg.Paths.Artifacts+"/learning_curve.csv", "Output CSV")
	flag.Parse()

	ds, err := data.ReadCSV(*dataPath)
	if err != nil {
		logger.Fatal("read dataset", zap.Error(err))
	}
	var le features.LabelEncoder
	X, y, err := features.XY(ds, &le)
	if err != nil {
		logger.Fatal("encode labels", zap.Error(err))
	}
	trainIdx, testIdx, err := split.Stratified(y, cfg.Train.TestSize, *seed)
	if err != nil {
		logger.Fatal("split", zap.Error(err))
	}
	Xtrain, ytrain := split.Take(X, y, trainIdx)
	Xtest, ytest := split.Take(X, y, testIdx)

	build := func() (models.Model, error) {
		return models.New(*algo, *maxDepth, *minSamples, *estimators, *k, *seed)
	}
	sizes := curve.Sizes(len(Xtrain), *points, *minSize, *useLog)
	pts, err := curve.Compute(build, Xtrain, ytrain, Xtest, ytest, le.Classes, sizes, *seed)
	if err != nil {
		logger.Fatal("learning curve", zap.Error(err))
	}
	for _, p := range pts {
		fmt.Printf("%s | size=%d | train=%.3f | test=%.3f\n", *algo, p.Size, p.TrainAcc, p.TestAcc)
	}

	if err := curve.WriteCSV(*outCsv, pts); err != nil {
		logger.Warn("save curve CSV", zap.Error(err))
	} else {
		logger.Info("curve CSV saved", zap.String("path", *outCsv))
	}
	if err := report.LearningCurvePNG(*outImg, pts); err != nil {
		logger.Warn("save curve PNG", zap.Error(err))
	} else {
		logger.Info("curve PNG saved", zap.String("path", *outImg))
	}
}
