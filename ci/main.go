// Command ci runs the irisops pipeline inside a Go container with dagger:
// tests, data generation, training, evaluation gate, label audit, fairness
// and drift checks. Reports are exported to ./artifacts on the host.
package main

import (
	"context"
	"flag"
	"os"

	"dagger.io/dagger"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"irisops/pkg/utils"
)

const goImage = "golang:1.24-bookworm"

type stage struct {
	name string
	args []string
}

func stages(minAccuracy string) []stage {
	return []stage{
		{"test", []string{"go", "test", "./..."}},
		{"build", []string{"go", "build", "-o", "/out/", "./cmd/..."}},
		{"train", []string{"/out/trainer", "--regen", "--n", "150"}},
		{"evaluate", []string{"/out/evaluate", "--min-accuracy", minAccuracy}},
		{"learning curve", []string{"/out/analyzer"}},
		{"poison", []string{"/out/poison", "--poison-level", "0.05"}},
		{"check labels", []string{"/out/checklabels", "--data-path", "data/iris_poisoned.csv"}},
		{"induce bias", []string{"/out/inducebias"}},
		{"fairness", []string{"/out/fairness"}},
		{"drift", []string{"/out/drift"}},
	}
}

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	minAccuracy := flag.String("min-accuracy", "0.85", "Accuracy gate passed to the evaluator")
	export := flag.String("export", "artifacts", "Host directory that receives the reports")
	flag.Parse()

	if err := run(context.Background(), logger, *minAccuracy, *export); err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}
	logger.Info("pipeline complete", zap.String("artifacts", *export))
}

func run(ctx context.Context, logger *zap.Logger, minAccuracy, export string) error {
	client, err := dagger.Connect(ctx, dagger.WithLogOutput(os.Stderr))
	if err != nil {
		return errors.Wrap(err, "connect to dagger engine")
	}
	defer client.Close()

	src := client.Host().Directory(".", dagger.HostDirectoryOpts{
		Exclude: []string{"artifacts/", "data/", "models/", "_examples/"},
	})
	ctr := client.Container().
		From(goImage).
		WithMountedCache("/go/pkg/mod", client.CacheVolume("irisops-gomod")).
		WithMountedCache("/root/.cache/go-build", client.CacheVolume("irisops-gobuild")).
		WithDirectory("/src", src).
		WithWorkdir("/src").
		WithEnvVariable("CGO_ENABLED", "0")

	for _, s := range stages(minAccuracy) {
		logger.Info("stage", zap.String("name", s.name))
		ctr = ctr.WithExec(s.args)
		out, err := ctr.Stdout(ctx)
		if err != nil {
			return errors.Wrapf(err, "stage %s", s.name)
		}
		logger.Debug("stage output", zap.String("name", s.name), zap.String("stdout", out))
	}

	if _, err := ctr.Directory("/src/artifacts").Export(ctx, export); err != nil {
		return errors.Wrap(err, "export artifacts")
	}
	return nil
}
