package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"

	"go.uber.org/zap"

	"irisops/internal/config"
	"irisops/internal/data"
	"irisops/internal/poison"
	"irisops/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	in := flag.String("input-path", cfg.Paths.Data, "Path to the input CSV file")
	out := flag.String("output-path", cfg.Paths.Poisoned, "Path for the poisoned output CSV")
	level := flag.Float64("poison-level", -1, "Fraction of labels to flip, e.g. 0.05 for 5% (required)")
	seed := flag.Int64("seed", 42, "Random seed for row selection and new labels")
	flag.Parse()

	levelSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "poison-level" {
			levelSet = true
		}
	})
	if !levelSet {
		fmt.Fprintln(os.Stderr, "missing required flag --poison-level")
		flag.Usage()
		os.Exit(2)
	}

	res, err := poisonFile(os.Stdout, *in, *out, *level, *seed)
	if err != nil {
		logger.Fatal("poisoning failed", zap.Error(err))
	}
	logger.Info("labels flipped",
		zap.String("input", *in),
		zap.String("output", *out),
		zap.Int("rows", res.Rows),
		zap.Int("flipped", len(res.Flipped)),
	)
}

func poisonFile(w io.Writer, in, out string, level float64, seed int64) (poison.Result, error) {
	ds, err := data.ReadCSV(in)
	if err != nil {
		return poison.Result{}, err
	}
	poisoned, res, err := poison.FlipLabels(ds, level, rand.New(rand.NewSource(seed)))
	if err != nil {
		return res, err
	}
	switch {
	case len(res.Flipped) == 0 && level > 0:
		fmt.Fprintf(w, "Warning: Poison level %g%% is too low to select any rows. No labels will be flipped.\n", level*100)
	case len(res.Flipped) > 0:
		fmt.Fprintf(w, "Flipping labels for %d of %d rows (%.2f%%)...\n", len(res.Flipped), res.Rows, level*100)
	}
	if err := data.WriteCSV(out, poisoned); err != nil {
		return res, err
	}
	fmt.Fprintf(w, "Poisoned data with flipped labels saved to %s\n", out)
	return res, nil
}
