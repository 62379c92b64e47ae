package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"irisops/internal/bias"
	"irisops/internal/config"
	"irisops/internal/data"
	"irisops/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	dataPath := flag.String("data-path", cfg.Paths.Data, "CSV to add the biased location column to")
	out := flag.String("out", "", "Output CSV (defaults to rewriting --data-path)")
	seed := flag.Int64("seed", 42, "Random seed")
	flag.Parse()

	if *out == "" {
		*out = *dataPath
	}
	ds, err := induce(os.Stdout, *dataPath, *out, *seed)
	if err != nil {
		logger.Fatal("induce bias", zap.String("path", *dataPath), zap.Error(err))
	}
	logger.Info("location column added", zap.String("out", *out), zap.Int("rows", ds.Len()))
}

func induce(w io.Writer, in, out string, seed int64) (*data.Dataset, error) {
	fmt.Fprintf(w, "--- Inducing bias in data at: %s ---\n", in)
	ds, err := data.ReadCSV(in)
	if err != nil {
		return nil, err
	}
	biased := bias.InduceBias(ds, seed)
	if err := data.WriteCSV(out, biased); err != nil {
		return nil, err
	}
	fmt.Fprintln(w, "Successfully added biased 'location' column to the dataset.")
	fmt.Fprintln(w, "---------------------------------------------------")
	return biased, nil
}
