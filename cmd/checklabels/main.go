package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"irisops/internal/audit"
	"irisops/internal/data"
	"irisops/pkg/utils"
)

func main() {
	logger := utils.Logger()
	defer logger.Sync()

	dataPath := flag.String("data-path", "", "Path to the input CSV file to check (required)")
	k := flag.Int("k", audit.DefaultK, "Number of nearest neighbors to check against")
	threshold := flag.Float64("threshold", audit.DefaultThreshold, "Fraction of neighbors that must disagree to flag a row")
	labelColumn := flag.String("label-column", data.LabelColumn, "Name of the label column")
	verbose := flag.Bool("verbose", false, "Print one line per suspicious row")
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "missing required flag --data-path")
		flag.Usage()
		os.Exit(2)
	}

	printHeader(os.Stdout, *dataPath, *k, *threshold)
	opts := audit.Options{K: *k, Threshold: *threshold}
	rep, err := audit.FindSuspiciousInFile(*dataPath, *labelColumn, opts)
	if err != nil {
		logger.Fatal("label audit failed", zap.String("path", *dataPath), zap.Error(err))
	}
	printReport(os.Stdout, rep, *verbose)
	logger.Info("label audit done",
		zap.String("path", *dataPath),
		zap.Int("rows", rep.Total),
		zap.Int("suspicious", rep.Flagged()),
	)
}

func printHeader(w io.Writer, path string, k int, threshold float64) {
	fmt.Fprintf(w, "Checking for suspicious labels in: %s\n", path)
	fmt.Fprintf(w, "Using k=%d and threshold=%s\n\n", k, strconv.FormatFloat(threshold, 'f', -1, 64))
}

func printReport(w io.Writer, rep *audit.Report, verbose bool) {
	fmt.Fprintln(w, "\n--- Report ---")
	fmt.Fprintf(w, "Found %d suspicious labels out of %d total rows.\n", rep.Flagged(), rep.Total)
	if rep.Flagged() > 0 {
		fmt.Fprintf(w, "Suspicious row indices: %s\n", formatIndices(rep.Suspicious))
	}
	if verbose {
		for _, f := range rep.Findings {
			fmt.Fprintf(w, "  - Row %d is suspicious. Label is '%s', but %d/%d neighbors disagree.\n", f.Index, f.Label, f.Mismatched, rep.K)
		}
	}
	fmt.Fprintln(w, "--------------")
}

func formatIndices(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
