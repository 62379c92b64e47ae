package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"irisops/internal/audit"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printHeader(&buf, "data/iris.csv", 5, 0.5)
	rep := &audit.Report{
		Total:      150,
		K:          5,
		Suspicious: []int{3, 70},
		Findings: []audit.Finding{
			{Index: 3, Label: "Setosa", Mismatched: 5},
			{Index: 70, Label: "Versicolor", Mismatched: 3},
		},
	}
	printReport(&buf, rep, true)

	want := "Checking for suspicious labels in: data/iris.csv\n" +
		"Using k=5 and threshold=0.5\n\n" +
		"\n--- Report ---\n" +
		"Found 2 suspicious labels out of 150 total rows.\n" +
		"Suspicious row indices: [3, 70]\n" +
		"  - Row 3 is suspicious. Label is 'Setosa', but 5/5 neighbors disagree.\n" +
		"  - Row 70 is suspicious. Label is 'Versicolor', but 3/5 neighbors disagree.\n" +
		"--------------\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintReportNothingFlagged(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, &audit.Report{Total: 10, K: 3, Suspicious: []int{}}, false)
	assert.Equal(t, "\n--- Report ---\nFound 0 suspicious labels out of 10 total rows.\n--------------\n", buf.String())
}

func TestFormatIndices(t *testing.T) {
	assert.Equal(t, "[]", formatIndices(nil))
	assert.Equal(t, "[7]", formatIndices([]int{7}))
	assert.Equal(t, "[1, 2, 30]", formatIndices([]int{1, 2, 30}))
}
