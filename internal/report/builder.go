package report

import (
	"fmt"
	"strings"

	"goexplain/domain/dataset"
	"goexplain/internal/insight"
)

// ContentType is the MIME type reports are served with
const ContentType = "text/plain"

// Builder renders plain-text summary reports
type Builder struct{}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the downloadable report for a dataset and its insights
func (b *Builder) Build(ds *dataset.Dataset, insights []insight.Insight) string {
	lines := []string{
		fmt.Sprintf("Filename: %s", ds.Filename),
		fmt.Sprintf("Shape: %s", ds.Shape()),
		fmt.Sprintf("Columns: %s", strings.Join(ds.ColumnNames(), ", ")),
		"Null Values Per Column:",
	}
	for _, entry := range ds.NullSummary() {
		lines = append(lines, fmt.Sprintf("  - %s: %d", entry.Column, entry.Nulls))
	}

	lines = append(lines, "", "Insights:")
	if len(insights) > 0 {
		for _, ins := range insights {
			lines = append(lines, fmt.Sprintf("- %s", ins.Text))
		}
	} else {
		lines = append(lines, "- No strong insights found.")
	}

	return strings.Join(lines, "\n")
}

// Filename derives the download name from the uploaded filename, taking
// the stem before the first dot
func (b *Builder) Filename(datasetFilename string) string {
	stem := datasetFilename
	if i := strings.Index(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	if stem == "" {
		stem = "dataset"
	}
	return stem + "_report.txt"
}
