package report

import (
	"strings"
	"testing"

	"goexplain/domain/dataset"
	"goexplain/internal/insight"
)

func reportDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	price := dataset.Column{Name: "price", Type: dataset.TypeNumeric, Values: []dataset.Value{
		dataset.NewNumericValue("10", 10),
		dataset.NewNumericValue("20", 20),
		dataset.NewNumericValue("30", 30),
	}}
	revenue := dataset.Column{Name: "revenue", Type: dataset.TypeNumeric, Values: []dataset.Value{
		dataset.NewNumericValue("2000", 2000),
		dataset.NewMissingValue(""),
		dataset.NewNumericValue("2100", 2100),
	}}
	ds, err := dataset.New("sales.csv", []dataset.Column{price, revenue})
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	return ds
}

func TestBuild_FullLayout(t *testing.T) {
	ds := reportDataset(t)
	insights := []insight.Insight{{
		Column:   "revenue",
		Kind:     insight.KindHighAverage,
		Severity: insight.SeverityInfo,
		Text:     "Column revenue has a high average value: 2050.00",
		Markdown: "Column **revenue** has a high average value: 2050.00",
	}}

	got := NewBuilder().Build(ds, insights)
	want := strings.Join([]string{
		"Filename: sales.csv",
		"Shape: 3 rows × 2 columns",
		"Columns: price, revenue",
		"Null Values Per Column:",
		"  - price: 0",
		"  - revenue: 1",
		"",
		"Insights:",
		"- Column revenue has a high average value: 2050.00",
	}, "\n")

	if got != want {
		t.Errorf("Report mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestBuild_NoInsightsFallback(t *testing.T) {
	ds := reportDataset(t)

	got := NewBuilder().Build(ds, nil)
	if !strings.Contains(got, "- No strong insights found.") {
		t.Errorf("Missing empty-insights fallback line:\n%s", got)
	}
}

func TestBuild_StripsMarkdownFromInsights(t *testing.T) {
	ds := reportDataset(t)
	insights := []insight.Insight{{
		Text:     "Column revenue has high variability.",
		Markdown: "Column **revenue** has high variability.",
	}}

	got := NewBuilder().Build(ds, insights)
	if strings.Contains(got, "**") {
		t.Errorf("Report leaked markdown markers:\n%s", got)
	}
}

func TestFilename_StemBeforeFirstDot(t *testing.T) {
	b := NewBuilder()

	testCases := []struct {
		uploaded string
		expected string
	}{
		{"sales.csv", "sales_report.txt"},
		{"q3.data.csv", "q3_report.txt"},
		{"noext", "noext_report.txt"},
		{".hidden", "dataset_report.txt"},
		{"", "dataset_report.txt"},
	}

	for _, tc := range testCases {
		if got := b.Filename(tc.uploaded); got != tc.expected {
			t.Errorf("Filename(%q) = %s, want %s", tc.uploaded, got, tc.expected)
		}
	}
}
