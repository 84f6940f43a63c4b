package chart

import (
	"context"
	"testing"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
)

func numCol(name string, nums ...float64) dataset.Column {
	values := make([]dataset.Value, len(nums))
	for i, n := range nums {
		values[i] = dataset.NewNumericValue("x", n)
	}
	return dataset.Column{Name: name, Type: dataset.TypeNumeric, Values: values}
}

func chartDataset(t *testing.T, cols ...dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("chart.csv", cols)
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	return ds
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"scatter", "histogram", "box", "pair"} {
		if _, err := ParseKind(valid); err != nil {
			t.Errorf("ParseKind(%s) failed: %v", valid, err)
		}
	}
	if _, err := ParseKind("pie"); err == nil {
		t.Error("Expected error for unknown chart kind")
	}
}

func TestScatter_SkipsIncompleteRows(t *testing.T) {
	x := dataset.Column{Name: "x", Type: dataset.TypeNumeric, Values: []dataset.Value{
		dataset.NewNumericValue("1", 1),
		dataset.NewMissingValue(""),
		dataset.NewNumericValue("3", 3),
	}}
	y := numCol("y", 10, 20, 30)
	ds := chartDataset(t, x, y)

	scatter, err := NewBuilder(2).Scatter(ds, "x", "y")
	if err != nil {
		t.Fatalf("Scatter failed: %v", err)
	}

	if len(scatter.Points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(scatter.Points))
	}
	if scatter.Points[1].X != 3 || scatter.Points[1].Y != 30 {
		t.Errorf("Point pairing broken: %+v", scatter.Points)
	}
	if scatter.XLabel != "x" || scatter.YLabel != "y" {
		t.Errorf("Labels wrong: %s, %s", scatter.XLabel, scatter.YLabel)
	}
}

func TestScatter_RejectsBadColumns(t *testing.T) {
	ds := chartDataset(t,
		numCol("x", 1, 2, 3),
		dataset.Column{Name: "label", Type: dataset.TypeCategorical, Values: []dataset.Value{
			dataset.NewTextValue("a"), dataset.NewTextValue("b"), dataset.NewTextValue("c"),
		}},
	)
	builder := NewBuilder(2)

	if _, err := builder.Scatter(ds, "x", "missing"); !core.IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := builder.Scatter(ds, "x", "label"); err == nil {
		t.Error("Expected error for non-numeric column")
	}
}

func TestHistogram_BinsCoverAllValues(t *testing.T) {
	ds := chartDataset(t, numCol("v", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10))

	hist, err := NewBuilder(2).Histogram(ds, "v")
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}

	if len(hist.Bins) != histogramBins {
		t.Fatalf("Expected %d bins, got %d", histogramBins, len(hist.Bins))
	}
	total := 0.0
	for _, bin := range hist.Bins {
		total += bin.Count
	}
	if total != 10 {
		t.Errorf("Bin counts sum to %f, want 10 (max value must land in the top bin)", total)
	}
	if len(hist.Density) == 0 {
		t.Error("Expected density overlay for varied data")
	}
}

func TestHistogramBins_Override(t *testing.T) {
	ds := chartDataset(t, numCol("v", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	builder := NewBuilder(2)

	hist, err := builder.HistogramBins(ds, "v", 5)
	if err != nil {
		t.Fatalf("HistogramBins failed: %v", err)
	}
	if len(hist.Bins) != 5 {
		t.Errorf("Expected 5 bins, got %d", len(hist.Bins))
	}

	if _, err := builder.HistogramBins(ds, "v", 0); err != nil {
		t.Errorf("Zero should fall back to the default bin count, got %v", err)
	}
	if _, err := builder.HistogramBins(ds, "v", histogramMaxBins+1); err == nil {
		t.Error("Expected error for bin count above the cap")
	}
	if _, err := builder.HistogramBins(ds, "v", -3); err == nil {
		t.Error("Expected error for negative bin count")
	}
}

func TestHistogram_SingleValuedColumn(t *testing.T) {
	ds := chartDataset(t, numCol("v", 7, 7, 7))

	hist, err := NewBuilder(2).Histogram(ds, "v")
	if err != nil {
		t.Fatalf("Histogram failed: %v", err)
	}

	total := 0.0
	for _, bin := range hist.Bins {
		total += bin.Count
	}
	if total != 3 {
		t.Errorf("Bin counts sum to %f, want 3", total)
	}
	if hist.Density != nil {
		t.Error("Zero-variance data should not get a density overlay")
	}
}

func TestHistogram_EmptyColumn(t *testing.T) {
	empty := dataset.Column{Name: "v", Type: dataset.TypeNumeric, Values: []dataset.Value{
		dataset.NewMissingValue(""),
		dataset.NewMissingValue(""),
	}}
	ds := chartDataset(t, empty)

	if _, err := NewBuilder(2).Histogram(ds, "v"); !core.IsInsufficientDataError(err) {
		t.Errorf("Expected insufficient data error, got %v", err)
	}
}

func TestBox_QuartilesAndOutliers(t *testing.T) {
	ds := chartDataset(t, numCol("v", 1, 2, 3, 4, 5, 6, 7, 8, 9, 100))

	box, err := NewBuilder(2).Box(ds, "v")
	if err != nil {
		t.Fatalf("Box failed: %v", err)
	}

	if box.Min != 1 || box.Max != 100 {
		t.Errorf("Range = [%f, %f], want [1, 100]", box.Min, box.Max)
	}
	if !(box.Q1 <= box.Median && box.Median <= box.Q3) {
		t.Errorf("Quartiles out of order: %f, %f, %f", box.Q1, box.Median, box.Q3)
	}
	if len(box.Outliers) != 1 || box.Outliers[0] != 100 {
		t.Errorf("Expected single outlier 100, got %v", box.Outliers)
	}
	if box.WhiskerHi >= 100 {
		t.Errorf("Whisker should exclude the outlier, got %f", box.WhiskerHi)
	}
	if box.SampleSize != 10 {
		t.Errorf("SampleSize = %d, want 10", box.SampleSize)
	}
}

func TestPair_GridShape(t *testing.T) {
	ds := chartDataset(t,
		numCol("a", 1, 2, 3, 4),
		numCol("b", 4, 3, 2, 1),
		numCol("c", 2, 4, 6, 8),
	)

	pair, err := NewBuilder(2).Pair(context.Background(), ds)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}

	if len(pair.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(pair.Columns))
	}
	if len(pair.Panels) != 9 {
		t.Fatalf("Expected 9 panels, got %d", len(pair.Panels))
	}

	for _, panel := range pair.Panels {
		if panel.Row == panel.Col {
			if panel.Histogram == nil {
				t.Errorf("Diagonal panel (%d,%d) missing histogram", panel.Row, panel.Col)
			}
			if panel.Scatter != nil {
				t.Errorf("Diagonal panel (%d,%d) should not have scatter", panel.Row, panel.Col)
			}
		} else {
			if panel.Scatter == nil {
				t.Errorf("Off-diagonal panel (%d,%d) missing scatter", panel.Row, panel.Col)
			}
		}
	}
}

func TestPair_Deterministic(t *testing.T) {
	ds := chartDataset(t,
		numCol("a", 1, 2, 3, 4),
		numCol("b", 4, 3, 2, 1),
		numCol("c", 2, 4, 6, 8),
	)

	builder := NewBuilder(2)
	first, err := builder.Pair(context.Background(), ds)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	second, err := builder.Pair(context.Background(), ds)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}

	for i := range first.Panels {
		a, b := first.Panels[i], second.Panels[i]
		if a.Row != b.Row || a.Col != b.Col || a.X != b.X || a.Y != b.Y {
			t.Fatalf("Panel %d layout differs between runs: %+v vs %+v", i, a, b)
		}
		if (a.Scatter == nil) != (b.Scatter == nil) || (a.Histogram == nil) != (b.Histogram == nil) {
			t.Fatalf("Panel %d payload kind differs between runs", i)
		}
		if a.Scatter != nil && len(a.Scatter.Points) != len(b.Scatter.Points) {
			t.Errorf("Panel %d point counts differ: %d vs %d", i, len(a.Scatter.Points), len(b.Scatter.Points))
		}
	}
}

func TestPair_CapsColumns(t *testing.T) {
	ds := chartDataset(t,
		numCol("a", 1, 2), numCol("b", 2, 3), numCol("c", 3, 4),
		numCol("d", 4, 5), numCol("e", 5, 6), numCol("f", 6, 7),
	)

	pair, err := NewBuilder(4).Pair(context.Background(), ds)
	if err != nil {
		t.Fatalf("Pair failed: %v", err)
	}
	if len(pair.Columns) != pairColumnLimit {
		t.Errorf("Expected %d columns, got %d", pairColumnLimit, len(pair.Columns))
	}
	if len(pair.Panels) != pairColumnLimit*pairColumnLimit {
		t.Errorf("Expected %d panels, got %d", pairColumnLimit*pairColumnLimit, len(pair.Panels))
	}
}

func TestPair_NeedsTwoNumericColumns(t *testing.T) {
	ds := chartDataset(t, numCol("only", 1, 2, 3))

	if _, err := NewBuilder(2).Pair(context.Background(), ds); !core.IsInsufficientDataError(err) {
		t.Errorf("Expected insufficient data error, got %v", err)
	}
}

func TestPair_CanceledContext(t *testing.T) {
	ds := chartDataset(t, numCol("a", 1, 2), numCol("b", 2, 3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewBuilder(1).Pair(ctx, ds); err == nil {
		t.Fatal("Expected error for canceled context")
	}
}
