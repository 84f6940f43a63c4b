package chart

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
)

// Kind names a chart type
type Kind string

const (
	KindScatter   Kind = "scatter"
	KindHistogram Kind = "histogram"
	KindBox       Kind = "box"
	KindPair      Kind = "pair"
)

// ParseKind validates a chart kind string
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindScatter, KindHistogram, KindBox, KindPair:
		return Kind(s), nil
	}
	return "", core.NewValidationError("kind", fmt.Sprintf("unknown chart kind %q", s))
}

const (
	histogramBins    = 10
	histogramMaxBins = 100
	densitySamples   = 50
	pairColumnLimit  = 4
	whiskerIQRFactor = 1.5
)

// Point is one x/y marker
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScatterChart plots paired values of two numeric columns
type ScatterChart struct {
	Kind   Kind    `json:"kind"`
	XLabel string  `json:"x_label"`
	YLabel string  `json:"y_label"`
	Points []Point `json:"points"`
}

// Bin is one histogram bucket
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count float64 `json:"count"`
}

// HistogramChart shows a column's distribution with a fitted density
// overlay, scaled to the count axis
type HistogramChart struct {
	Kind    Kind    `json:"kind"`
	Label   string  `json:"label"`
	Bins    []Bin   `json:"bins"`
	Density []Point `json:"density,omitempty"`
}

// BoxChart summarizes a column as quartiles, whiskers and outliers
type BoxChart struct {
	Kind       Kind      `json:"kind"`
	Label      string    `json:"label"`
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	WhiskerLo  float64   `json:"whisker_lo"`
	WhiskerHi  float64   `json:"whisker_hi"`
	Outliers   []float64 `json:"outliers"`
	SampleSize int       `json:"sample_size"`
}

// PairPanel is one cell of the pair grid. Diagonal cells carry a
// histogram, off-diagonal cells a scatter. R is the pairwise
// correlation coefficient, nil when not computable.
type PairPanel struct {
	Row       int             `json:"row"`
	Col       int             `json:"col"`
	X         string          `json:"x"`
	Y         string          `json:"y"`
	R         *float64        `json:"r,omitempty"`
	Scatter   *ScatterChart   `json:"scatter,omitempty"`
	Histogram *HistogramChart `json:"histogram,omitempty"`
}

// PairChart is a grid of pairwise views over the first numeric columns
type PairChart struct {
	Kind    Kind        `json:"kind"`
	Columns []string    `json:"columns"`
	Panels  []PairPanel `json:"panels"`
}

// Builder assembles chart payloads from a dataset
type Builder struct {
	sem *semaphore.Weighted
}

// NewBuilder creates a builder allowing maxConcurrent pair-grid jobs
func NewBuilder(maxConcurrent int64) *Builder {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Builder{sem: semaphore.NewWeighted(maxConcurrent)}
}

// Scatter plots two numeric columns against each other, skipping rows
// where either side is missing
func (b *Builder) Scatter(ds *dataset.Dataset, xName, yName string) (*ScatterChart, error) {
	xCol, err := numericColumn(ds, xName)
	if err != nil {
		return nil, err
	}
	yCol, err := numericColumn(ds, yName)
	if err != nil {
		return nil, err
	}

	xs := xCol.Series()
	ys := yCol.Series()
	points := make([]Point, 0, len(xs))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		points = append(points, Point{X: xs[i], Y: ys[i]})
	}

	return &ScatterChart{
		Kind:   KindScatter,
		XLabel: xCol.Name,
		YLabel: yCol.Name,
		Points: points,
	}, nil
}

// Histogram bins one numeric column and fits a normal density overlay
func (b *Builder) Histogram(ds *dataset.Dataset, name string) (*HistogramChart, error) {
	return b.HistogramBins(ds, name, histogramBins)
}

// HistogramBins is Histogram with a caller-chosen bin count. Zero means
// the default; anything outside [1, 100] is rejected.
func (b *Builder) HistogramBins(ds *dataset.Dataset, name string, bins int) (*HistogramChart, error) {
	if bins == 0 {
		bins = histogramBins
	}
	if bins < 1 || bins > histogramMaxBins {
		return nil, core.NewValidationError("bins", fmt.Sprintf("bin count %d outside [1, %d]", bins, histogramMaxBins))
	}

	col, err := numericColumn(ds, name)
	if err != nil {
		return nil, err
	}
	nums := col.Numbers()
	if len(nums) == 0 {
		return nil, core.NewInsufficientDataError(fmt.Sprintf("column %s has no values to bin", name))
	}

	return histogramFor(col.Name, nums, bins), nil
}

func histogramFor(label string, nums []float64, bins int) *HistogramChart {
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	lo := sorted[0]
	hi := sorted[len(sorted)-1]
	if lo == hi {
		// Single-valued data still gets a visible bar
		lo -= 0.5
		hi += 0.5
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// Histogram treats the top divider as exclusive
	dividers[len(dividers)-1] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	chart := &HistogramChart{Kind: KindHistogram, Label: label}
	for i, count := range counts {
		chart.Bins = append(chart.Bins, Bin{Lo: dividers[i], Hi: dividers[i+1], Count: count})
	}
	chart.Density = densityOverlay(sorted, lo, hi, bins)
	return chart
}

// densityOverlay samples a fitted normal PDF across the data range,
// scaled so it overlays bin counts
func densityOverlay(nums []float64, lo, hi float64, bins int) []Point {
	mean, _ := stats.Mean(nums)
	stdDev, _ := stats.StandardDeviationSample(nums)
	if stdDev <= 0 || math.IsNaN(stdDev) {
		return nil
	}

	normal := distuv.Normal{Mu: mean, Sigma: stdDev}
	binWidth := (hi - lo) / float64(bins)
	scale := float64(len(nums)) * binWidth

	xs := make([]float64, densitySamples)
	floats.Span(xs, lo, hi)

	points := make([]Point, len(xs))
	for i, x := range xs {
		points[i] = Point{X: x, Y: normal.Prob(x) * scale}
	}
	return points
}

// Box summarizes one numeric column with 1.5×IQR whiskers
func (b *Builder) Box(ds *dataset.Dataset, name string) (*BoxChart, error) {
	col, err := numericColumn(ds, name)
	if err != nil {
		return nil, err
	}
	nums := col.Numbers()
	if len(nums) == 0 {
		return nil, core.NewInsufficientDataError(fmt.Sprintf("column %s has no values to summarize", name))
	}

	min, _ := stats.Min(nums)
	max, _ := stats.Max(nums)
	q1, _ := stats.Percentile(nums, 25)
	median, _ := stats.Median(nums)
	q3, _ := stats.Percentile(nums, 75)

	iqr := q3 - q1
	fenceLo := q1 - whiskerIQRFactor*iqr
	fenceHi := q3 + whiskerIQRFactor*iqr

	whiskerLo := math.Inf(1)
	whiskerHi := math.Inf(-1)
	outliers := []float64{}
	for _, v := range nums {
		if v < fenceLo || v > fenceHi {
			outliers = append(outliers, v)
			continue
		}
		if v < whiskerLo {
			whiskerLo = v
		}
		if v > whiskerHi {
			whiskerHi = v
		}
	}
	sort.Float64s(outliers)

	return &BoxChart{
		Kind:       KindBox,
		Label:      col.Name,
		Min:        min,
		Q1:         q1,
		Median:     median,
		Q3:         q3,
		Max:        max,
		WhiskerLo:  whiskerLo,
		WhiskerHi:  whiskerHi,
		Outliers:   outliers,
		SampleSize: len(nums),
	}, nil
}

// Pair builds a grid of pairwise panels over the first numeric columns.
// Panels are computed concurrently and returned in row-major order.
func (b *Builder) Pair(ctx context.Context, ds *dataset.Dataset) (*PairChart, error) {
	numeric := ds.NumericColumns()
	if len(numeric) < 2 {
		return nil, core.NewInsufficientDataError("pair plot needs at least two numeric columns")
	}
	if len(numeric) > pairColumnLimit {
		numeric = numeric[:pairColumnLimit]
	}

	names := make([]string, len(numeric))
	for i, col := range numeric {
		names[i] = col.Name
	}

	n := len(numeric)
	panels := make([]PairPanel, n*n)

	var wg sync.WaitGroup
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			wg.Add(1)
			go func(row, col int) {
				defer wg.Done()
				if err := b.sem.Acquire(ctx, 1); err != nil {
					return
				}
				defer b.sem.Release(1)
				panels[row*n+col] = b.pairPanel(ds, numeric, row, col)
			}(row, col)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &PairChart{Kind: KindPair, Columns: names, Panels: panels}, nil
}

func (b *Builder) pairPanel(ds *dataset.Dataset, numeric []dataset.Column, row, col int) PairPanel {
	panel := PairPanel{
		Row: row,
		Col: col,
		X:   numeric[col].Name,
		Y:   numeric[row].Name,
	}
	if row == col {
		if nums := numeric[row].Numbers(); len(nums) > 0 {
			panel.Histogram = histogramFor(numeric[row].Name, nums, histogramBins)
		}
		return panel
	}
	if scatter, err := b.Scatter(ds, numeric[col].Name, numeric[row].Name); err == nil {
		panel.Scatter = scatter
	}
	return panel
}

func numericColumn(ds *dataset.Dataset, name string) (dataset.Column, error) {
	col, ok := ds.Column(name)
	if !ok {
		return dataset.Column{}, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
	}
	if !col.IsNumeric() {
		return dataset.Column{}, fmt.Errorf("%w: %s", core.ErrNonNumericColumn, name)
	}
	return col, nil
}
