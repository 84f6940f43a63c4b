package app

import (
	"context"
	"fmt"
	"io"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
	"goexplain/internal/chart"
	"goexplain/internal/insight"
	"goexplain/internal/profile"
	"goexplain/internal/report"
	"goexplain/ports"
)

// WarningNotEnoughNumeric is surfaced when correlation views will be empty
const WarningNotEnoughNumeric = "Not enough numeric columns for correlation analysis."

// AnalysisService orchestrates parsing, profiling, insight generation
// and chart building over immutable dataset snapshots
type AnalysisService struct {
	reader   ports.DatasetReader
	datasets ports.DatasetStore
	engine   *insight.Engine
	profiler *profile.Profiler
	charts   *chart.Builder
	reports  *report.Builder

	previewRows int
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(
	reader ports.DatasetReader,
	datasets ports.DatasetStore,
	engine *insight.Engine,
	profiler *profile.Profiler,
	charts *chart.Builder,
	reports *report.Builder,
	previewRows int,
) *AnalysisService {
	if previewRows <= 0 {
		previewRows = 20
	}
	return &AnalysisService{
		reader:      reader,
		datasets:    datasets,
		engine:      engine,
		profiler:    profiler,
		charts:      charts,
		reports:     reports,
		previewRows: previewRows,
	}
}

// UploadResult carries a freshly parsed dataset and any analysis warnings
type UploadResult struct {
	Dataset  *dataset.Dataset
	Warnings []string
}

// Upload parses an uploaded file and registers the resulting dataset
func (s *AnalysisService) Upload(ctx context.Context, src io.Reader, filename string) (*UploadResult, error) {
	ds, err := s.reader.Read(ctx, src, filename)
	if err != nil {
		return nil, err
	}
	if err := s.datasets.PutDataset(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to register dataset: %w", err)
	}
	return &UploadResult{Dataset: ds, Warnings: DatasetWarnings(ds)}, nil
}

// DatasetWarnings lists the analysis limitations of a dataset
func DatasetWarnings(ds *dataset.Dataset) []string {
	var warnings []string
	if len(ds.NumericColumns()) < 2 {
		warnings = append(warnings, WarningNotEnoughNumeric)
	}
	return warnings
}

// DatasetByID resolves a registered dataset
func (s *AnalysisService) DatasetByID(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	return s.datasets.Dataset(ctx, id)
}

// Overview is the dashboard summary of one dataset
type Overview struct {
	Filename       string                  `json:"filename"`
	Shape          dataset.Shape           `json:"shape"`
	Profiles       []profile.ColumnProfile `json:"profiles"`
	Nulls          []dataset.ColumnNulls   `json:"nulls"`
	PreviewColumns []string                `json:"preview_columns"`
	PreviewRows    [][]string              `json:"preview_rows"`
	NumericColumns []string                `json:"numeric_columns"`
}

// BuildOverview profiles the dataset and assembles the preview
func (s *AnalysisService) BuildOverview(ctx context.Context, ds *dataset.Dataset) (*Overview, error) {
	profiles, err := s.profiler.ComputeProfiles(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("failed to profile dataset: %w", err)
	}

	return &Overview{
		Filename:       ds.Filename,
		Shape:          ds.Shape(),
		Profiles:       profiles,
		Nulls:          ds.NullSummary(),
		PreviewColumns: ds.ColumnNames(),
		PreviewRows:    ds.PreviewRows(s.previewRows),
		NumericColumns: ds.NumericColumnNames(),
	}, nil
}

// Insights derives plain-language observations for the dataset
func (s *AnalysisService) Insights(ds *dataset.Dataset) []insight.Insight {
	return s.engine.GenerateInsights(ds)
}

// CorrelationAnalysis pairs a classified correlation with its caption
type CorrelationAnalysis struct {
	X       string                    `json:"x"`
	Y       string                    `json:"y"`
	Result  insight.CorrelationResult `json:"result"`
	Caption string                    `json:"caption"`
}

// Correlate classifies the correlation between two numeric columns
func (s *AnalysisService) Correlate(ds *dataset.Dataset, xName, yName string) (*CorrelationAnalysis, error) {
	xCol, err := s.numericColumn(ds, xName)
	if err != nil {
		return nil, err
	}
	yCol, err := s.numericColumn(ds, yName)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.ClassifyCorrelation(xCol.Series(), yCol.Series())
	if err != nil {
		return nil, err
	}

	return &CorrelationAnalysis{
		X:       xCol.Name,
		Y:       yCol.Name,
		Result:  result,
		Caption: s.engine.Caption(result, xCol.Name, yCol.Name),
	}, nil
}

// ChartRequest selects a chart kind and its columns. Scatter needs X
// and Y, histogram and box need X, pair needs neither. Bins overrides
// the default histogram bin count when positive.
type ChartRequest struct {
	Kind chart.Kind `json:"kind"`
	X    string     `json:"x"`
	Y    string     `json:"y"`
	Bins int        `json:"bins,omitempty"`
}

// BuildChart assembles the payload for one chart
func (s *AnalysisService) BuildChart(ctx context.Context, ds *dataset.Dataset, req ChartRequest) (interface{}, error) {
	switch req.Kind {
	case chart.KindScatter:
		return s.charts.Scatter(ds, req.X, req.Y)
	case chart.KindHistogram:
		return s.charts.HistogramBins(ds, req.X, req.Bins)
	case chart.KindBox:
		return s.charts.Box(ds, req.X)
	case chart.KindPair:
		pair, err := s.charts.Pair(ctx, ds)
		if err != nil {
			return nil, err
		}
		s.annotatePairPanels(ds, pair)
		return pair, nil
	}
	return nil, core.NewValidationError("kind", fmt.Sprintf("unknown chart kind %q", req.Kind))
}

// annotatePairPanels attaches the pairwise correlation to scatter
// panels. A pair with no computable coefficient stays bare.
func (s *AnalysisService) annotatePairPanels(ds *dataset.Dataset, pair *chart.PairChart) {
	for i := range pair.Panels {
		panel := &pair.Panels[i]
		if panel.Scatter == nil || panel.Row == panel.Col {
			continue
		}
		xCol, okX := ds.Column(panel.X)
		yCol, okY := ds.Column(panel.Y)
		if !okX || !okY {
			continue
		}
		result, err := s.engine.ClassifyCorrelation(xCol.Series(), yCol.Series())
		if err != nil {
			continue
		}
		r := result.Coefficient
		panel.R = &r
	}
}

// ReportResult is a rendered report ready for download
type ReportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}

// BuildReport renders the downloadable text report
func (s *AnalysisService) BuildReport(ds *dataset.Dataset) *ReportResult {
	insights := s.engine.GenerateInsights(ds)
	return &ReportResult{
		Filename:    s.reports.Filename(ds.Filename),
		ContentType: report.ContentType,
		Content:     s.reports.Build(ds, insights),
	}
}

func (s *AnalysisService) numericColumn(ds *dataset.Dataset, name string) (dataset.Column, error) {
	col, ok := ds.Column(name)
	if !ok {
		return dataset.Column{}, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
	}
	if !col.IsNumeric() {
		return dataset.Column{}, fmt.Errorf("%w: %s", core.ErrNonNumericColumn, name)
	}
	return col, nil
}
