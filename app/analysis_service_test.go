package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
	"goexplain/internal/chart"
	"goexplain/internal/insight"
	"goexplain/internal/profile"
	"goexplain/internal/report"
)

// Mock implementations for testing
type MockDatasetReader struct {
	mock.Mock
}

func (m *MockDatasetReader) Read(ctx context.Context, r io.Reader, filename string) (*dataset.Dataset, error) {
	args := m.Called(ctx, r, filename)
	if ds := args.Get(0); ds != nil {
		return ds.(*dataset.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDatasetReader) ReadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	args := m.Called(ctx, path)
	if ds := args.Get(0); ds != nil {
		return ds.(*dataset.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) PutDataset(ctx context.Context, ds *dataset.Dataset) error {
	args := m.Called(ctx, ds)
	return args.Error(0)
}

func (m *MockDatasetStore) Dataset(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error) {
	args := m.Called(ctx, id)
	if ds := args.Get(0); ds != nil {
		return ds.(*dataset.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(reader *MockDatasetReader, store *MockDatasetStore) *AnalysisService {
	return NewAnalysisService(
		reader,
		store,
		insight.NewEngine(insight.DefaultThresholds()),
		profile.NewProfiler(2),
		chart.NewBuilder(2),
		report.NewBuilder(),
		10,
	)
}

func numericServiceColumn(name string, nums ...float64) dataset.Column {
	values := make([]dataset.Value, len(nums))
	for i, n := range nums {
		values[i] = dataset.NewNumericValue("x", n)
	}
	return dataset.Column{Name: name, Type: dataset.TypeNumeric, Values: values}
}

func twoColumnDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("sales.csv", []dataset.Column{
		numericServiceColumn("units", 1, 2, 3, 4),
		numericServiceColumn("revenue", 10, 20, 30, 40),
	})
	assert.NoError(t, err)
	return ds
}

func TestUpload_RegistersDataset(t *testing.T) {
	reader := new(MockDatasetReader)
	store := new(MockDatasetStore)
	service := newTestService(reader, store)

	ds := twoColumnDataset(t)
	src := strings.NewReader("ignored")
	reader.On("Read", mock.Anything, src, "sales.csv").Return(ds, nil)
	store.On("PutDataset", mock.Anything, ds).Return(nil)

	result, err := service.Upload(context.Background(), src, "sales.csv")

	assert.NoError(t, err)
	assert.Equal(t, ds, result.Dataset)
	assert.Empty(t, result.Warnings)
	reader.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestUpload_WarnsWhenCorrelationImpossible(t *testing.T) {
	reader := new(MockDatasetReader)
	store := new(MockDatasetStore)
	service := newTestService(reader, store)

	ds, err := dataset.New("single.csv", []dataset.Column{
		numericServiceColumn("only", 1, 2, 3),
	})
	assert.NoError(t, err)

	src := strings.NewReader("ignored")
	reader.On("Read", mock.Anything, src, "single.csv").Return(ds, nil)
	store.On("PutDataset", mock.Anything, ds).Return(nil)

	result, err := service.Upload(context.Background(), src, "single.csv")

	assert.NoError(t, err)
	assert.Equal(t, []string{WarningNotEnoughNumeric}, result.Warnings)
}

func TestUpload_ParseFailureSkipsRegistration(t *testing.T) {
	reader := new(MockDatasetReader)
	store := new(MockDatasetStore)
	service := newTestService(reader, store)

	src := strings.NewReader("broken")
	reader.On("Read", mock.Anything, src, "bad.csv").
		Return(nil, core.NewParseError("bad.csv", errors.New("boom")))

	_, err := service.Upload(context.Background(), src, "bad.csv")

	assert.Error(t, err)
	assert.True(t, core.IsParseError(err))
	store.AssertNotCalled(t, "PutDataset", mock.Anything, mock.Anything)
}

func TestDatasetByID_Delegates(t *testing.T) {
	reader := new(MockDatasetReader)
	store := new(MockDatasetStore)
	service := newTestService(reader, store)

	ds := twoColumnDataset(t)
	store.On("Dataset", mock.Anything, ds.ID).Return(ds, nil)

	got, err := service.DatasetByID(context.Background(), ds.ID)

	assert.NoError(t, err)
	assert.Equal(t, ds, got)
}

func TestBuildOverview_AssemblesSummary(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds := twoColumnDataset(t)

	overview, err := service.BuildOverview(context.Background(), ds)

	assert.NoError(t, err)
	assert.Equal(t, "sales.csv", overview.Filename)
	assert.Equal(t, 4, overview.Shape.Rows)
	assert.Len(t, overview.Profiles, 2)
	assert.Equal(t, []string{"units", "revenue"}, overview.NumericColumns)
	assert.Len(t, overview.PreviewRows, 4)
}

func TestCorrelate_PerfectPair(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds := twoColumnDataset(t)

	analysis, err := service.Correlate(ds, "units", "revenue")

	assert.NoError(t, err)
	assert.Equal(t, "1.00", analysis.Result.DisplayCoefficient())
	assert.Equal(t, insight.StrengthStrong, analysis.Result.Strength)
	assert.Contains(t, analysis.Caption, "strong positive correlation")
	assert.Contains(t, analysis.Caption, "**units**")
}

func TestCorrelate_UnknownColumn(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds := twoColumnDataset(t)

	_, err := service.Correlate(ds, "units", "missing")

	assert.True(t, core.IsNotFoundError(err))
}

func TestCorrelate_NonNumericColumn(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds, err := dataset.New("mixed.csv", []dataset.Column{
		numericServiceColumn("units", 1, 2, 3),
		{Name: "region", Type: dataset.TypeCategorical, Values: []dataset.Value{
			dataset.NewTextValue("a"), dataset.NewTextValue("b"), dataset.NewTextValue("c"),
		}},
	})
	assert.NoError(t, err)

	_, err = service.Correlate(ds, "units", "region")

	assert.ErrorIs(t, err, core.ErrNonNumericColumn)
}

func TestBuildChart_DispatchesByKind(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds := twoColumnDataset(t)
	ctx := context.Background()

	scatter, err := service.BuildChart(ctx, ds, ChartRequest{Kind: chart.KindScatter, X: "units", Y: "revenue"})
	assert.NoError(t, err)
	assert.IsType(t, &chart.ScatterChart{}, scatter)

	hist, err := service.BuildChart(ctx, ds, ChartRequest{Kind: chart.KindHistogram, X: "units"})
	assert.NoError(t, err)
	assert.IsType(t, &chart.HistogramChart{}, hist)

	box, err := service.BuildChart(ctx, ds, ChartRequest{Kind: chart.KindBox, X: "units"})
	assert.NoError(t, err)
	assert.IsType(t, &chart.BoxChart{}, box)

	pair, err := service.BuildChart(ctx, ds, ChartRequest{Kind: chart.KindPair})
	assert.NoError(t, err)
	assert.IsType(t, &chart.PairChart{}, pair)

	_, err = service.BuildChart(ctx, ds, ChartRequest{Kind: "pie"})
	assert.Error(t, err)
}

func TestBuildChart_PairPanelsCarryCorrelation(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds := twoColumnDataset(t)

	result, err := service.BuildChart(context.Background(), ds, ChartRequest{Kind: chart.KindPair})
	assert.NoError(t, err)

	pair := result.(*chart.PairChart)
	for _, panel := range pair.Panels {
		if panel.Row == panel.Col {
			assert.Nil(t, panel.R, "diagonal panel should not carry r")
			continue
		}
		if assert.NotNil(t, panel.R, "off-diagonal panel %s/%s missing r", panel.X, panel.Y) {
			assert.InDelta(t, 1.0, *panel.R, 1e-9)
		}
	}
}

func TestBuildReport_UsesDatasetStem(t *testing.T) {
	service := newTestService(new(MockDatasetReader), new(MockDatasetStore))
	ds := twoColumnDataset(t)

	result := service.BuildReport(ds)

	assert.Equal(t, "sales_report.txt", result.Filename)
	assert.Equal(t, report.ContentType, result.ContentType)
	assert.Contains(t, result.Content, "Filename: sales.csv")
	assert.Contains(t, result.Content, "4 rows × 2 columns")
}
