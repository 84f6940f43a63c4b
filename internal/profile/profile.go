package profile

import (
	"context"
	"sync"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"goexplain/domain/dataset"
)

// NumericSummary holds describe-style statistics for one numeric column
type NumericSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ColumnProfile describes one column. Stats is nil for non-numeric
// columns and for numeric columns with no usable values. Top carries
// the most frequent value of non-numeric columns.
type ColumnProfile struct {
	Column   string             `json:"column"`
	Type     dataset.ColumnType `json:"type"`
	Count    int                `json:"count"`
	Nulls    int                `json:"nulls"`
	Distinct int                `json:"distinct"`
	Top      string             `json:"top,omitempty"`
	TopCount int                `json:"top_count,omitempty"`
	Stats    *NumericSummary    `json:"stats,omitempty"`
}

// Profiler computes column profiles with bounded concurrency
type Profiler struct {
	sem *semaphore.Weighted
}

// NewProfiler creates a profiler allowing maxConcurrent column jobs
func NewProfiler(maxConcurrent int64) *Profiler {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &Profiler{sem: semaphore.NewWeighted(maxConcurrent)}
}

// ComputeProfiles profiles every column of the dataset. Results follow
// declared column order regardless of completion order.
func (p *Profiler) ComputeProfiles(ctx context.Context, ds *dataset.Dataset) ([]ColumnProfile, error) {
	profiles := make([]ColumnProfile, len(ds.Columns))

	var wg sync.WaitGroup
	for i, col := range ds.Columns {
		wg.Add(1)
		go func(index int, col dataset.Column) {
			defer wg.Done()
			if err := p.sem.Acquire(ctx, 1); err != nil {
				return
			}
			defer p.sem.Release(1)
			profiles[index] = profileColumn(col)
		}(i, col)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func profileColumn(col dataset.Column) ColumnProfile {
	profile := ColumnProfile{
		Column:   col.Name,
		Type:     col.Type,
		Nulls:    col.NullCount(),
		Distinct: col.DistinctCount(),
	}
	profile.Count = col.Len() - profile.Nulls

	if !col.IsNumeric() {
		profile.Top, profile.TopCount = col.TopValue()
		return profile
	}
	nums := col.Numbers()
	if len(nums) == 0 {
		return profile
	}

	mean, _ := stats.Mean(nums)
	stdDev, _ := stats.StandardDeviationSample(nums)
	min, _ := stats.Min(nums)
	max, _ := stats.Max(nums)
	median, _ := stats.Median(nums)
	q25, _ := stats.Percentile(nums, 25)
	q75, _ := stats.Percentile(nums, 75)

	profile.Stats = &NumericSummary{
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Q25:    q25,
		Median: median,
		Q75:    q75,
		Max:    max,
	}
	return profile
}
