package profile

import (
	"context"
	"testing"

	"goexplain/domain/dataset"
)

func buildDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	price := dataset.Column{Name: "price", Type: dataset.TypeNumeric, Values: []dataset.Value{
		dataset.NewNumericValue("10", 10),
		dataset.NewNumericValue("20", 20),
		dataset.NewMissingValue(""),
		dataset.NewNumericValue("30", 30),
		dataset.NewNumericValue("40", 40),
	}}
	region := dataset.Column{Name: "region", Type: dataset.TypeCategorical, Values: []dataset.Value{
		dataset.NewTextValue("north"),
		dataset.NewTextValue("south"),
		dataset.NewTextValue("north"),
		dataset.NewTextValue("east"),
		dataset.NewTextValue("north"),
	}}
	ds, err := dataset.New("sales.csv", []dataset.Column{price, region})
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	return ds
}

func TestComputeProfiles_AllColumnsInOrder(t *testing.T) {
	ds := buildDataset(t)
	profiler := NewProfiler(2)

	profiles, err := profiler.ComputeProfiles(context.Background(), ds)
	if err != nil {
		t.Fatalf("ComputeProfiles failed: %v", err)
	}

	if len(profiles) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].Column != "price" || profiles[1].Column != "region" {
		t.Errorf("Profiles out of column order: %s, %s", profiles[0].Column, profiles[1].Column)
	}
}

func TestComputeProfiles_NumericSummary(t *testing.T) {
	ds := buildDataset(t)
	profiler := NewProfiler(4)

	profiles, err := profiler.ComputeProfiles(context.Background(), ds)
	if err != nil {
		t.Fatalf("ComputeProfiles failed: %v", err)
	}

	price := profiles[0]
	if price.Count != 4 {
		t.Errorf("Count = %d, want 4 non-null values", price.Count)
	}
	if price.Nulls != 1 {
		t.Errorf("Nulls = %d, want 1", price.Nulls)
	}
	if price.Stats == nil {
		t.Fatal("Expected stats for numeric column")
	}
	if price.Stats.Mean != 25 {
		t.Errorf("Mean = %f, want 25", price.Stats.Mean)
	}
	if price.Stats.Median != 25 {
		t.Errorf("Median = %f, want 25", price.Stats.Median)
	}
	if price.Stats.Min != 10 || price.Stats.Max != 40 {
		t.Errorf("Range = [%f, %f], want [10, 40]", price.Stats.Min, price.Stats.Max)
	}
	if price.Stats.Q25 > price.Stats.Median || price.Stats.Median > price.Stats.Q75 {
		t.Errorf("Quartiles out of order: %f, %f, %f", price.Stats.Q25, price.Stats.Median, price.Stats.Q75)
	}
	if price.Top != "" {
		t.Errorf("Numeric column should not carry a top value, got %q", price.Top)
	}
}

func TestComputeProfiles_CategoricalHasNoStats(t *testing.T) {
	ds := buildDataset(t)
	profiler := NewProfiler(4)

	profiles, err := profiler.ComputeProfiles(context.Background(), ds)
	if err != nil {
		t.Fatalf("ComputeProfiles failed: %v", err)
	}

	region := profiles[1]
	if region.Stats != nil {
		t.Error("Expected no stats for categorical column")
	}
	if region.Distinct != 3 {
		t.Errorf("Distinct = %d, want 3", region.Distinct)
	}
	if region.Count != 5 {
		t.Errorf("Count = %d, want 5", region.Count)
	}
	if region.Top != "north" || region.TopCount != 3 {
		t.Errorf("Top = (%q, %d), want (north, 3)", region.Top, region.TopCount)
	}
}

func TestComputeProfiles_CanceledContext(t *testing.T) {
	ds := buildDataset(t)
	profiler := NewProfiler(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := profiler.ComputeProfiles(ctx, ds); err == nil {
		t.Fatal("Expected error for canceled context, got nil")
	}
}
