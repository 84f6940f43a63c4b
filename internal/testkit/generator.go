package testkit

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// SalesGeneratorConfig configures the demo sales data generator
type SalesGeneratorConfig struct {
	Rows      int       `json:"rows"`
	NullRate  float64   `json:"null_rate"`
	StartDate time.Time `json:"start_date"`
	Seed      int64     `json:"seed"`
}

// DefaultSalesConfig returns sensible defaults for demo data
func DefaultSalesConfig() SalesGeneratorConfig {
	return SalesGeneratorConfig{
		Rows:      120,
		NullRate:  0.05,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:      42,
	}
}

// SalesDataGenerator produces a small, deterministic sales dataset with
// a built-in units/revenue relationship so correlations and insights
// have something to find
type SalesDataGenerator struct {
	config SalesGeneratorConfig
	rng    *rand.Rand
}

// NewSalesDataGenerator creates a generator seeded from the config
func NewSalesDataGenerator(config SalesGeneratorConfig) *SalesDataGenerator {
	return &SalesDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

var demoRegions = []string{"north", "south", "east", "west"}

// GenerateRows returns a header row followed by data rows
func (g *SalesDataGenerator) GenerateRows() [][]string {
	rows := make([][]string, 0, g.config.Rows+1)
	rows = append(rows, []string{"date", "region", "units", "price", "revenue", "discount"})

	day := g.config.StartDate
	for i := 0; i < g.config.Rows; i++ {
		units := 5 + g.rng.Intn(46)
		price := 20.0 + g.rng.Float64()*80.0
		noise := (g.rng.Float64() - 0.5) * 50.0
		revenue := float64(units)*price + noise

		discount := fmt.Sprintf("%.2f", g.rng.Float64()*0.3)
		if g.rng.Float64() < g.config.NullRate {
			discount = "n/a"
		}

		rows = append(rows, []string{
			day.Format("2006-01-02"),
			demoRegions[g.rng.Intn(len(demoRegions))],
			fmt.Sprintf("%d", units),
			fmt.Sprintf("%.2f", price),
			fmt.Sprintf("%.2f", revenue),
			discount,
		})
		day = day.AddDate(0, 0, 1)
	}
	return rows
}

// CSV renders the generated rows as comma-separated text
func (g *SalesDataGenerator) CSV() string {
	var b strings.Builder
	for _, row := range g.GenerateRows() {
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// SampleCSV returns the default demo dataset, handy for tests
func SampleCSV() string {
	return NewSalesDataGenerator(DefaultSalesConfig()).CSV()
}
