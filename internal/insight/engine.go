package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
)

// Strength labels for classified correlations
const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
	StrengthVeryWeak = "very weak or no"
)

// Direction labels for classified correlations
const (
	DirectionPositive = "positive"
	DirectionNegative = "negative"
	DirectionNone     = "no"
)

// Insight kinds
const (
	KindHighAverage     = "high_average"
	KindHighVariability = "high_variability"
)

// Insight severities, used for dashboard badges
const (
	SeverityInfo = "info"
	SeverityWarn = "warn"
)

// Thresholds holds the cutoffs the engine classifies with
type Thresholds struct {
	Strong   float64
	Moderate float64
	Weak     float64
	HighMean float64
}

// DefaultThresholds returns the standard cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{
		Strong:   0.7,
		Moderate: 0.4,
		Weak:     0.2,
		HighMean: 1000,
	}
}

// CorrelationResult is a classified pairwise correlation
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
}

// DisplayCoefficient renders the coefficient rounded to two decimals
func (r CorrelationResult) DisplayCoefficient() string {
	return fmt.Sprintf("%.2f", r.Coefficient)
}

// Insight is one plain-language observation about a column
type Insight struct {
	Column   string `json:"column"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Text     string `json:"text"`
	Markdown string `json:"markdown"`
}

// Engine classifies correlations and derives column insights
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates an engine with the given thresholds
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Thresholds returns the engine's cutoffs
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// ClassifyCorrelation computes the Pearson coefficient for two equal-length
// series and labels its strength and direction. NaN marks a missing value;
// a row is excluded when either side is missing.
func (e *Engine) ClassifyCorrelation(x, y []float64) (CorrelationResult, error) {
	if len(x) != len(y) {
		return CorrelationResult{}, core.NewValidationError("series",
			fmt.Sprintf("series lengths differ: %d vs %d", len(x), len(y)))
	}

	pairedX := make([]float64, 0, len(x))
	pairedY := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		pairedX = append(pairedX, x[i])
		pairedY = append(pairedY, y[i])
	}

	if len(pairedX) < 2 {
		return CorrelationResult{}, core.NewInsufficientDataError("need at least two paired observations")
	}

	coefficient, err := pearson(pairedX, pairedY)
	if err != nil {
		return CorrelationResult{}, err
	}

	return CorrelationResult{
		Coefficient: coefficient,
		Strength:    e.classifyStrength(coefficient),
		Direction:   classifyDirection(coefficient),
	}, nil
}

// pearson computes the correlation coefficient from deviation products
func pearson(x, y []float64) (float64, error) {
	n := float64(len(x))

	sumX, sumY := 0.0, 0.0
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	numerator := 0.0
	sumXX, sumYY := 0.0, 0.0
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		numerator += dx * dy
		sumXX += dx * dx
		sumYY += dy * dy
	}

	denominator := math.Sqrt(sumXX * sumYY)
	if denominator == 0 {
		return 0, core.NewInsufficientDataError("at least one series has zero variance")
	}

	r := numerator / denominator
	// Float rounding can push |r| a hair past 1
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, nil
}

func (e *Engine) classifyStrength(coefficient float64) string {
	abs := math.Abs(coefficient)
	if abs > e.thresholds.Strong {
		return StrengthStrong
	} else if abs > e.thresholds.Moderate {
		return StrengthModerate
	} else if abs > e.thresholds.Weak {
		return StrengthWeak
	}
	return StrengthVeryWeak
}

func classifyDirection(coefficient float64) string {
	if coefficient > 0 {
		return DirectionPositive
	} else if coefficient < 0 {
		return DirectionNegative
	}
	return DirectionNone
}

// Caption renders a classified correlation as a markdown sentence
func (e *Engine) Caption(result CorrelationResult, xName, yName string) string {
	return fmt.Sprintf("There is a %s %s correlation between **%s** and **%s** (correlation = `%s`).",
		result.Strength, result.Direction, xName, yName, result.DisplayCoefficient())
}

// CaptionText renders the caption without markdown, for terminal output
func (e *Engine) CaptionText(result CorrelationResult, xName, yName string) string {
	return stripMarkdown(e.Caption(result, xName, yName))
}

// GenerateInsights scans numeric columns in declared order and emits
// plain-language observations. Per column the high-average check runs
// first, then the variability check.
func (e *Engine) GenerateInsights(ds *dataset.Dataset) []Insight {
	insights := []Insight{}
	for _, col := range ds.NumericColumns() {
		nums := col.Numbers()
		if len(nums) == 0 {
			continue
		}

		mean, err := stats.Mean(nums)
		if err != nil {
			continue
		}

		if mean > e.thresholds.HighMean {
			md := fmt.Sprintf("Column **%s** has a high average value: %.2f", col.Name, mean)
			insights = append(insights, Insight{
				Column:   col.Name,
				Kind:     KindHighAverage,
				Severity: SeverityInfo,
				Text:     stripMarkdown(md),
				Markdown: md,
			})
		}

		// Relative spread is only meaningful against a positive mean
		if len(nums) >= 2 && mean > 0 {
			std, err := stats.StandardDeviationSample(nums)
			if err == nil && std > mean {
				md := fmt.Sprintf("Column **%s** has high variability.", col.Name)
				insights = append(insights, Insight{
					Column:   col.Name,
					Kind:     KindHighVariability,
					Severity: SeverityWarn,
					Text:     stripMarkdown(md),
					Markdown: md,
				})
			}
		}
	}
	return insights
}

// SummarizeNulls counts missing values per column, in column order
func (e *Engine) SummarizeNulls(ds *dataset.Dataset) []dataset.ColumnNulls {
	return ds.NullSummary()
}

func stripMarkdown(md string) string {
	plain := strings.ReplaceAll(md, "**", "")
	return strings.ReplaceAll(plain, "`", "")
}
