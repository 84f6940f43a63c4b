package tabular

import (
	"math"
	"strconv"
	"strings"

	"goexplain/domain/dataset"
)

// CoercionConfig defines the type tagging thresholds
type CoercionConfig struct {
	NumericThreshold       float64 `json:"numeric_threshold"`        // % of valid values that must parse as numbers
	CategoricalUniqueRatio float64 `json:"categorical_unique_ratio"` // unique/valid ratio below which text is categorical
	MaxCategories          int     `json:"max_categories"`           // max distinct values for a categorical column
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:       0.8, // 80% must parse as numbers
		CategoricalUniqueRatio: 0.1,
		MaxCategories:          20,
	}
}

// TypeCoercer tags columns and converts raw cells deterministically
type TypeCoercer struct {
	config CoercionConfig
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// Tokens treated as missing regardless of column type
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"null": true,
	"nan":  true,
	"none": true,
	"#n/a": true,
}

// IsMissing reports whether a raw cell is a missing-value token
func IsMissing(raw string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(raw))]
}

// TypeAnalysis contains the results of column type analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	MissingCount    int                `json:"missing_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	UniqueCount     int                `json:"unique_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	UniqueRatio     float64            `json:"unique_ratio"`
	RecommendedType dataset.ColumnType `json:"recommended_type"`
}

// AnalyzeColumn samples raw cells and recommends a column type
func (c *TypeCoercer) AnalyzeColumn(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
	}

	uniqueValues := make(map[string]bool)
	for _, val := range values {
		if IsMissing(val) {
			analysis.MissingCount++
			continue
		}
		analysis.ValidCount++
		uniqueValues[strings.TrimSpace(val)] = true
		if _, ok := c.tryParseNumeric(val); ok {
			analysis.NumericCount++
		}
	}
	analysis.UniqueCount = len(uniqueValues)

	if analysis.ValidCount == 0 {
		analysis.RecommendedType = dataset.TypeOther
		return analysis
	}

	analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	analysis.UniqueRatio = float64(analysis.UniqueCount) / float64(analysis.ValidCount)
	analysis.RecommendedType = c.determineRecommendedType(analysis)

	return analysis
}

// determineRecommendedType chooses the type tag from the analysis.
// Numeric wins first; low-cardinality text becomes categorical.
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) dataset.ColumnType {
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.TypeNumeric
	}
	if analysis.UniqueRatio < c.config.CategoricalUniqueRatio && analysis.UniqueCount <= c.config.MaxCategories {
		return dataset.TypeCategorical
	}
	return dataset.TypeOther
}

// CoerceValue converts one raw cell under an already-assigned column
// type. Unparseable cells in numeric columns become nulls so null
// counts stay uniform across views.
func (c *TypeCoercer) CoerceValue(raw string, colType dataset.ColumnType) dataset.Value {
	if IsMissing(raw) {
		return dataset.NewMissingValue(raw)
	}
	if colType == dataset.TypeNumeric {
		if num, ok := c.tryParseNumeric(raw); ok {
			return dataset.NewNumericValue(strings.TrimSpace(raw), num)
		}
		return dataset.NewMissingValue(raw)
	}
	return dataset.NewTextValue(strings.TrimSpace(raw))
}

// tryParseNumeric attempts to parse as numeric with strict rules
// Handles international formats: parentheses for negatives, European decimals, currency symbols
func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	if strVal == "" {
		return 0, false
	}

	// Trim whitespace
	cleanVal := strings.TrimSpace(strVal)

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimPrefix(cleanVal, "(")
		cleanVal = strings.TrimSuffix(cleanVal, ")")
		isNegative = true
	}

	// Remove currency symbols: $, €, £, ¥
	currencySymbols := []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"}
	for _, symbol := range currencySymbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	// Remove percentage sign
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")

	// Detect European/French number format (1.234,56 or 1 234,56)
	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	if hasComma && (hasPeriod || hasSpace) {
		// Count digits after comma - if short, likely European decimal
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 {
			// Comma is the decimal separator, periods/spaces are thousands separators
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			// Comma is likely thousands separator, remove it
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	} else if hasComma && !hasPeriod {
		if strings.Count(cleanVal, ",") > 1 {
			// Repeated commas can only be thousands separators
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			// Single comma - treat as European decimal separator
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	} else {
		// Standard format: remove commas and spaces (thousands separators)
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	// Apply negative sign if parentheses were detected
	if isNegative {
		cleanVal = "-" + cleanVal
	}

	// Try parsing as float (handles scientific notation automatically)
	if val, err := strconv.ParseFloat(cleanVal, 64); err == nil {
		// Additional validation: not infinity, not NaN
		if !math.IsInf(val, 0) && !math.IsNaN(val) {
			return val, true
		}
	}

	return 0, false
}
