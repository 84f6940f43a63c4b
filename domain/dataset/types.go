package dataset

import (
	"fmt"
	"math"

	"goexplain/domain/core"
)

// ColumnType is the type tag assigned to a column once at load time.
// Analysis code branches on the tag, never on re-inspection of values.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeCategorical ColumnType = "categorical"
	TypeOther       ColumnType = "other"
)

// Value is a single cell. Raw preserves the uploaded text even when the
// cell was coerced to null for analysis.
type Value struct {
	Raw     string  `json:"raw"`
	Null    bool    `json:"null,omitempty"`
	Num     float64 `json:"num,omitempty"`
	Numeric bool    `json:"numeric,omitempty"`
}

// NewNumericValue creates a parsed numeric cell
func NewNumericValue(raw string, num float64) Value {
	return Value{Raw: raw, Num: num, Numeric: true}
}

// NewTextValue creates a non-numeric cell
func NewTextValue(raw string) Value {
	return Value{Raw: raw}
}

// NewMissingValue creates a null cell, keeping the original text
func NewMissingValue(raw string) Value {
	return Value{Raw: raw, Null: true}
}

// Column is an ordered sequence of values under one name
type Column struct {
	Name   string     `json:"name"`
	Type   ColumnType `json:"type"`
	Values []Value    `json:"values"`
}

// Len returns the number of cells including nulls
func (c Column) Len() int {
	return len(c.Values)
}

// IsNumeric reports whether the column carries the numeric type tag
func (c Column) IsNumeric() bool {
	return c.Type == TypeNumeric
}

// NullCount counts missing cells
func (c Column) NullCount() int {
	count := 0
	for _, v := range c.Values {
		if v.Null {
			count++
		}
	}
	return count
}

// Numbers returns the non-null numeric values in order, nulls excluded
func (c Column) Numbers() []float64 {
	nums := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Null && v.Numeric {
			nums = append(nums, v.Num)
		}
	}
	return nums
}

// Series returns one float64 per row, NaN where the cell is null or
// non-numeric. Row positions are preserved for pairwise operations.
func (c Column) Series() []float64 {
	series := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if !v.Null && v.Numeric {
			series[i] = v.Num
		} else {
			series[i] = math.NaN()
		}
	}
	return series
}

// DistinctCount counts distinct non-null raw values
func (c Column) DistinctCount() int {
	seen := make(map[string]bool)
	for _, v := range c.Values {
		if !v.Null {
			seen[v.Raw] = true
		}
	}
	return len(seen)
}

// TopValue returns the most frequent non-null raw value and its count.
// Ties resolve by row order. Empty when every cell is null.
func (c Column) TopValue() (string, int) {
	counts := make(map[string]int)
	top := ""
	best := 0
	for _, v := range c.Values {
		if v.Null {
			continue
		}
		counts[v.Raw]++
		if counts[v.Raw] > best {
			best = counts[v.Raw]
			top = v.Raw
		}
	}
	return top, best
}

// Shape is the row/column extent of a dataset
type Shape struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
}

// String renders the shape the way the dashboard and report show it
func (s Shape) String() string {
	return fmt.Sprintf("%d rows × %d columns", s.Rows, s.Columns)
}

// ColumnNulls pairs a column name with its null count, in column order
type ColumnNulls struct {
	Column string `json:"column"`
	Nulls  int    `json:"nulls"`
}

// Dataset is the in-memory tabular snapshot loaded from one upload.
// It is never mutated after construction; every view recomputes from it.
type Dataset struct {
	ID          core.DatasetID   `json:"id"`
	Filename    string           `json:"filename"`
	Fingerprint core.Fingerprint `json:"fingerprint"`
	UploadedAt  core.Timestamp   `json:"uploaded_at"`
	Columns     []Column         `json:"columns"`

	rows int
}

// New validates column lengths and assembles a dataset snapshot
func New(filename string, columns []Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, core.NewValidationError("columns", "dataset needs at least one column")
	}
	rows := columns[0].Len()
	for _, col := range columns {
		if col.Len() != rows {
			return nil, core.NewValidationError("columns",
				fmt.Sprintf("column %s has %d rows, expected %d", col.Name, col.Len(), rows))
		}
	}
	return &Dataset{
		ID:         core.DatasetID(core.NewID()),
		Filename:   filename,
		UploadedAt: core.Now(),
		Columns:    columns,
		rows:       rows,
	}, nil
}

// Shape returns rows × columns
func (d *Dataset) Shape() Shape {
	return Shape{Rows: d.rows, Columns: len(d.Columns)}
}

// RowCount returns the number of data rows
func (d *Dataset) RowCount() int {
	return d.rows
}

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int {
	return len(d.Columns)
}

// ColumnNames returns names in declared order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Column looks a column up by name
func (d *Dataset) Column(name string) (Column, bool) {
	for _, col := range d.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return Column{}, false
}

// NumericColumns returns the numeric-tagged columns in declared order
func (d *Dataset) NumericColumns() []Column {
	cols := make([]Column, 0, len(d.Columns))
	for _, col := range d.Columns {
		if col.IsNumeric() {
			cols = append(cols, col)
		}
	}
	return cols
}

// NumericColumnNames returns numeric column names in declared order
func (d *Dataset) NumericColumnNames() []string {
	cols := d.NumericColumns()
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}

// NullSummary counts nulls per column, in declared column order
func (d *Dataset) NullSummary() []ColumnNulls {
	summary := make([]ColumnNulls, len(d.Columns))
	for i, col := range d.Columns {
		summary[i] = ColumnNulls{Column: col.Name, Nulls: col.NullCount()}
	}
	return summary
}

// Row returns the raw cell text of one row in column order
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.Columns))
	for j, col := range d.Columns {
		if i >= 0 && i < col.Len() {
			row[j] = col.Values[i].Raw
		}
	}
	return row
}

// PreviewRows returns up to limit rows of raw cell text
func (d *Dataset) PreviewRows(limit int) [][]string {
	n := d.rows
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = d.Row(i)
	}
	return rows
}
