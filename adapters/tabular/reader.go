package tabular

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
)

const maxTypeSampleSize = 500

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader parses CSV and Excel uploads into dataset snapshots
type Reader struct {
	coercer *TypeCoercer
}

// NewReader creates a reader with default coercion thresholds
func NewReader() *Reader {
	return NewReaderWithConfig(DefaultCoercionConfig())
}

// NewReaderWithConfig creates a reader with custom coercion thresholds
func NewReaderWithConfig(config CoercionConfig) *Reader {
	return &Reader{coercer: NewTypeCoercer(config)}
}

// Read parses a stream into a dataset. The extension of filename picks
// the format; the whole stream is consumed for fingerprinting.
func (r *Reader) Read(ctx context.Context, src io.Reader, filename string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, core.NewParseError(filename, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	log.Printf("[TabularReader] Reading %s upload: %s (%d bytes)", ext, filename, len(data))

	var rows [][]string
	switch ext {
	case ".csv":
		rows, err = r.readCSVRows(data)
	case ".xlsx":
		rows, err = r.readExcelRows(data)
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFile, ext)
	}
	if err != nil {
		return nil, core.NewParseError(filename, err)
	}

	ds, err := r.buildDataset(filename, rows)
	if err != nil {
		return nil, err
	}
	ds.Fingerprint = core.NewFingerprint(data)

	shape := ds.Shape()
	log.Printf("[TabularReader] Parsed %s: %d columns, %d rows", filename, shape.Columns, shape.Rows)
	return ds, nil
}

// ReadFile parses a file from disk
func (r *Reader) ReadFile(ctx context.Context, path string) (*dataset.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, core.NewParseError(filepath.Base(path), err)
	}
	defer file.Close()
	return r.Read(ctx, file, filepath.Base(path))
}

func (r *Reader) readCSVRows(data []byte) ([][]string, error) {
	// Excel exports prepend a BOM
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	return rows, nil
}

// sniffDelimiter picks the delimiter with the most hits on the header line
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}

	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestCount := 0
	for _, candidate := range candidates {
		count := bytes.Count(header, []byte(string(candidate)))
		if count > bestCount {
			best = candidate
			bestCount = count
		}
	}
	return best
}

func (r *Reader) readExcelRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel data: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// buildDataset converts raw rows into a typed dataset snapshot
func (r *Reader) buildDataset(filename string, rows [][]string) (*dataset.Dataset, error) {
	if len(rows) < 2 {
		return nil, core.NewParseError(filename, core.ErrEmptyDataset)
	}

	headers := normalizeHeaders(rows[0])
	dataRows := rows[1:]

	// Excel trims trailing empty cells, so pad every row to the header width
	cells := make([][]string, len(headers))
	for i := range cells {
		cells[i] = make([]string, len(dataRows))
	}
	for rowIdx, row := range dataRows {
		if len(row) > len(headers) {
			return nil, core.NewParseError(filename,
				fmt.Errorf("row %d has %d cells, expected %d", rowIdx+2, len(row), len(headers)))
		}
		for colIdx := range headers {
			if colIdx < len(row) {
				cells[colIdx][rowIdx] = strings.TrimSpace(row[colIdx])
			}
		}
	}

	columns := make([]dataset.Column, len(headers))
	for colIdx, header := range headers {
		raw := cells[colIdx]
		analysis := r.coercer.AnalyzeColumn(sampleValues(raw, maxTypeSampleSize))

		values := make([]dataset.Value, len(raw))
		for i, cell := range raw {
			values[i] = r.coercer.CoerceValue(cell, analysis.RecommendedType)
		}
		columns[colIdx] = dataset.Column{
			Name:   header,
			Type:   analysis.RecommendedType,
			Values: values,
		}
	}

	ds, err := dataset.New(filename, columns)
	if err != nil {
		return nil, core.NewParseError(filename, err)
	}
	return ds, nil
}

// normalizeHeaders trims names, fills in blanks and deduplicates
func normalizeHeaders(headerRow []string) []string {
	headers := make([]string, len(headerRow))
	seen := make(map[string]int)
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n, dup := seen[name]; dup {
			next := n + 1
			candidate := fmt.Sprintf("%s_%d", name, next)
			for seen[candidate] > 0 {
				next++
				candidate = fmt.Sprintf("%s_%d", name, next)
			}
			seen[name] = next
			name = candidate
		}
		seen[name]++
		headers[i] = name
	}
	return headers
}

// sampleValues returns evenly distributed values across the column
func sampleValues(values []string, sampleSize int) []string {
	if sampleSize >= len(values) {
		return values
	}

	sampled := make([]string, 0, sampleSize)
	step := float64(len(values)) / float64(sampleSize)
	for i := 0; i < sampleSize; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx < len(values) {
			sampled = append(sampled, values[idx])
		}
	}
	return sampled
}
