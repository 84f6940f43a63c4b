package ports

import (
	"context"
	"io"

	"goexplain/domain/dataset"
)

// DatasetReader parses uploaded tabular files into dataset snapshots
type DatasetReader interface {
	// Read parses a stream. The filename picks the format by extension
	// and is recorded on the resulting dataset.
	Read(ctx context.Context, r io.Reader, filename string) (*dataset.Dataset, error)

	// ReadFile parses a file from disk
	ReadFile(ctx context.Context, path string) (*dataset.Dataset, error)
}
