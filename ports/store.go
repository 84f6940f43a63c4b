package ports

import (
	"context"

	"goexplain/domain/core"
	"goexplain/domain/dataset"
)

// DatasetStore resolves loaded datasets by ID for the JSON API
type DatasetStore interface {
	// PutDataset registers a dataset and makes it addressable by ID
	PutDataset(ctx context.Context, ds *dataset.Dataset) error

	// Dataset returns the dataset for an ID, core.ErrDatasetNotFound if absent
	Dataset(ctx context.Context, id core.DatasetID) (*dataset.Dataset, error)
}
