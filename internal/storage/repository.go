package storage

import (
	"context"

	"github.com/orderlens-lab/orderlens/internal/core/dataset"
)

// Repository loads the four source tables as one immutable snapshot.
// Snapshots are not refreshed in place: picking up new data means calling
// LoadTables again and rebuilding the components on the new snapshot.
type Repository interface {
	LoadTables(ctx context.Context) (*dataset.Tables, error)
}
