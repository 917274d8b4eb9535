package interfaces

import (
	"context"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// BatchRepository defines the interface for Batch data access. At most one
// batch is current at any time.
type BatchRepository interface {
	// Get retrieves a batch by ID
	Get(ctx context.Context, id types.BatchID) (*model.Batch, error)

	// Current returns the open batch, creating one if none exists
	Current(ctx context.Context) (*model.Batch, error)

	// Commit closes the batch with a delivery date and opens a new current
	// batch. It returns the committed batch.
	Commit(ctx context.Context, id types.BatchID, deliveryDate time.Time) (*model.Batch, error)

	// List returns all batches ordered by ID
	List(ctx context.Context) ([]*model.Batch, error)
}
