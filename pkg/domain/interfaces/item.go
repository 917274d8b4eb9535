package interfaces

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// ItemRepository defines the interface for Item data access
type ItemRepository interface {
	// Create creates a new item with auto-generated ID
	Create(ctx context.Context, item *model.Item) (*model.Item, error)

	// Get retrieves an item by ID
	Get(ctx context.Context, id types.ItemID) (*model.Item, error)

	// Update replaces name, batch and metadata of an existing item
	Update(ctx context.Context, item *model.Item) (*model.Item, error)

	// Delete deletes an item by ID
	Delete(ctx context.Context, id types.ItemID) error

	// ListByBatch returns the items of a batch ordered by ID
	ListByBatch(ctx context.Context, batchID types.BatchID) ([]*model.Item, error)
}
