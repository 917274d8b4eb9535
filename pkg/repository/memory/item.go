package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type itemRepository struct {
	mu     sync.RWMutex
	items  map[types.ItemID]*model.Item
	nextID types.ItemID
}

func newItemRepository() *itemRepository {
	return &itemRepository{
		items:  make(map[types.ItemID]*model.Item),
		nextID: 1,
	}
}

// copyItem creates a deep copy of an item
func copyItem(item *model.Item) *model.Item {
	copied := *item
	if item.Metadata != nil {
		copied.Metadata = maps.Clone(item.Metadata)
	}
	return &copied
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyItem(item)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.items[created.ID] = created
	return copyItem(created), nil
}

func (r *itemRepository) Get(ctx context.Context, id types.ItemID) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "item not found", goerr.V("id", id))
	}
	return copyItem(item), nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "item not found", goerr.V("id", item.ID))
	}

	updated := copyItem(item)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.items[updated.ID] = updated
	return copyItem(updated), nil
}

func (r *itemRepository) Delete(ctx context.Context, id types.ItemID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return goerr.Wrap(interfaces.ErrNotFound, "item not found", goerr.V("id", id))
	}

	delete(r.items, id)
	return nil
}

func (r *itemRepository) ListByBatch(ctx context.Context, batchID types.BatchID) ([]*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*model.Item, 0)
	for _, id := range slices.Sorted(maps.Keys(r.items)) {
		if item := r.items[id]; item.BatchID == batchID {
			items = append(items, copyItem(item))
		}
	}
	return items, nil
}
