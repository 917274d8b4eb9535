package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

type fieldValueRepository struct {
	mu     sync.RWMutex
	values map[types.ItemID][]model.FieldValue
}

func newFieldValueRepository() *fieldValueRepository {
	return &fieldValueRepository{
		values: make(map[types.ItemID][]model.FieldValue),
	}
}

func (r *fieldValueRepository) GetByItemID(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := slices.Clone(r.values[itemID])
	if values == nil {
		values = make([]model.FieldValue, 0)
	}
	return values, nil
}

func (r *fieldValueRepository) Replace(ctx context.Context, itemID types.ItemID, values []model.FieldValue) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]model.FieldValue, 0, len(values))
	for _, v := range values {
		v.ItemID = itemID
		stored = append(stored, v)
	}
	r.values[itemID] = stored
	return nil
}

func (r *fieldValueRepository) DeleteByItemID(ctx context.Context, itemID types.ItemID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.values, itemID)
	return nil
}
