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

type batchRepository struct {
	mu      sync.RWMutex
	batches map[types.BatchID]*model.Batch
	current types.BatchID
	nextID  types.BatchID
}

func newBatchRepository() *batchRepository {
	return &batchRepository{
		batches: make(map[types.BatchID]*model.Batch),
		nextID:  1,
	}
}

// copyBatch creates a deep copy of a batch
func copyBatch(b *model.Batch) *model.Batch {
	copied := *b
	if b.DeliveryDate != nil {
		d := *b.DeliveryDate
		copied.DeliveryDate = &d
	}
	if b.CommittedAt != nil {
		c := *b.CommittedAt
		copied.CommittedAt = &c
	}
	return &copied
}

// openLocked creates a new current batch. Caller holds the write lock.
func (r *batchRepository) openLocked() *model.Batch {
	b := &model.Batch{
		ID:        r.nextID,
		Current:   true,
		CreatedAt: time.Now().UTC(),
	}
	r.nextID++
	r.batches[b.ID] = b
	r.current = b.ID
	return b
}

func (r *batchRepository) Get(ctx context.Context, id types.BatchID) (*model.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.batches[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "batch not found", goerr.V("id", id))
	}
	return copyBatch(b), nil
}

func (r *batchRepository) Current(ctx context.Context) (*model.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, exists := r.batches[r.current]; exists {
		return copyBatch(b), nil
	}
	return copyBatch(r.openLocked()), nil
}

func (r *batchRepository) Commit(ctx context.Context, id types.BatchID, deliveryDate time.Time) (*model.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.batches[id]
	if !exists {
		return nil, goerr.Wrap(interfaces.ErrNotFound, "batch not found", goerr.V("id", id))
	}
	if b.Committed {
		return nil, goerr.Wrap(model.ErrBatchCommitted, "cannot commit batch", goerr.V("id", id))
	}

	now := time.Now().UTC()
	b.Committed = true
	b.Current = false
	b.DeliveryDate = &deliveryDate
	b.CommittedAt = &now

	if r.current == id {
		r.openLocked()
	}
	return copyBatch(b), nil
}

func (r *batchRepository) List(ctx context.Context) ([]*model.Batch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	batches := make([]*model.Batch, 0, len(r.batches))
	for _, id := range slices.Sorted(maps.Keys(r.batches)) {
		batches = append(batches, copyBatch(r.batches[id]))
	}
	return batches, nil
}
