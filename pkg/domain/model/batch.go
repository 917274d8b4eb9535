package model

import (
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Batch is a delivery-scoped collection of items. At most one batch is
// current at a time; committing closes it with a delivery date.
type Batch struct {
	ID           types.BatchID
	Current      bool
	Committed    bool
	DeliveryDate *time.Time
	CreatedAt    time.Time
	CommittedAt  *time.Time
}

// BatchRef addresses the batch an operation runs against. The zero value
// addresses the current (open) batch.
type BatchRef struct {
	ID types.BatchID
}

// CurrentBatch addresses whichever batch is open
var CurrentBatch = BatchRef{}

// BatchRefOf addresses a specific batch
func BatchRefOf(id types.BatchID) BatchRef {
	return BatchRef{ID: id}
}

// IsCurrent reports whether the reference means "the open batch"
func (r BatchRef) IsCurrent() bool {
	return r.ID == 0
}

// String renders the reference for logs
func (r BatchRef) String() string {
	if r.IsCurrent() {
		return "current"
	}
	return r.ID.String()
}

// ErrBatchCommitted is returned when committing a batch that is already closed
var ErrBatchCommitted = goerr.New("batch is already committed")
