package model

import (
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// Item is a document assembled from field values. Metadata is a read-only
// denormalization (metadata key -> display value) used for listing; the
// authoritative values live in FieldValue records.
type Item struct {
	ID        types.ItemID
	Name      string
	BatchID   types.BatchID
	Metadata  map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BatchItems is the item listing of one batch
type BatchItems struct {
	Batch *Batch
	Items []*Item
}
