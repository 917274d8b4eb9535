package interfaces

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// Backend is the set of DMS collaborator services the console consumes.
// It is implemented over REST by service/dms and in process by the
// catalog use case.
type Backend interface {
	Schema() SchemaService
	Dropdowns() DropdownService
	Items() ItemService
	Batches() BatchService
}

// SchemaService provides the metadata schema
type SchemaService interface {
	// ListFields returns the field definitions in schema order
	ListFields(ctx context.Context) ([]config.FieldDefinition, error)
	ListComponentTypes(ctx context.Context) ([]config.ComponentType, error)
	ListGroups(ctx context.Context) ([]config.MetadataGroup, error)
}

// DropdownService provides the dropdown lists referenced by fields
type DropdownService interface {
	ListDropdowns(ctx context.Context) ([]config.Dropdown, error)
}

// ItemService stores items and their field values
type ItemService interface {
	// SubmitValues creates an item (FileName set) or replaces the values of
	// an existing item (ItemID set)
	SubmitValues(ctx context.Context, sub *model.Submission) (*model.SubmitResult, error)

	// ListFieldValues returns the stored values of an item in insertion
	// order
	ListFieldValues(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error)

	// DeleteItem removes an item and its values
	DeleteItem(ctx context.Context, itemID types.ItemID) error

	// ListItems returns the items of the referenced batch
	ListItems(ctx context.Context, ref model.BatchRef) (*model.BatchItems, error)
}

// BatchService closes delivery batches
type BatchService interface {
	// CommitBatch closes the referenced batch. deliveryDate is written
	// YYYY-MM-DD.
	CommitBatch(ctx context.Context, ref model.BatchRef, deliveryDate string) (*model.Batch, error)
}

// Notifier delivers user-facing notifications. Delivery failures are
// handled by the implementation.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification)
}
