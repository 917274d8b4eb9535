package interfaces

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// FieldValueRepository defines the interface for FieldValue data access
type FieldValueRepository interface {
	// GetByItemID retrieves all values of an item in insertion order
	GetByItemID(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error)

	// Replace drops every stored value of the item and stores values in
	// the given order
	Replace(ctx context.Context, itemID types.ItemID, values []model.FieldValue) error

	// DeleteByItemID deletes all values of an item
	DeleteByItemID(ctx context.Context, itemID types.ItemID) error
}
