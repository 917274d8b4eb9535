package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// FieldID identifies a metadata registry entry. It is issued by the backend
// and never changes.
type FieldID int64

// String returns the decimal representation of FieldID
func (x FieldID) String() string {
	return strconv.FormatInt(int64(x), 10)
}

// IsZero reports whether the id was never issued
func (x FieldID) IsZero() bool {
	return x == 0
}

// ItemID identifies an item (document) assembled from field values
type ItemID int64

// String returns the decimal representation of ItemID
func (x ItemID) String() string {
	return strconv.FormatInt(int64(x), 10)
}

// ParseItemID parses a decimal item id
func ParseItemID(s string) (ItemID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, goerr.New("invalid item ID", goerr.V("item_id", s))
	}
	return ItemID(v), nil
}

// BatchID identifies a delivery batch
type BatchID int64

// String returns the decimal representation of BatchID
func (x BatchID) String() string {
	return strconv.FormatInt(int64(x), 10)
}

// ParseBatchID parses a decimal batch id
func ParseBatchID(s string) (BatchID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return 0, goerr.New("invalid batch ID", goerr.V("batch_id", s))
	}
	return BatchID(v), nil
}

// GroupID identifies a metadata group
type GroupID int64

// DropdownID identifies a dropdown list
type DropdownID int64

// ComponentTypeID identifies a component type
type ComponentTypeID int64
