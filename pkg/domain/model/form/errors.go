package form

import "github.com/m-mizutani/goerr/v2"

// Form errors
var (
	ErrMissingFieldID        = goerr.New("field definition has no ID")
	ErrDuplicateFieldID      = goerr.New("duplicate field ID")
	ErrUnknownField          = goerr.New("unknown field")
	ErrNotRepeated           = goerr.New("field does not accept multiple values")
	ErrSlotOutOfRange        = goerr.New("slot index out of range")
	ErrSlotDeleted           = goerr.New("slot has been removed")
	ErrRequiredFieldsMissing = goerr.New("required fields are missing")
	ErrInvalidDateFormat     = goerr.New("invalid date format")
)

// Context keys for error values
const (
	FieldIDKey   = "field_id"
	FieldKeyKey  = "field_key"
	SlotIndexKey = "slot_index"
	SlotCountKey = "slot_count"
	DateKey      = "date"
)
