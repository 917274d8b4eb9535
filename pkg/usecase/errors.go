package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	// Console errors
	ErrNotLoaded            = goerr.New("schema is not loaded")
	ErrSubmitInProgress     = goerr.New("a submission is already in progress")
	ErrDeliveryDateRequired = goerr.New("delivery date is required")
	ErrInvalidDeliveryDate  = goerr.New("delivery date is not a valid date")
	ErrConfirmerRequired    = goerr.New("deleting an item requires a confirmer")

	// Catalog errors
	ErrItemNotFound  = goerr.New("item not found")
	ErrBatchNotFound = goerr.New("batch not found")

	// Auth errors
	ErrUnauthenticated = goerr.New("unauthenticated")
	ErrNoSigningSecret = goerr.New("signing secret is not configured")
)

// Context keys for error values
const (
	ItemIDKey  = "item_id"
	BatchIDKey = "batch_id"
	FieldIDKey = "field_id"
)
