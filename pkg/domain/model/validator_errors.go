package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrMissingRequired = goerr.New("required field is missing")
	ErrMultipleValues  = goerr.New("field does not accept multiple values")
	ErrEmptySubmission = goerr.New("submission has no values")
	ErrAmbiguousTarget = goerr.New("submission carries both item ID and file name")
	ErrMissingFileName = goerr.New("file name is required to create an item")
)

// Context keys for error values
const (
	FieldIDKey    = "field_id"
	FieldKeyKey   = "field_key"
	ValueCountKey = "value_count"
)
