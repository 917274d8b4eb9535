package cli

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidAssignment = goerr.New("assignment must be written key=value")
	ErrUnknownKey        = goerr.New("metadata key is not defined in the schema")
	ErrSingleValued      = goerr.New("field takes a single value")
	ErrInvalidOption     = goerr.New("value is not an option of the dropdown")
	ErrInvalidDate       = goerr.New("value is not a valid DD-MM-YYYY date")
	ErrMissingItemID     = goerr.New("item ID argument is required")
	ErrNothingToChange   = goerr.New("nothing to change, pass at least one --set")
)

const (
	KeyKey   = "key"
	ValueKey = "value"
)
