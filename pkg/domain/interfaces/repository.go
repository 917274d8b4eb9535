package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is wrapped by repositories when a record does not exist
var ErrNotFound = goerr.New("not found")

// Repository defines the interface for data persistence
type Repository interface {
	Item() ItemRepository
	FieldValue() FieldValueRepository
	Batch() BatchRepository

	Close() error
}
