package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound     = goerr.New("configuration file not found")
	ErrInvalidConfig      = goerr.New("invalid configuration")
	ErrDuplicateID        = goerr.New("duplicate ID")
	ErrDuplicateFieldKey  = goerr.New("duplicate field key")
	ErrInvalidID          = goerr.New("ID must be a positive integer")
	ErrUnknownReference   = goerr.New("reference to an undefined entry")
	ErrMissingDropdown    = goerr.New("dropdown field requires a dropdown reference")
	ErrMissingOptions     = goerr.New("dropdown requires at least one option")
	ErrInvalidStatus      = goerr.New("invalid group status")
	ErrMissingName        = goerr.New("name is required")
	ErrUnknownTableKey    = goerr.New("table key is not defined in the schema")
	ErrUnknownTemplateKey = goerr.New("file name template key is not defined in the schema")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	KindKey       = "kind"
	IDKey         = "id"
	FieldKeyKey   = "field_key"
	RefKey        = "ref"
	IndexKey      = "index"
)
