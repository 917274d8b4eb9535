package types

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// MetadataKey is the stable semantic name of a metadata field, e.g. "dc.caseTitle"
type MetadataKey string

var keyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*(\.[A-Za-z][A-Za-z0-9_-]*)*$`)

// Validate checks if the MetadataKey is valid
func (k MetadataKey) Validate() error {
	if k == "" {
		return goerr.New("metadata key cannot be empty")
	}
	if !keyPattern.MatchString(string(k)) {
		return goerr.New("metadata key must be dot separated identifiers", goerr.V("key", k))
	}
	return nil
}

// String returns the string representation of MetadataKey
func (k MetadataKey) String() string {
	return string(k)
}

// Component type names known to the form engine. The backend may define
// others; they are rendered as plain text.
const (
	ComponentText     = "text"
	ComponentTextArea = "textarea"
	ComponentNumber   = "number"
	ComponentDate     = "date"
	ComponentDropdown = "dropdown"
)

// IsDateComponent reports whether a component type name denotes date input.
// The name matches when one of its words is "date", e.g. "date-picker".
func IsDateComponent(name string) bool {
	return hasComponentWord(name, ComponentDate)
}

// IsDropdownComponent reports whether a component type name denotes a dropdown
func IsDropdownComponent(name string) bool {
	return hasComponentWord(name, ComponentDropdown) || hasComponentWord(name, "select")
}

// hasComponentWord splits name on space, "-" and "_" and reports whether a
// word equals word, ignoring case
func hasComponentWord(name, word string) bool {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	for _, w := range words {
		if strings.EqualFold(w, word) {
			return true
		}
	}
	return false
}

// ErrorKind names one kind of validation error attached to a form slot
type ErrorKind string

const (
	ErrorRequired    ErrorKind = "required"
	ErrorInvalidDate ErrorKind = "invalidDate"
)

// NotAvailable is rendered in a table cell whose metadata key is absent
const NotAvailable = "N/A"

// LegacyFileNameKeys are joined into the item display name when no file
// name template is configured
var LegacyFileNameKeys = []string{"dc.caseTitle", "dc.caseYear"}

// FileNameSeparator joins file name template segments
const FileNameSeparator = "_"

// Date layouts exchanged with users and with the backend
const (
	DisplayDateLayout = "DD-MM-YYYY"
	StorageDateLayout = "YYYY-MM-DD"
)

// Status of metadata groups and other administrative records
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is valid
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}
