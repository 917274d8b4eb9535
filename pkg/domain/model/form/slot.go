package form

import (
	"slices"
	"strings"

	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// Slot is one input control of a field. A single field has exactly one
// slot; a repeated field has one per entered value.
type Slot struct {
	value   *string
	errors  map[types.ErrorKind]struct{}
	touched bool
	deleted bool
}

func newSlot() *Slot {
	return &Slot{errors: make(map[types.ErrorKind]struct{})}
}

// Value returns a copy of the slot value, nil when never set
func (s *Slot) Value() *string {
	if s.value == nil {
		return nil
	}
	v := *s.value
	return &v
}

// Text returns the value or "" when nil
func (s *Slot) Text() string {
	if s.value == nil {
		return ""
	}
	return *s.value
}

// IsEmpty reports whether the value is nil or whitespace only
func (s *Slot) IsEmpty() bool {
	return s.value == nil || strings.TrimSpace(*s.value) == ""
}

// Errors returns the error kinds currently attached, sorted
func (s *Slot) Errors() []types.ErrorKind {
	kinds := make([]types.ErrorKind, 0, len(s.errors))
	for k := range s.errors {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// HasError reports whether kind is attached
func (s *Slot) HasError(kind types.ErrorKind) bool {
	_, ok := s.errors[kind]
	return ok
}

// Valid reports whether no error is attached
func (s *Slot) Valid() bool {
	return len(s.errors) == 0
}

// Touched reports whether the user interacted with the slot or a submit
// attempt marked it
func (s *Slot) Touched() bool {
	return s.touched
}

// Deleted reports whether the slot was logically removed
func (s *Slot) Deleted() bool {
	return s.deleted
}

func (s *Slot) set(v *string) {
	if v == nil {
		s.value = nil
		return
	}
	c := *v
	s.value = &c
}

func (s *Slot) setError(kind types.ErrorKind, on bool) {
	if on {
		s.errors[kind] = struct{}{}
		return
	}
	delete(s.errors, kind)
}

func (s *Slot) checkRequired(required bool) {
	s.setError(types.ErrorRequired, required && s.IsEmpty())
}

func (s *Slot) clear() {
	s.value = nil
	s.touched = false
	clear(s.errors)
}
