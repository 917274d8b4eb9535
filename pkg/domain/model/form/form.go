package form

import (
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// ChangeFunc observes value changes made through SetValue
type ChangeFunc func(id types.FieldID, index int, value *string)

// Form is the runtime data-entry form built from field definitions.
// A Form is not safe for concurrent use; callers serialize access.
type Form struct {
	order    []types.FieldID
	fields   map[types.FieldID]Field
	onChange ChangeFunc
}

// Option configures a Form
type Option func(*Form)

// WithChangeObserver registers fn to be called after every SetValue
func WithChangeObserver(fn ChangeFunc) Option {
	return func(f *Form) {
		f.onChange = fn
	}
}

// Build creates a form with one empty field per definition, in definition
// order
func Build(defs []config.FieldDefinition, opts ...Option) (*Form, error) {
	f := &Form{
		fields: make(map[types.FieldID]Field, len(defs)),
	}
	for _, opt := range opts {
		opt(f)
	}

	for i, def := range defs {
		if def.ID.IsZero() {
			return nil, goerr.Wrap(ErrMissingFieldID, "cannot build form",
				goerr.V(FieldKeyKey, def.Key),
				goerr.V("position", i))
		}
		if _, ok := f.fields[def.ID]; ok {
			return nil, goerr.Wrap(ErrDuplicateFieldID, "cannot build form",
				goerr.V(FieldIDKey, def.ID),
				goerr.V(FieldKeyKey, def.Key))
		}
		f.fields[def.ID] = newField(def)
		f.order = append(f.order, def.ID)
	}

	return f, nil
}

// Rebuild applies a new set of definitions. Fields that disappeared are
// dropped, fields whose Required or Multiple flag changed are rebuilt
// empty, and all other fields keep their state.
func (f *Form) Rebuild(defs []config.FieldDefinition) error {
	next, err := Build(defs)
	if err != nil {
		return err
	}

	for _, id := range next.order {
		prev, ok := f.fields[id]
		if !ok {
			continue
		}
		nf := next.fields[id]
		pd, nd := prev.Definition(), nf.Definition()
		if pd.Required != nd.Required || pd.Multiple != nd.Multiple {
			continue
		}
		switch p := prev.(type) {
		case *SingleField:
			p.def = nd
			next.fields[id] = p
		case *RepeatedField:
			p.def = nd
			next.fields[id] = p
		}
	}

	f.order = next.order
	f.fields = next.fields
	return nil
}

// Field returns the field built for id
func (f *Form) Field(id types.FieldID) (Field, bool) {
	field, ok := f.fields[id]
	return field, ok
}

// FieldByKey returns the field whose definition has key
func (f *Form) FieldByKey(key types.MetadataKey) (Field, bool) {
	for _, id := range f.order {
		if field := f.fields[id]; field.Definition().Key == key {
			return field, true
		}
	}
	return nil, false
}

// Fields returns all fields in definition order
func (f *Form) Fields() []Field {
	result := make([]Field, 0, len(f.order))
	for _, id := range f.order {
		result = append(result, f.fields[id])
	}
	return result
}

// Len returns the number of fields
func (f *Form) Len() int {
	return len(f.order)
}

func (f *Form) lookup(id types.FieldID) (Field, error) {
	field, ok := f.fields[id]
	if !ok {
		return nil, goerr.Wrap(ErrUnknownField, "field not in form", goerr.V(FieldIDKey, id))
	}
	return field, nil
}

func (f *Form) lookupSlot(id types.FieldID, index int) (Field, *Slot, error) {
	field, err := f.lookup(id)
	if err != nil {
		return nil, nil, err
	}
	s, err := field.slot(index)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "cannot address slot",
			goerr.V(FieldIDKey, id),
			goerr.V(SlotIndexKey, index))
	}
	return field, s, nil
}

// AddSlot appends an empty slot to a repeated field and returns its index
func (f *Form) AddSlot(id types.FieldID) (int, error) {
	field, err := f.lookup(id)
	if err != nil {
		return 0, err
	}
	rf, ok := field.(*RepeatedField)
	if !ok {
		return 0, goerr.Wrap(ErrNotRepeated, "cannot add slot", goerr.V(FieldIDKey, id))
	}
	rf.slots = append(rf.slots, newSlot())
	return len(rf.slots) - 1, nil
}

// RemoveSlot logically removes a slot of a repeated field. The last live
// slot is never removed; in that case RemoveSlot returns false.
func (f *Form) RemoveSlot(id types.FieldID, index int) (bool, error) {
	field, s, err := f.lookupSlot(id, index)
	if err != nil {
		return false, err
	}
	rf, ok := field.(*RepeatedField)
	if !ok {
		return false, goerr.Wrap(ErrNotRepeated, "cannot remove slot", goerr.V(FieldIDKey, id))
	}
	if len(rf.Live()) <= 1 {
		return false, nil
	}

	s.deleted = true
	s.value = nil
	clear(s.errors)
	return true, nil
}

// SetValue writes a slot, re-runs the required check and notifies the
// change observer
func (f *Form) SetValue(id types.FieldID, index int, value *string) error {
	field, s, err := f.lookupSlot(id, index)
	if err != nil {
		return err
	}

	s.set(value)
	s.touched = true
	s.checkRequired(field.Definition().Required)

	if f.onChange != nil {
		f.onChange(id, index, s.Value())
	}
	return nil
}

// MarkAllTouched flags every live slot as touched so that renderers show
// their errors
func (f *Form) MarkAllTouched() {
	for _, id := range f.order {
		for _, s := range f.fields[id].Live() {
			s.touched = true
		}
	}
}

// Reset returns every field to its built-empty state. Repeated fields go
// back to a single empty slot.
func (f *Form) Reset() {
	for _, id := range f.order {
		f.fields[id].reset()
	}
}
