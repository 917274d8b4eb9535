package form

import "github.com/dmsconsole/metaform/pkg/domain/model/config"

// Field is the form state of one field definition. It is either a
// *SingleField or a *RepeatedField.
type Field interface {
	// Definition returns the definition the field was built from
	Definition() config.FieldDefinition
	// Live returns the slots that take part in validation and payload
	Live() []*Slot

	slot(index int) (*Slot, error)
	reset()
}

// SingleField holds at most one value
type SingleField struct {
	def   config.FieldDefinition
	input *Slot
}

// RepeatedField holds an ordered list of values. At least one slot is
// always live.
type RepeatedField struct {
	def   config.FieldDefinition
	slots []*Slot
}

func newField(def config.FieldDefinition) Field {
	if def.Multiple {
		return &RepeatedField{def: def, slots: []*Slot{newSlot()}}
	}
	return &SingleField{def: def, input: newSlot()}
}

// Definition implements Field
func (f *SingleField) Definition() config.FieldDefinition { return f.def }

// Live implements Field
func (f *SingleField) Live() []*Slot { return []*Slot{f.input} }

// Slot returns the only slot of the field
func (f *SingleField) Slot() *Slot { return f.input }

func (f *SingleField) slot(index int) (*Slot, error) {
	if index != 0 {
		return nil, ErrSlotOutOfRange
	}
	return f.input, nil
}

func (f *SingleField) reset() {
	f.input.clear()
}

// Definition implements Field
func (f *RepeatedField) Definition() config.FieldDefinition { return f.def }

// Live implements Field
func (f *RepeatedField) Live() []*Slot {
	live := make([]*Slot, 0, len(f.slots))
	for _, s := range f.slots {
		if !s.deleted {
			live = append(live, s)
		}
	}
	return live
}

// Slots returns every slot, removed ones included, by position. Slot
// indexes accepted by Form methods refer to this list.
func (f *RepeatedField) Slots() []*Slot {
	result := make([]*Slot, len(f.slots))
	copy(result, f.slots)
	return result
}

// Deleted returns the logically removed slots
func (f *RepeatedField) Deleted() []*Slot {
	var deleted []*Slot
	for _, s := range f.slots {
		if s.deleted {
			deleted = append(deleted, s)
		}
	}
	return deleted
}

func (f *RepeatedField) slot(index int) (*Slot, error) {
	if index < 0 || index >= len(f.slots) {
		return nil, ErrSlotOutOfRange
	}
	if f.slots[index].deleted {
		return nil, ErrSlotDeleted
	}
	return f.slots[index], nil
}

func (f *RepeatedField) reset() {
	f.slots = []*Slot{newSlot()}
}

// fill replaces all slots with one slot per value
func (f *RepeatedField) fill(values []string) {
	f.slots = make([]*Slot, 0, len(values))
	for _, v := range values {
		s := newSlot()
		s.set(&v)
		f.slots = append(f.slots, s)
	}
	if len(f.slots) == 0 {
		f.slots = append(f.slots, newSlot())
	}
}
