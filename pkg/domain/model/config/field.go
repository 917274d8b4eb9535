package config

import "github.com/dmsconsole/metaform/pkg/domain/types"

// ComponentType is the input kind of a field (text, date, dropdown, ...)
type ComponentType struct {
	ID   types.ComponentTypeID
	Name string
}

// MetadataGroup is a named presentation bucket for fields
type MetadataGroup struct {
	ID     types.GroupID
	Name   string
	Status types.Status
}

// FieldDefinition is one metadata registry entry
type FieldDefinition struct {
	ID            types.FieldID
	Key           types.MetadataKey
	Title         string
	Required      bool
	Multiple      bool
	ComponentType *ComponentType
	DropdownID    *types.DropdownID
	Group         *MetadataGroup
}

// ComponentName returns the component type name, or "" when unset
func (d FieldDefinition) ComponentName() string {
	if d.ComponentType == nil {
		return ""
	}
	return d.ComponentType.Name
}

// IsDate reports whether the field takes DD-MM-YYYY input
func (d FieldDefinition) IsDate() bool {
	return types.IsDateComponent(d.ComponentName())
}

// FieldSchema is the ordered set of field definitions with lookup indexes.
// It is immutable after NewFieldSchema.
type FieldSchema struct {
	fields []FieldDefinition
	byID   map[types.FieldID]int
	byKey  map[types.MetadataKey]int
}

// NewFieldSchema indexes defs. Later duplicates of an id or key shadow
// nothing: the first occurrence wins the index.
func NewFieldSchema(defs []FieldDefinition) *FieldSchema {
	s := &FieldSchema{
		fields: make([]FieldDefinition, len(defs)),
		byID:   make(map[types.FieldID]int, len(defs)),
		byKey:  make(map[types.MetadataKey]int, len(defs)),
	}
	copy(s.fields, defs)
	for i, d := range s.fields {
		if _, ok := s.byID[d.ID]; !ok {
			s.byID[d.ID] = i
		}
		if _, ok := s.byKey[d.Key]; !ok {
			s.byKey[d.Key] = i
		}
	}
	return s
}

// Fields returns the definitions in schema order
func (s *FieldSchema) Fields() []FieldDefinition {
	if s == nil {
		return nil
	}
	result := make([]FieldDefinition, len(s.fields))
	copy(result, s.fields)
	return result
}

// Len returns the number of definitions
func (s *FieldSchema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// ByID looks up a definition by id
func (s *FieldSchema) ByID(id types.FieldID) (FieldDefinition, bool) {
	if s == nil {
		return FieldDefinition{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return FieldDefinition{}, false
	}
	return s.fields[i], true
}

// ByKey looks up a definition by its semantic key
func (s *FieldSchema) ByKey(key types.MetadataKey) (FieldDefinition, bool) {
	if s == nil {
		return FieldDefinition{}, false
	}
	i, ok := s.byKey[key]
	if !ok {
		return FieldDefinition{}, false
	}
	return s.fields[i], true
}

// Section is a collapsible group of fields. Group is nil for the section of
// ungrouped fields.
type Section struct {
	Group  *MetadataGroup
	Fields []FieldDefinition
}

// Sections groups fields by metadata group in order of first appearance.
// Ungrouped fields come last.
func (s *FieldSchema) Sections() []Section {
	if s == nil {
		return nil
	}

	var sections []Section
	index := make(map[types.GroupID]int)
	var ungrouped []FieldDefinition

	for _, d := range s.fields {
		if d.Group == nil {
			ungrouped = append(ungrouped, d)
			continue
		}
		i, ok := index[d.Group.ID]
		if !ok {
			g := *d.Group
			sections = append(sections, Section{Group: &g})
			i = len(sections) - 1
			index[d.Group.ID] = i
		}
		sections[i].Fields = append(sections[i].Fields, d)
	}

	if len(ungrouped) > 0 {
		sections = append(sections, Section{Fields: ungrouped})
	}
	return sections
}
