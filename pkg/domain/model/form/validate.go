package form

// Validate recomputes the required error of every live slot and reports
// whether the form is valid. An invalidDate error set by FormatDateInput
// is kept. Removed slots are ignored.
func (f *Form) Validate() bool {
	valid := true
	for _, id := range f.order {
		field := f.fields[id]
		required := field.Definition().Required
		for _, s := range field.Live() {
			s.checkRequired(required)
			if !s.Valid() {
				valid = false
			}
		}
	}
	return valid
}

// Invalid returns the fields that have at least one live slot with an
// error, as of the last Validate, SetValue or FormatDateInput
func (f *Form) Invalid() []Field {
	var invalid []Field
	for _, id := range f.order {
		field := f.fields[id]
		for _, s := range field.Live() {
			if !s.Valid() {
				invalid = append(invalid, field)
				break
			}
		}
	}
	return invalid
}
