package config

import (
	"strconv"

	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// DropdownOption is one selectable entry of a dropdown list
type DropdownOption struct {
	Label string
	Value string
}

// Dropdown is an externally managed list of options referenced by
// dropdown-typed fields
type Dropdown struct {
	ID      types.DropdownID
	Name    string
	Code    string
	Options []DropdownOption
}

// DropdownChoice is the renderer-facing form of a Dropdown
type DropdownChoice struct {
	ID      types.DropdownID
	Label   string
	Value   string
	Options []DropdownOption
}

// NewDropdownChoices projects dropdowns into choices. The input is not
// modified and the returned options are copies.
func NewDropdownChoices(dropdowns []Dropdown) []DropdownChoice {
	choices := make([]DropdownChoice, 0, len(dropdowns))
	for _, dd := range dropdowns {
		options := make([]DropdownOption, len(dd.Options))
		copy(options, dd.Options)
		choices = append(choices, DropdownChoice{
			ID:      dd.ID,
			Label:   dd.Name,
			Value:   strconv.FormatInt(int64(dd.ID), 10),
			Options: options,
		})
	}
	return choices
}

// OptionsFor returns the options of the dropdown referenced by def, or nil
// when the field has no dropdown reference or the dropdown is unknown
func OptionsFor(choices []DropdownChoice, def FieldDefinition) []DropdownOption {
	if def.DropdownID == nil {
		return nil
	}
	for _, c := range choices {
		if c.ID == *def.DropdownID {
			return c.Options
		}
	}
	return nil
}
