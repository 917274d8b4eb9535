package config_test

import (
	"testing"

	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestFieldSchema_Lookup(t *testing.T) {
	schema := config.NewFieldSchema([]config.FieldDefinition{
		{ID: 1, Key: "dc.caseTitle", Title: "Case Title"},
		{ID: 2, Key: "dc.caseYear", Title: "Case Year"},
	})

	gt.Number(t, schema.Len()).Equal(2)

	def, ok := schema.ByID(2)
	gt.B(t, ok).True()
	gt.Value(t, def.Key).Equal(types.MetadataKey("dc.caseYear"))

	def, ok = schema.ByKey("dc.caseTitle")
	gt.B(t, ok).True()
	gt.Value(t, def.ID).Equal(types.FieldID(1))

	_, ok = schema.ByKey("dc.missing")
	gt.B(t, ok).False()

	_, ok = schema.ByID(99)
	gt.B(t, ok).False()
}

func TestFieldSchema_NilSafe(t *testing.T) {
	var schema *config.FieldSchema
	gt.Number(t, schema.Len()).Equal(0)
	gt.Array(t, schema.Fields()).Length(0)
	_, ok := schema.ByID(1)
	gt.B(t, ok).False()
}

func TestFieldSchema_Sections(t *testing.T) {
	caseGroup := &config.MetadataGroup{ID: 10, Name: "Case"}
	partyGroup := &config.MetadataGroup{ID: 20, Name: "Parties"}

	schema := config.NewFieldSchema([]config.FieldDefinition{
		{ID: 1, Key: "dc.caseTitle", Group: caseGroup},
		{ID: 2, Key: "dc.plaintiff", Group: partyGroup},
		{ID: 3, Key: "dc.remarks"},
		{ID: 4, Key: "dc.caseYear", Group: caseGroup},
	})

	sections := schema.Sections()
	gt.Array(t, sections).Length(3).Required()

	gt.Value(t, sections[0].Group.Name).Equal("Case")
	gt.Array(t, sections[0].Fields).Length(2).Required()
	gt.Value(t, sections[0].Fields[1].ID).Equal(types.FieldID(4))

	gt.Value(t, sections[1].Group.Name).Equal("Parties")
	gt.Value(t, sections[2].Group).Nil()
	gt.Value(t, sections[2].Fields[0].ID).Equal(types.FieldID(3))
}

func TestFieldDefinition_IsDate(t *testing.T) {
	def := config.FieldDefinition{ComponentType: &config.ComponentType{ID: 1, Name: "date"}}
	gt.B(t, def.IsDate()).True()

	def = config.FieldDefinition{}
	gt.B(t, def.IsDate()).False()
}

func TestNewDropdownChoices(t *testing.T) {
	dropdowns := []config.Dropdown{
		{ID: 5, Name: "Court", Options: []config.DropdownOption{{Label: "High Court", Value: "hc"}}},
	}

	choices := config.NewDropdownChoices(dropdowns)
	gt.Array(t, choices).Length(1).Required()
	gt.Value(t, choices[0].Label).Equal("Court")
	gt.Value(t, choices[0].Value).Equal("5")

	// projection does not alias the source options
	choices[0].Options[0].Label = "changed"
	gt.Value(t, dropdowns[0].Options[0].Label).Equal("High Court")

	ddID := types.DropdownID(5)
	opts := config.OptionsFor(choices, config.FieldDefinition{DropdownID: &ddID})
	gt.Array(t, opts).Length(1)

	missing := types.DropdownID(6)
	gt.Array(t, config.OptionsFor(choices, config.FieldDefinition{DropdownID: &missing})).Length(0)
	gt.Array(t, config.OptionsFor(choices, config.FieldDefinition{})).Length(0)
}
