package model

import "github.com/dmsconsole/metaform/pkg/domain/types"

// FieldValue is one (item, field, value) triple. Repeated fields produce
// several triples with the same ItemID and FieldID, kept in insertion order.
type FieldValue struct {
	ItemID  types.ItemID
	FieldID types.FieldID
	Value   string
}

// GroupByField groups values by field id preserving retrieval order, and
// returns the field ids in order of first appearance
func GroupByField(values []FieldValue) (map[types.FieldID][]string, []types.FieldID) {
	grouped := make(map[types.FieldID][]string)
	var order []types.FieldID
	for _, v := range values {
		if _, ok := grouped[v.FieldID]; !ok {
			order = append(order, v.FieldID)
		}
		grouped[v.FieldID] = append(grouped[v.FieldID], v.Value)
	}
	return grouped, order
}
