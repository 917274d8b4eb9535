package table

import (
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// ColumnType selects how a renderer formats a cell
type ColumnType string

const (
	ColumnText ColumnType = "text"
	ColumnDate ColumnType = "date"
)

// Column is one metadata column of the item table
type Column struct {
	Key   string
	Label string
	Type  ColumnType
}

// Row is one projected item. Values is keyed by metadata key and holds an
// entry for every configured key.
type Row struct {
	ItemID    types.ItemID
	Name      string
	CreatedAt time.Time
	Values    map[string]string
}

// Value returns the cell of key, or types.NotAvailable for a key that was
// not configured
func (r Row) Value(key string) string {
	v, ok := r.Values[key]
	if !ok {
		return types.NotAvailable
	}
	return v
}

// Action is a per-row action offered to a generic table renderer
type Action struct {
	Name  string
	Label string
	Icon  string
}

// Action names
const (
	ActionEdit   = "edit"
	ActionDelete = "delete"
)

// Columns derives one column per configured key that has a definition in
// schema. Keys without a definition are returned as dropped.
func Columns(schema *config.FieldSchema, keys []string) (columns []Column, dropped []string) {
	for _, key := range keys {
		def, ok := schema.ByKey(types.MetadataKey(key))
		if !ok {
			dropped = append(dropped, key)
			continue
		}
		col := Column{Key: key, Label: def.Title, Type: ColumnText}
		if def.IsDate() {
			col.Type = ColumnDate
		}
		columns = append(columns, col)
	}
	return columns, dropped
}

// Rows projects items into rows. A key absent from an item's metadata is
// rendered as types.NotAvailable.
func Rows(items []*model.Item, keys []string) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		row := Row{
			ItemID:    item.ID,
			Name:      item.Name,
			CreatedAt: item.CreatedAt,
			Values:    make(map[string]string, len(keys)),
		}
		for _, key := range keys {
			v, ok := item.Metadata[key]
			if !ok {
				v = types.NotAvailable
			}
			row.Values[key] = v
		}
		rows = append(rows, row)
	}
	return rows
}

// DefaultActions returns the edit and delete actions
func DefaultActions() []Action {
	return []Action{
		{Name: ActionEdit, Label: "Edit", Icon: "edit"},
		{Name: ActionDelete, Label: "Delete", Icon: "delete"},
	}
}
