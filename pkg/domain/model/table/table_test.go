package table_test

import (
	"testing"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/model/table"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestColumns(t *testing.T) {
	schema := config.NewFieldSchema([]config.FieldDefinition{
		{ID: 1, Key: "dc.caseTitle", Title: "Case Title"},
		{ID: 2, Key: "dc.filedOn", Title: "Filed On", ComponentType: &config.ComponentType{ID: 3, Name: "Date Picker"}},
	})

	columns, dropped := table.Columns(schema, []string{"dc.filedOn", "dc.gone", "dc.caseTitle"})

	gt.Value(t, columns).Equal([]table.Column{
		{Key: "dc.filedOn", Label: "Filed On", Type: table.ColumnDate},
		{Key: "dc.caseTitle", Label: "Case Title", Type: table.ColumnText},
	})
	gt.Value(t, dropped).Equal([]string{"dc.gone"})
}

func TestColumns_NilSchema(t *testing.T) {
	columns, dropped := table.Columns(nil, []string{"dc.caseTitle"})
	gt.Array(t, columns).Length(0)
	gt.Value(t, dropped).Equal([]string{"dc.caseTitle"})
}

func TestRows(t *testing.T) {
	created := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	items := []*model.Item{
		{
			ID:        4,
			Name:      "Smith_2024",
			CreatedAt: created,
			Metadata:  map[string]string{"dc.caseTitle": "Smith"},
		},
		nil,
		{ID: 5, Name: "Jones_2023"},
	}

	rows := table.Rows(items, []string{"dc.caseTitle", "dc.caseYear"})
	gt.Array(t, rows).Length(2).Required()

	gt.Value(t, rows[0].ItemID).Equal(types.ItemID(4))
	gt.Value(t, rows[0].Name).Equal("Smith_2024")
	gt.Value(t, rows[0].CreatedAt).Equal(created)
	gt.Value(t, rows[0].Value("dc.caseTitle")).Equal("Smith")
	gt.Value(t, rows[0].Value("dc.caseYear")).Equal(types.NotAvailable)

	gt.Value(t, rows[1].Value("dc.caseTitle")).Equal(types.NotAvailable)
	gt.Number(t, len(rows[1].Values)).Equal(2)
}

func TestDefaultActions(t *testing.T) {
	actions := table.DefaultActions()
	gt.Array(t, actions).Length(2).Required()
	gt.Value(t, actions[0].Name).Equal(table.ActionEdit)
	gt.Value(t, actions[1].Name).Equal(table.ActionDelete)
}
