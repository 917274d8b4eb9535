package firestore_test

import (
	"testing"

	"github.com/dmsconsole/metaform/pkg/repository/firestore"
	"github.com/m-mizutani/gt"
)

func TestIndexes(t *testing.T) {
	cfg := firestore.Indexes("staging")
	gt.A(t, cfg.Collections).Length(2)
	gt.Value(t, cfg.Collections[0].Name).Equal("staging_items")
	gt.Value(t, cfg.Collections[1].Name).Equal("staging_field_values")
	gt.Value(t, cfg.Collections[1].Indexes[0].Fields[1].Path).Equal("Position")

	cfg = firestore.Indexes("")
	gt.Value(t, cfg.Collections[0].Name).Equal("items")
}
