package form

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
)

// Populate loads stored values of one item into the form. The form is reset
// first. Repeated fields get one slot per value in retrieval order, single
// fields take the first value. Values of fields that are not in the form
// are skipped and returned so the caller can see schema drift.
func (f *Form) Populate(ctx context.Context, values []model.FieldValue) []types.FieldID {
	f.Reset()

	grouped, order := model.GroupByField(values)
	var unknown []types.FieldID

	for _, id := range order {
		field, ok := f.fields[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}

		vals := grouped[id]
		switch v := field.(type) {
		case *RepeatedField:
			v.fill(vals)
		case *SingleField:
			if len(vals) > 1 {
				logging.From(ctx).Warn("single field has several stored values, keeping the first",
					"field_id", id,
					"count", len(vals))
			}
			v.input.set(&vals[0])
		}

		required := field.Definition().Required
		for _, s := range field.Live() {
			s.checkRequired(required)
		}
	}

	if len(unknown) > 0 {
		logging.From(ctx).Warn("stored values refer to fields missing from the schema",
			"field_ids", unknown)
	}
	return unknown
}
