package model

import (
	"strings"

	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// FieldValidator validates submissions against the field schema on the
// backend side
type FieldValidator struct {
	schema *config.FieldSchema
}

// NewFieldValidator creates a new FieldValidator with the given schema
func NewFieldValidator(schema *config.FieldSchema) *FieldValidator {
	return &FieldValidator{
		schema: schema,
	}
}

// ValidateSubmission checks a submission and returns the entries that refer
// to known fields. Unknown field ids are dropped rather than rejected so that
// clients built against an older schema keep working. Required fields are
// only enforced on create; an update replaces what it sends.
func (v *FieldValidator) ValidateSubmission(sub *Submission) ([]SubmissionEntry, error) {
	if sub.ItemID != nil && sub.FileName != "" {
		return nil, goerr.Wrap(ErrAmbiguousTarget, "invalid submission",
			goerr.V("item_id", *sub.ItemID))
	}

	counts := make(map[types.FieldID]int)
	accepted := make([]SubmissionEntry, 0, len(sub.Items))
	for _, entry := range sub.Items {
		if _, ok := v.schema.ByID(entry.FieldID); !ok {
			// Skip unknown fields (for forward compatibility when field is removed from schema)
			continue
		}
		counts[entry.FieldID]++
		accepted = append(accepted, entry)
	}

	for id, n := range counts {
		def, _ := v.schema.ByID(id)
		if !def.Multiple && n > 1 {
			return nil, goerr.Wrap(ErrMultipleValues, "too many values for field",
				goerr.V(FieldIDKey, id),
				goerr.V(FieldKeyKey, def.Key),
				goerr.V(ValueCountKey, n))
		}
	}

	if sub.IsUpdate() {
		return accepted, nil
	}
	if strings.TrimSpace(sub.FileName) == "" {
		return nil, goerr.Wrap(ErrMissingFileName, "invalid submission")
	}

	provided := make(map[types.FieldID]bool)
	for _, entry := range accepted {
		if strings.TrimSpace(entry.Value) != "" {
			provided[entry.FieldID] = true
		}
	}
	for _, def := range v.schema.Fields() {
		if def.Required && !provided[def.ID] {
			return nil, goerr.Wrap(ErrMissingRequired, "required field not provided",
				goerr.V(FieldIDKey, def.ID),
				goerr.V(FieldKeyKey, def.Key))
		}
	}

	if len(accepted) == 0 {
		return nil, goerr.Wrap(ErrEmptySubmission, "nothing to save")
	}

	return accepted, nil
}

// Denormalize builds the listing metadata of an item from its values.
// Repeated values are joined with ", " in insertion order.
func (v *FieldValidator) Denormalize(values []FieldValue) map[string]string {
	grouped, order := GroupByField(values)
	metadata := make(map[string]string, len(order))
	for _, id := range order {
		def, ok := v.schema.ByID(id)
		if !ok {
			continue
		}
		metadata[def.Key.String()] = strings.Join(grouped[id], ", ")
	}
	return metadata
}
