package cli

import (
	"context"
	"strings"

	"github.com/dmsconsole/metaform/pkg/domain/model/form"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// assignment is one --set key=value
type assignment struct {
	key    types.MetadataKey
	values []string
}

// parseAssignments groups key=value pairs by key in order of first
// appearance. Repeating a key appends a value.
func parseAssignments(raw []string) ([]assignment, error) {
	var result []assignment
	index := make(map[types.MetadataKey]int)

	for _, r := range raw {
		k, v, ok := strings.Cut(r, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, goerr.Wrap(ErrInvalidAssignment, "invalid --set", goerr.V(ValueKey, r))
		}
		key := types.MetadataKey(k)
		if i, seen := index[key]; seen {
			result[i].values = append(result[i].values, v)
			continue
		}
		index[key] = len(result)
		result = append(result, assignment{key: key, values: []string{v}})
	}
	return result, nil
}

// applyAssignments writes the values into the loaded form. A key replaces
// every live value of its field; keys not mentioned keep their values.
func applyAssignments(ctx context.Context, uc *usecase.FileCreationUseCase, assignments []assignment) error {
	schema := uc.Schema()
	f := uc.Form()

	for _, a := range assignments {
		def, ok := schema.ByKey(a.key)
		if !ok {
			return goerr.Wrap(ErrUnknownKey, "cannot set value", goerr.V(KeyKey, a.key))
		}
		if !def.Multiple && len(a.values) > 1 {
			return goerr.Wrap(ErrSingleValued, "cannot set value",
				goerr.V(KeyKey, a.key), goerr.V("count", len(a.values)))
		}

		values := make([]string, len(a.values))
		for i, v := range a.values {
			if def.IsDate() && v != "" {
				if _, digits := form.FormatDateDigits(v); !form.IsValidDateDigits(digits) {
					return goerr.Wrap(ErrInvalidDate, "cannot set value",
						goerr.V(KeyKey, a.key), goerr.V(ValueKey, v))
				}
			}
			resolved, err := resolveOption(uc, def.ID, a.key, v)
			if err != nil {
				return err
			}
			values[i] = resolved
		}

		field, _ := f.Field(def.ID)
		live := liveIndexes(field)

		for i, v := range values {
			idx := 0
			if i < len(live) {
				idx = live[i]
			} else {
				added, err := uc.AddValue(def.ID)
				if err != nil {
					return goerr.Wrap(err, "cannot add value", goerr.V(KeyKey, a.key))
				}
				idx = added
			}

			if err := uc.Input(ctx, def.ID, idx, v); err != nil {
				return goerr.Wrap(err, "cannot set value", goerr.V(KeyKey, a.key))
			}
		}

		if len(live) > len(values) {
			for _, idx := range live[len(values):] {
				if _, err := uc.RemoveValue(def.ID, idx); err != nil {
					return goerr.Wrap(err, "cannot remove value", goerr.V(KeyKey, a.key))
				}
			}
		}
	}
	return nil
}

// resolveOption maps a dropdown label to its value. Fields without
// options take v as is.
func resolveOption(uc *usecase.FileCreationUseCase, id types.FieldID, key types.MetadataKey, v string) (string, error) {
	options := uc.Choices(id)
	if len(options) == 0 {
		return v, nil
	}
	for _, o := range options {
		if o.Value == v {
			return v, nil
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.Label, v) {
			return o.Value, nil
		}
	}
	return "", goerr.Wrap(ErrInvalidOption, "cannot set value", goerr.V(KeyKey, key), goerr.V(ValueKey, v))
}

// liveIndexes returns the slot indexes of field that are not deleted
func liveIndexes(field form.Field) []int {
	switch fld := field.(type) {
	case *form.SingleField:
		return []int{0}
	case *form.RepeatedField:
		var live []int
		for i, s := range fld.Slots() {
			if !s.Deleted() {
				live = append(live, i)
			}
		}
		return live
	}
	return nil
}
