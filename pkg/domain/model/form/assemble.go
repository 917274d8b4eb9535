package form

import (
	"strings"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// DisplayName derives the item name from the values of the template keys,
// joined with "_". A missing field or an unset value yields an empty
// segment and a repeated field contributes its non-empty values joined
// with ",". An empty template falls back to types.LegacyFileNameKeys.
func (f *Form) DisplayName(template []string) string {
	if len(template) == 0 {
		template = types.LegacyFileNameKeys
	}

	segments := make([]string, 0, len(template))
	for _, key := range template {
		field, ok := f.FieldByKey(types.MetadataKey(key))
		if !ok {
			segments = append(segments, "")
			continue
		}
		segments = append(segments, segmentOf(field))
	}
	return strings.Join(segments, types.FileNameSeparator)
}

func segmentOf(field Field) string {
	switch v := field.(type) {
	case *SingleField:
		return v.input.Text()
	case *RepeatedField:
		var values []string
		for _, s := range v.Live() {
			if !s.IsEmpty() {
				values = append(values, s.Text())
			}
		}
		return strings.Join(values, ",")
	}
	return ""
}

// Assemble validates the form and builds the submission payload. When the
// form is invalid every slot is marked touched and
// ErrRequiredFieldsMissing is returned. With itemID the submission updates
// that item; otherwise it creates one named by DisplayName(template).
func (f *Form) Assemble(template []string, itemID *types.ItemID) (*model.Submission, error) {
	if !f.Validate() {
		f.MarkAllTouched()
		var missing []string
		for _, field := range f.Invalid() {
			missing = append(missing, field.Definition().Key.String())
		}
		return nil, goerr.Wrap(ErrRequiredFieldsMissing, "form is invalid",
			goerr.V("fields", missing))
	}

	sub := &model.Submission{}
	for _, id := range f.order {
		for _, s := range f.fields[id].Live() {
			if s.value == nil {
				continue
			}
			sub.Items = append(sub.Items, model.SubmissionEntry{
				FieldID: id,
				Value:   *s.value,
			})
		}
	}

	if itemID != nil {
		id := *itemID
		sub.ItemID = &id
	} else {
		sub.FileName = f.DisplayName(template)
	}
	return sub, nil
}
