package types_test

import (
	"testing"

	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestMetadataKey_Validate(t *testing.T) {
	tests := []struct {
		name    string
		key     types.MetadataKey
		wantErr bool
	}{
		{"dotted", "dc.caseTitle", false},
		{"single word", "title", false},
		{"with digits", "dc.case2", false},
		{"with underscore", "dc.case_year", false},
		{"empty", "", true},
		{"leading dot", ".caseTitle", true},
		{"trailing dot", "dc.", true},
		{"double dot", "dc..caseTitle", true},
		{"spaces", "dc case", true},
		{"leading digit", "1dc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("MetadataKey.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseItemID(t *testing.T) {
	id, err := types.ParseItemID("42")
	gt.NoError(t, err).Required()
	gt.Value(t, id).Equal(types.ItemID(42))

	_, err = types.ParseItemID("0")
	gt.Error(t, err)

	_, err = types.ParseItemID("abc")
	gt.Error(t, err)
}

func TestParseBatchID(t *testing.T) {
	id, err := types.ParseBatchID("7")
	gt.NoError(t, err).Required()
	gt.Value(t, id.String()).Equal("7")

	_, err = types.ParseBatchID("-1")
	gt.Error(t, err)
}
