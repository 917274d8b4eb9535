package dms_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/service/dms"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type recorded struct {
	method string
	path   string
	auth   string
	reqID  string
	body   string
}

func newServer(t *testing.T, status int, response string) (*dms.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		rec.reqID = r.Header.Get(dms.RequestIDHeader)
		rec.body = string(raw)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := dms.New(srv.URL+"/", dms.WithToken("secret-token"), dms.WithTimeout(5*time.Second))
	gt.NoError(t, err).Required()
	return client, rec
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := dms.New("")
	gt.Error(t, err)
}

func TestClient_ListFields(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `[
		{"metadata_registry_id": 1, "title": "Case Title", "key": "dc.caseTitle", "isrequired": true, "ismultiple": false,
		 "componentType": {"component_type_id": 1, "name": "text"}},
		{"metadata_registry_id": 2, "title": "Judges", "key": "dc.judges", "isrequired": false, "ismultiple": true}
	]`)

	defs, err := client.Schema().ListFields(context.Background())
	gt.NoError(t, err).Required()

	gt.Value(t, rec.method).Equal(http.MethodGet)
	gt.Value(t, rec.path).Equal("/metadata-registry")
	gt.Value(t, rec.auth).Equal("Bearer secret-token")
	gt.Value(t, rec.reqID).NotEqual("")

	gt.A(t, defs).Length(2)
	gt.Value(t, defs[0].Key).Equal(types.MetadataKey("dc.caseTitle"))
	gt.B(t, defs[0].Required).True()
	gt.Value(t, defs[0].ComponentName()).Equal("text")
	gt.B(t, defs[1].Multiple).True()
	gt.Value(t, defs[1].ComponentType).Nil()
}

func TestClient_CatalogPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("component types", func(t *testing.T) {
		client, rec := newServer(t, http.StatusOK, `[{"component_type_id": 4, "name": "date"}]`)
		cts, err := client.Schema().ListComponentTypes(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, rec.path).Equal("/componenttypes")
		gt.Value(t, cts[0].Name).Equal("date")
	})

	t.Run("groups", func(t *testing.T) {
		client, rec := newServer(t, http.StatusOK, `[{"metadata_group_id": 2, "name": "Parties", "status": "active"}]`)
		groups, err := client.Schema().ListGroups(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, rec.path).Equal("/metadata-groups")
		gt.Value(t, groups[0].Status).Equal(types.StatusActive)
	})

	t.Run("dropdowns", func(t *testing.T) {
		client, rec := newServer(t, http.StatusOK, `[{"dropdown_id": 10, "name": "Courts", "code": "COURT",
			"options": [{"label": "High Court", "value": "HC"}]}]`)
		dds, err := client.Dropdowns().ListDropdowns(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, rec.path).Equal("/dropdowns")
		gt.Value(t, dds[0].Options[0].Value).Equal("HC")
	})
}

func TestClient_SubmitValues(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `{"item_id": 12, "name": "Smith_2024"}`)

	result, err := client.Items().SubmitValues(context.Background(), &model.Submission{
		FileName: "Smith_2024",
		Items: []model.SubmissionEntry{
			{FieldID: 1, Value: "Smith"},
			{FieldID: 2, Value: "2024"},
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, result.ItemID).Equal(types.ItemID(12))
	gt.Value(t, result.Name).Equal("Smith_2024")

	gt.Value(t, rec.method).Equal(http.MethodPost)
	gt.Value(t, rec.path).Equal("/metadata-registry-values")

	var body map[string]any
	gt.NoError(t, json.Unmarshal([]byte(rec.body), &body)).Required()
	gt.Value(t, body["file_name"]).Equal("Smith_2024")
	gt.A(t, body["items"].([]any)).Length(2)
	_, hasItemID := body["item_id"]
	gt.B(t, hasItemID).False()
}

func TestClient_ItemPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("values of an item", func(t *testing.T) {
		client, rec := newServer(t, http.StatusOK, `[
			{"item_id": 3, "metadata_registry_id": 7, "value": "A"},
			{"item_id": 3, "metadata_registry_id": 7, "value": "B"}
		]`)
		values, err := client.Items().ListFieldValues(ctx, 3)
		gt.NoError(t, err).Required()
		gt.Value(t, rec.path).Equal("/metadata-registry-values/item/3")
		gt.A(t, values).Length(2)
		gt.Value(t, values[1].Value).Equal("B")
	})

	t.Run("delete item", func(t *testing.T) {
		client, rec := newServer(t, http.StatusNoContent, ``)
		gt.NoError(t, client.Items().DeleteItem(ctx, 3))
		gt.Value(t, rec.method).Equal(http.MethodDelete)
		gt.Value(t, rec.path).Equal("/items/3")
	})

	t.Run("current batch items", func(t *testing.T) {
		client, rec := newServer(t, http.StatusOK, `{
			"batch": {"batch_id": 5, "is_current": true, "createdAt": "2024-03-01T10:00:00Z"},
			"items": [{"item_id": 3, "name": "Smith_2024", "createdAt": "2024-03-01T10:05:00Z",
			           "metadata": {"dc.caseTitle": "Smith"}}]
		}`)
		listing, err := client.Items().ListItems(ctx, model.CurrentBatch)
		gt.NoError(t, err).Required()
		gt.Value(t, rec.path).Equal("/items/current-batch")
		gt.Value(t, listing.Batch.ID).Equal(types.BatchID(5))
		gt.A(t, listing.Items).Length(1)
		gt.Value(t, listing.Items[0].Metadata["dc.caseTitle"]).Equal("Smith")
	})

	t.Run("items of an explicit batch", func(t *testing.T) {
		client, rec := newServer(t, http.StatusOK, `{"batch": {"batch_id": 2, "is_committed": true}, "items": []}`)
		listing, err := client.Items().ListItems(ctx, model.BatchRefOf(2))
		gt.NoError(t, err).Required()
		gt.Value(t, rec.path).Equal("/batches/2/items")
		gt.B(t, listing.Batch.Committed).True()
	})
}

func TestClient_CommitBatch(t *testing.T) {
	client, rec := newServer(t, http.StatusOK, `{"batch_id": 5, "is_committed": true, "batch_delivery_date": "2024-03-15"}`)

	b, err := client.Batches().CommitBatch(context.Background(), model.CurrentBatch, "2024-03-15")
	gt.NoError(t, err).Required()
	gt.Value(t, rec.path).Equal("/batches/commit")
	gt.Value(t, rec.body).Equal(`{"batch_delivery_date":"2024-03-15"}`)
	gt.B(t, b.Committed).True()
	gt.Value(t, b.DeliveryDate.Format("2006-01-02")).Equal("2024-03-15")
}

func TestClient_ErrorStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("unauthorized", func(t *testing.T) {
		for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
			client, _ := newServer(t, status, `{"error":"denied"}`)
			_, err := client.Schema().ListFields(ctx)
			gt.Error(t, err).Is(dms.ErrUnauthorized)
		}
	})

	t.Run("unexpected status carries status and body", func(t *testing.T) {
		client, _ := newServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
		err := client.Items().DeleteItem(ctx, 1)
		gt.Error(t, err).Is(dms.ErrUnexpectedStatus)

		var ge *goerr.Error
		gt.B(t, errors.As(err, &ge)).True()
		gt.Value(t, ge.Values()[dms.StatusKey]).Equal(http.StatusInternalServerError)
		gt.Value(t, ge.Values()[dms.BodyKey]).Equal(`{"error":"boom"}`)
	})

	t.Run("malformed body", func(t *testing.T) {
		client, _ := newServer(t, http.StatusOK, `not json`)
		_, err := client.Dropdowns().ListDropdowns(ctx)
		gt.Error(t, err)
	})
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client, err := dms.New(srv.URL, dms.WithTimeout(50*time.Millisecond))
	gt.NoError(t, err).Required()

	_, err = client.Schema().ListGroups(context.Background())
	gt.Error(t, err)
}
