package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpctrl "github.com/dmsconsole/metaform/pkg/controller/http"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/repository/memory"
	"github.com/dmsconsole/metaform/pkg/service/dms"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func testCatalog() *config.Catalog {
	dropdownType := &config.ComponentType{ID: 3, Name: "dropdown"}
	courts := types.DropdownID(10)

	return &config.Catalog{
		Schema: config.NewFieldSchema([]config.FieldDefinition{
			{ID: 1, Key: "dc.caseTitle", Title: "Case Title", Required: true},
			{ID: 2, Key: "dc.caseYear", Title: "Case Year", Required: true},
			{ID: 7, Key: "dc.party", Title: "Party", Multiple: true},
			{ID: 9, Key: "dc.court", Title: "Court", ComponentType: dropdownType, DropdownID: &courts},
		}),
		ComponentTypes: []config.ComponentType{{ID: 1, Name: "text"}, *dropdownType},
		Dropdowns: []config.Dropdown{
			{ID: courts, Name: "Courts", Options: []config.DropdownOption{{Label: "High Court", Value: "HC"}}},
		},
	}
}

func setupServer(t *testing.T, opts ...httpctrl.Options) (*httptest.Server, *usecase.CatalogUseCase) {
	t.Helper()
	catalog := usecase.NewCatalogUseCase(memory.New(), testCatalog(), nil)
	opts = append(opts, httpctrl.WithBatchLister(catalog))

	srv, err := httpctrl.New(catalog, opts...)
	gt.NoError(t, err).Required()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, catalog
}

func newClient(t *testing.T, ts *httptest.Server, opts ...dms.Option) *dms.Client {
	t.Helper()
	client, err := dms.New(ts.URL, opts...)
	gt.NoError(t, err).Required()
	return client
}

func TestServer_Schema(t *testing.T) {
	ts, _ := setupServer(t)
	client := newClient(t, ts)
	ctx := context.Background()

	defs, err := client.Schema().ListFields(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, defs).Length(4)
	gt.Value(t, defs[3].Key).Equal(types.MetadataKey("dc.court"))
	gt.Value(t, *defs[3].DropdownID).Equal(types.DropdownID(10))

	cts, err := client.Schema().ListComponentTypes(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, cts).Length(2)

	groups, err := client.Schema().ListGroups(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, groups).Length(0)

	dds, err := client.Dropdowns().ListDropdowns(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, dds[0].Options[0].Label).Equal("High Court")
}

func TestServer_ItemLifecycle(t *testing.T) {
	ts, _ := setupServer(t)
	client := newClient(t, ts)
	ctx := context.Background()

	created, err := client.Items().SubmitValues(ctx, &model.Submission{
		FileName: "Smith_2024",
		Items: []model.SubmissionEntry{
			{FieldID: 1, Value: "Smith"},
			{FieldID: 2, Value: "2024"},
			{FieldID: 7, Value: "A"},
			{FieldID: 7, Value: "B"},
		},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, created.Name).Equal("Smith_2024")

	listing, err := client.Items().ListItems(ctx, model.CurrentBatch)
	gt.NoError(t, err).Required()
	gt.A(t, listing.Items).Length(1)
	gt.Value(t, listing.Items[0].Metadata["dc.party"]).Equal("A, B")
	gt.B(t, listing.Batch.Current).True()

	values, err := client.Items().ListFieldValues(ctx, created.ItemID)
	gt.NoError(t, err).Required()
	gt.A(t, values).Length(4)

	id := created.ItemID
	updated, err := client.Items().SubmitValues(ctx, &model.Submission{
		ItemID: &id,
		Items:  []model.SubmissionEntry{{FieldID: 1, Value: "Jones"}},
	})
	gt.NoError(t, err).Required()
	gt.Value(t, updated.ItemID).Equal(id)

	values, err = client.Items().ListFieldValues(ctx, id)
	gt.NoError(t, err).Required()
	gt.A(t, values).Length(1)
	gt.Value(t, values[0].Value).Equal("Jones")

	gt.NoError(t, client.Items().DeleteItem(ctx, id))
	_, err = client.Items().ListFieldValues(ctx, id)
	gt.Error(t, err).Is(dms.ErrUnexpectedStatus)
}

func TestServer_CommitBatch(t *testing.T) {
	ts, catalog := setupServer(t)
	client := newClient(t, ts)
	ctx := context.Background()

	_, err := client.Items().SubmitValues(ctx, &model.Submission{
		FileName: "Doe_2023",
		Items:    []model.SubmissionEntry{{FieldID: 1, Value: "Doe"}, {FieldID: 2, Value: "2023"}},
	})
	gt.NoError(t, err).Required()

	committed, err := client.Batches().CommitBatch(ctx, model.CurrentBatch, "2024-03-15")
	gt.NoError(t, err).Required()
	gt.B(t, committed.Committed).True()

	// the committed batch keeps its items, a fresh batch is open
	old, err := client.Items().ListItems(ctx, model.BatchRefOf(committed.ID))
	gt.NoError(t, err).Required()
	gt.A(t, old.Items).Length(1)

	current, err := client.Items().ListItems(ctx, model.CurrentBatch)
	gt.NoError(t, err).Required()
	gt.A(t, current.Items).Length(0)
	gt.Value(t, current.Batch.ID).NotEqual(committed.ID)

	batches, err := catalog.ListBatches(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, batches).Length(2)
}

func TestServer_ErrorStatus(t *testing.T) {
	ts, _ := setupServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"missing required", http.MethodPost, "/metadata-registry-values",
			`{"items":[{"metadata_registry_id":1,"value":"Smith"}],"file_name":"x"}`, http.StatusBadRequest},
		{"too many values", http.MethodPost, "/metadata-registry-values",
			`{"items":[{"metadata_registry_id":1,"value":"a"},{"metadata_registry_id":1,"value":"b"}],"item_id":1}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/metadata-registry-values", `{`, http.StatusBadRequest},
		{"unknown item", http.MethodDelete, "/items/99", ``, http.StatusNotFound},
		{"bad item id", http.MethodGet, "/metadata-registry-values/item/abc", ``, http.StatusBadRequest},
		{"unknown batch", http.MethodGet, "/batches/42/items", ``, http.StatusNotFound},
		{"commit without date", http.MethodPost, "/batches/commit", `{}`, http.StatusBadRequest},
		{"commit with bad date", http.MethodPost, "/batches/commit", `{"batch_delivery_date":"15-03-2024"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			gt.NoError(t, err).Required()

			resp, err := http.DefaultClient.Do(req)
			gt.NoError(t, err).Required()
			defer resp.Body.Close()

			gt.Value(t, resp.StatusCode).Equal(tt.status)

			var body struct {
				Error string `json:"error"`
			}
			gt.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			gt.String(t, body.Error).NotEqual("")
		})
	}
}

func TestServer_CommittedBatchConflict(t *testing.T) {
	ts, _ := setupServer(t)
	client := newClient(t, ts)
	ctx := context.Background()

	committed, err := client.Batches().CommitBatch(ctx, model.CurrentBatch, "2024-03-15")
	gt.NoError(t, err).Required()

	_, err = client.Batches().CommitBatch(ctx, model.BatchRefOf(committed.ID), "2024-03-16")
	gt.Error(t, err).Is(dms.ErrUnexpectedStatus)
	gt.String(t, err.Error()).Contains("backend call failed")
}

func TestServer_Auth(t *testing.T) {
	authUC, err := usecase.NewAuthUseCase([]byte("test-secret"))
	gt.NoError(t, err).Required()

	ts, _ := setupServer(t, httpctrl.WithAuth(authUC))
	ctx := context.Background()

	t.Run("health is public", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health")
		gt.NoError(t, err).Required()
		defer resp.Body.Close()
		gt.Value(t, resp.StatusCode).Equal(http.StatusOK)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := newClient(t, ts).Schema().ListFields(ctx)
		gt.Error(t, err).Is(dms.ErrUnauthorized)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := newClient(t, ts, dms.WithToken("not-a-jwt")).Schema().ListFields(ctx)
		gt.Error(t, err).Is(dms.ErrUnauthorized)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := usecase.NewAuthUseCase([]byte("other-secret"))
		gt.NoError(t, err).Required()
		token, err := other.Issue("alice", "Alice", time.Hour)
		gt.NoError(t, err).Required()

		_, err = newClient(t, ts, dms.WithToken(token)).Schema().ListFields(ctx)
		gt.Error(t, err).Is(dms.ErrUnauthorized)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := authUC.Issue("alice", "Alice", time.Hour)
		gt.NoError(t, err).Required()

		defs, err := newClient(t, ts, dms.WithToken(token)).Schema().ListFields(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, defs).Length(4)
	})
}

func TestServer_NoAuthn(t *testing.T) {
	ts, _ := setupServer(t, httpctrl.WithAuth(usecase.NewNoAuthnUseCase("dev")))

	_, err := newClient(t, ts).Schema().ListFields(context.Background())
	gt.NoError(t, err)
}

func TestNew_RequiresBackend(t *testing.T) {
	_, err := httpctrl.New(nil)
	gt.Error(t, err)
}
