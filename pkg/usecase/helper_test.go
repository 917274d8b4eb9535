package usecase_test

import (
	"context"
	"sync"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/repository/memory"
	"github.com/dmsconsole/metaform/pkg/usecase"
)

func testCatalog() *config.Catalog {
	dateType := &config.ComponentType{ID: 2, Name: "date"}
	dropdownType := &config.ComponentType{ID: 3, Name: "dropdown"}
	courts := types.DropdownID(10)
	caseGroup := &config.MetadataGroup{ID: 1, Name: "Case", Status: types.StatusActive}

	return &config.Catalog{
		Schema: config.NewFieldSchema([]config.FieldDefinition{
			{ID: 1, Key: "dc.caseTitle", Title: "Case Title", Required: true, Group: caseGroup},
			{ID: 2, Key: "dc.caseYear", Title: "Case Year", Required: true, Group: caseGroup},
			{ID: 7, Key: "dc.party", Title: "Party", Multiple: true},
			{ID: 8, Key: "dc.filedOn", Title: "Filed On", ComponentType: dateType},
			{ID: 9, Key: "dc.court", Title: "Court", ComponentType: dropdownType, DropdownID: &courts},
		}),
		ComponentTypes: []config.ComponentType{{ID: 1, Name: "text"}, *dateType, *dropdownType},
		Groups:         []config.MetadataGroup{*caseGroup},
		Dropdowns: []config.Dropdown{
			{ID: courts, Name: "Courts", Code: "courts", Options: []config.DropdownOption{
				{Label: "High Court", Value: "HC"},
				{Label: "District Court", Value: "DC"},
			}},
		},
	}
}

func newCatalog() (*usecase.CatalogUseCase, *memory.Memory) {
	repo := memory.New()
	return usecase.NewCatalogUseCase(repo, testCatalog(), nil), repo
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (n *recordingNotifier) Notify(ctx context.Context, msg model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) messages() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	result := make([]model.Notification, len(n.sent))
	copy(result, n.sent)
	return result
}

// mockBackend forwards to an in-process catalog unless a hook is set, and
// counts every call
type mockBackend struct {
	catalog *usecase.CatalogUseCase

	mu    sync.Mutex
	calls int

	listFieldsFn      func(ctx context.Context) ([]config.FieldDefinition, error)
	listDropdownsFn   func(ctx context.Context) ([]config.Dropdown, error)
	submitValuesFn    func(ctx context.Context, sub *model.Submission) (*model.SubmitResult, error)
	listFieldValuesFn func(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error)
	deleteItemFn      func(ctx context.Context, itemID types.ItemID) error
	commitBatchFn     func(ctx context.Context, ref model.BatchRef, deliveryDate string) (*model.Batch, error)
}

var (
	_ interfaces.Backend         = &mockBackend{}
	_ interfaces.SchemaService   = &mockBackend{}
	_ interfaces.DropdownService = &mockBackend{}
	_ interfaces.ItemService     = &mockBackend{}
	_ interfaces.BatchService    = &mockBackend{}
)

func (m *mockBackend) Schema() interfaces.SchemaService     { return m }
func (m *mockBackend) Dropdowns() interfaces.DropdownService { return m }
func (m *mockBackend) Items() interfaces.ItemService         { return m }
func (m *mockBackend) Batches() interfaces.BatchService      { return m }

func (m *mockBackend) count() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockBackend) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockBackend) ListFields(ctx context.Context) ([]config.FieldDefinition, error) {
	m.count()
	if m.listFieldsFn != nil {
		return m.listFieldsFn(ctx)
	}
	return m.catalog.ListFields(ctx)
}

func (m *mockBackend) ListComponentTypes(ctx context.Context) ([]config.ComponentType, error) {
	m.count()
	return m.catalog.ListComponentTypes(ctx)
}

func (m *mockBackend) ListGroups(ctx context.Context) ([]config.MetadataGroup, error) {
	m.count()
	return m.catalog.ListGroups(ctx)
}

func (m *mockBackend) ListDropdowns(ctx context.Context) ([]config.Dropdown, error) {
	m.count()
	if m.listDropdownsFn != nil {
		return m.listDropdownsFn(ctx)
	}
	return m.catalog.ListDropdowns(ctx)
}

func (m *mockBackend) SubmitValues(ctx context.Context, sub *model.Submission) (*model.SubmitResult, error) {
	m.count()
	if m.submitValuesFn != nil {
		return m.submitValuesFn(ctx, sub)
	}
	return m.catalog.SubmitValues(ctx, sub)
}

func (m *mockBackend) ListFieldValues(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error) {
	m.count()
	if m.listFieldValuesFn != nil {
		return m.listFieldValuesFn(ctx, itemID)
	}
	return m.catalog.ListFieldValues(ctx, itemID)
}

func (m *mockBackend) DeleteItem(ctx context.Context, itemID types.ItemID) error {
	m.count()
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, itemID)
	}
	return m.catalog.DeleteItem(ctx, itemID)
}

func (m *mockBackend) ListItems(ctx context.Context, ref model.BatchRef) (*model.BatchItems, error) {
	m.count()
	return m.catalog.ListItems(ctx, ref)
}

func (m *mockBackend) CommitBatch(ctx context.Context, ref model.BatchRef, deliveryDate string) (*model.Batch, error) {
	m.count()
	if m.commitBatchFn != nil {
		return m.commitBatchFn(ctx, ref, deliveryDate)
	}
	return m.catalog.CommitBatch(ctx, ref, deliveryDate)
}
