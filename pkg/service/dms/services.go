package dms

import (
	"context"
	"net/http"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/model/wire"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

// REST paths of the DMS backend
const (
	PathFields         = "/metadata-registry"
	PathComponentTypes = "/componenttypes"
	PathGroups         = "/metadata-groups"
	PathDropdowns      = "/dropdowns"
	PathValues         = "/metadata-registry-values"
	PathItemValues     = "/metadata-registry-values/item/"
	PathItems          = "/items/"
	PathCurrentItems   = "/items/current-batch"
	PathBatches        = "/batches/"
	PathCommit         = "/batches/commit"
)

type schemaService struct{ c *Client }

func (s *schemaService) ListFields(ctx context.Context) ([]config.FieldDefinition, error) {
	var resp []wire.FieldDefinition
	if err := s.c.do(ctx, http.MethodGet, PathFields, nil, &resp); err != nil {
		return nil, err
	}
	defs := make([]config.FieldDefinition, 0, len(resp))
	for _, w := range resp {
		defs = append(defs, w.ToModel())
	}
	return defs, nil
}

func (s *schemaService) ListComponentTypes(ctx context.Context) ([]config.ComponentType, error) {
	var resp []wire.ComponentType
	if err := s.c.do(ctx, http.MethodGet, PathComponentTypes, nil, &resp); err != nil {
		return nil, err
	}
	cts := make([]config.ComponentType, 0, len(resp))
	for _, w := range resp {
		cts = append(cts, w.ToModel())
	}
	return cts, nil
}

func (s *schemaService) ListGroups(ctx context.Context) ([]config.MetadataGroup, error) {
	var resp []wire.MetadataGroup
	if err := s.c.do(ctx, http.MethodGet, PathGroups, nil, &resp); err != nil {
		return nil, err
	}
	groups := make([]config.MetadataGroup, 0, len(resp))
	for _, w := range resp {
		groups = append(groups, w.ToModel())
	}
	return groups, nil
}

type dropdownService struct{ c *Client }

func (s *dropdownService) ListDropdowns(ctx context.Context) ([]config.Dropdown, error) {
	var resp []wire.Dropdown
	if err := s.c.do(ctx, http.MethodGet, PathDropdowns, nil, &resp); err != nil {
		return nil, err
	}
	dropdowns := make([]config.Dropdown, 0, len(resp))
	for _, w := range resp {
		dropdowns = append(dropdowns, w.ToModel())
	}
	return dropdowns, nil
}

type itemService struct{ c *Client }

func (s *itemService) SubmitValues(ctx context.Context, sub *model.Submission) (*model.SubmitResult, error) {
	var resp wire.SubmitResponse
	if err := s.c.do(ctx, http.MethodPost, PathValues, wire.FromSubmission(sub), &resp); err != nil {
		return nil, err
	}
	return &model.SubmitResult{ItemID: types.ItemID(resp.ItemID), Name: resp.Name}, nil
}

func (s *itemService) ListFieldValues(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error) {
	var resp []wire.FieldValue
	if err := s.c.do(ctx, http.MethodGet, PathItemValues+itemID.String(), nil, &resp); err != nil {
		return nil, err
	}
	values := make([]model.FieldValue, 0, len(resp))
	for _, w := range resp {
		values = append(values, w.ToModel())
	}
	return values, nil
}

func (s *itemService) DeleteItem(ctx context.Context, itemID types.ItemID) error {
	return s.c.do(ctx, http.MethodDelete, PathItems+itemID.String(), nil, nil)
}

func (s *itemService) ListItems(ctx context.Context, ref model.BatchRef) (*model.BatchItems, error) {
	path := PathCurrentItems
	if !ref.IsCurrent() {
		path = PathBatches + ref.ID.String() + "/items"
	}

	var resp wire.BatchItems
	if err := s.c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ToModel(), nil
}

type batchService struct{ c *Client }

func (s *batchService) CommitBatch(ctx context.Context, ref model.BatchRef, deliveryDate string) (*model.Batch, error) {
	req := wire.CommitRequest{DeliveryDate: deliveryDate}
	if !ref.IsCurrent() {
		id := int64(ref.ID)
		req.BatchID = &id
	}

	var resp wire.Batch
	if err := s.c.do(ctx, http.MethodPost, PathCommit, req, &resp); err != nil {
		return nil, err
	}
	return resp.ToModel(), nil
}
