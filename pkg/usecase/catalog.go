package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/model/form"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// CatalogUseCase serves the DMS collaborator contract on top of a
// repository. It implements every service of interfaces.Backend.
type CatalogUseCase struct {
	repo      interfaces.Repository
	catalog   *config.Catalog
	validator *model.FieldValidator
	notifier  interfaces.Notifier
}

var (
	_ interfaces.Backend         = &CatalogUseCase{}
	_ interfaces.SchemaService   = &CatalogUseCase{}
	_ interfaces.DropdownService = &CatalogUseCase{}
	_ interfaces.ItemService     = &CatalogUseCase{}
	_ interfaces.BatchService    = &CatalogUseCase{}
)

// NewCatalogUseCase creates a CatalogUseCase. notifier may be nil.
func NewCatalogUseCase(repo interfaces.Repository, catalog *config.Catalog, notifier interfaces.Notifier) *CatalogUseCase {
	return &CatalogUseCase{
		repo:      repo,
		catalog:   catalog,
		validator: model.NewFieldValidator(catalog.Schema),
		notifier:  notifier,
	}
}

func (uc *CatalogUseCase) Schema() interfaces.SchemaService     { return uc }
func (uc *CatalogUseCase) Dropdowns() interfaces.DropdownService { return uc }
func (uc *CatalogUseCase) Items() interfaces.ItemService         { return uc }
func (uc *CatalogUseCase) Batches() interfaces.BatchService      { return uc }

func (uc *CatalogUseCase) ListFields(ctx context.Context) ([]config.FieldDefinition, error) {
	return uc.catalog.Schema.Fields(), nil
}

func (uc *CatalogUseCase) ListComponentTypes(ctx context.Context) ([]config.ComponentType, error) {
	return slices.Clone(uc.catalog.ComponentTypes), nil
}

func (uc *CatalogUseCase) ListGroups(ctx context.Context) ([]config.MetadataGroup, error) {
	return slices.Clone(uc.catalog.Groups), nil
}

func (uc *CatalogUseCase) ListDropdowns(ctx context.Context) ([]config.Dropdown, error) {
	dropdowns := make([]config.Dropdown, 0, len(uc.catalog.Dropdowns))
	for _, dd := range uc.catalog.Dropdowns {
		dd.Options = slices.Clone(dd.Options)
		dropdowns = append(dropdowns, dd)
	}
	return dropdowns, nil
}

// resolveBatch returns the referenced batch, opening a current one if
// needed
func (uc *CatalogUseCase) resolveBatch(ctx context.Context, ref model.BatchRef) (*model.Batch, error) {
	if ref.IsCurrent() {
		b, err := uc.repo.Batch().Current(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get current batch")
		}
		return b, nil
	}

	b, err := uc.repo.Batch().Get(ctx, ref.ID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrBatchNotFound, "unknown batch", goerr.V(BatchIDKey, ref.ID))
		}
		return nil, goerr.Wrap(err, "failed to get batch", goerr.V(BatchIDKey, ref.ID))
	}
	return b, nil
}

func (uc *CatalogUseCase) getItem(ctx context.Context, id types.ItemID) (*model.Item, error) {
	item, err := uc.repo.Item().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrItemNotFound, "unknown item", goerr.V(ItemIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get item", goerr.V(ItemIDKey, id))
	}
	return item, nil
}

// SubmitValues validates a submission and stores it. A create opens the
// target item in the referenced batch; an update replaces every value of
// the item.
func (uc *CatalogUseCase) SubmitValues(ctx context.Context, sub *model.Submission) (*model.SubmitResult, error) {
	entries, err := uc.validator.ValidateSubmission(sub)
	if err != nil {
		return nil, goerr.Wrap(err, "submission rejected")
	}

	if dropped := len(sub.Items) - len(entries); dropped > 0 {
		logging.From(ctx).Warn("submission refers to fields missing from the schema",
			"dropped", dropped)
	}

	values := make([]model.FieldValue, 0, len(entries))
	for _, e := range entries {
		values = append(values, model.FieldValue{FieldID: e.FieldID, Value: e.Value})
	}
	metadata := uc.validator.Denormalize(values)

	if sub.IsUpdate() {
		item, err := uc.getItem(ctx, *sub.ItemID)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.FieldValue().Replace(ctx, item.ID, values); err != nil {
			return nil, goerr.Wrap(err, "failed to save field values", goerr.V(ItemIDKey, item.ID))
		}
		item.Metadata = metadata
		updated, err := uc.repo.Item().Update(ctx, item)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to update item", goerr.V(ItemIDKey, item.ID))
		}
		return &model.SubmitResult{ItemID: updated.ID, Name: updated.Name}, nil
	}

	batch, err := uc.resolveBatch(ctx, sub.Batch)
	if err != nil {
		return nil, err
	}
	if batch.Committed {
		return nil, goerr.Wrap(model.ErrBatchCommitted, "cannot add items to a committed batch",
			goerr.V(BatchIDKey, batch.ID))
	}

	created, err := uc.repo.Item().Create(ctx, &model.Item{
		Name:     sub.FileName,
		BatchID:  batch.ID,
		Metadata: metadata,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create item")
	}
	if err := uc.repo.FieldValue().Replace(ctx, created.ID, values); err != nil {
		if delErr := uc.repo.Item().Delete(ctx, created.ID); delErr != nil {
			logging.From(ctx).Error("failed to remove item without values",
				"item_id", created.ID, "error", delErr.Error())
		}
		return nil, goerr.Wrap(err, "failed to save field values", goerr.V(ItemIDKey, created.ID))
	}

	logging.From(ctx).Info("item created",
		"item_id", created.ID,
		"name", created.Name,
		"batch_id", batch.ID)

	return &model.SubmitResult{ItemID: created.ID, Name: created.Name}, nil
}

func (uc *CatalogUseCase) ListFieldValues(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error) {
	if _, err := uc.getItem(ctx, itemID); err != nil {
		return nil, err
	}

	values, err := uc.repo.FieldValue().GetByItemID(ctx, itemID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get field values", goerr.V(ItemIDKey, itemID))
	}
	return values, nil
}

// DeleteItem removes an item together with its values
func (uc *CatalogUseCase) DeleteItem(ctx context.Context, itemID types.ItemID) error {
	if _, err := uc.getItem(ctx, itemID); err != nil {
		return err
	}

	if err := uc.repo.FieldValue().DeleteByItemID(ctx, itemID); err != nil {
		return goerr.Wrap(err, "failed to delete field values", goerr.V(ItemIDKey, itemID))
	}
	if err := uc.repo.Item().Delete(ctx, itemID); err != nil {
		return goerr.Wrap(err, "failed to delete item", goerr.V(ItemIDKey, itemID))
	}
	return nil
}

func (uc *CatalogUseCase) ListItems(ctx context.Context, ref model.BatchRef) (*model.BatchItems, error) {
	batch, err := uc.resolveBatch(ctx, ref)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.Item().ListByBatch(ctx, batch.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list items", goerr.V(BatchIDKey, batch.ID))
	}
	return &model.BatchItems{Batch: batch, Items: items}, nil
}

// ListBatches returns every batch ordered by ID
func (uc *CatalogUseCase) ListBatches(ctx context.Context) ([]*model.Batch, error) {
	batches, err := uc.repo.Batch().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list batches")
	}
	return batches, nil
}

// CommitBatch closes the referenced batch with a YYYY-MM-DD delivery date
// and opens the next current batch
func (uc *CatalogUseCase) CommitBatch(ctx context.Context, ref model.BatchRef, deliveryDate string) (*model.Batch, error) {
	date, err := form.ParseDate(deliveryDate, types.StorageDateLayout)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidDeliveryDate, err.Error(), goerr.V("delivery_date", deliveryDate))
	}

	batch, err := uc.resolveBatch(ctx, ref)
	if err != nil {
		return nil, err
	}

	committed, err := uc.repo.Batch().Commit(ctx, batch.ID, date)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to commit batch", goerr.V(BatchIDKey, batch.ID))
	}

	logging.From(ctx).Info("batch committed",
		"batch_id", committed.ID,
		"delivery_date", deliveryDate)

	if uc.notifier != nil {
		uc.notifier.Notify(ctx, model.Info(fmt.Sprintf("Batch %d committed for delivery on %s",
			committed.ID, deliveryDate)))
	}

	return committed, nil
}
