package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type itemRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newItemRepository(client *firestore.Client) *itemRepository {
	return &itemRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *itemRepository) itemsCollection() string {
	return CollectionName(r.collectionPrefix, ItemsCollection)
}

func (r *itemRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, countersCollection)).Doc("item_counter")
}

func (r *itemRepository) docRef(id types.ItemID) *firestore.DocumentRef {
	return r.client.Collection(r.itemsCollection()).Doc(fmt.Sprintf("%d", id))
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) (*model.Item, error) {
	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		id, err := nextIDInTx(tx, r.counterRef())
		nextID = id
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := &model.Item{
		ID:        types.ItemID(nextID),
		Name:      item.Name,
		BatchID:   item.BatchID,
		Metadata:  item.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.docRef(created.ID).Set(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to create item", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *itemRepository) Get(ctx context.Context, id types.ItemID) (*model.Item, error) {
	docSnap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "item not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get item", goerr.V("id", id))
	}

	var item model.Item
	if err := docSnap.DataTo(&item); err != nil {
		return nil, goerr.Wrap(err, "failed to decode item", goerr.V("id", id))
	}

	return &item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) (*model.Item, error) {
	existing, err := r.Get(ctx, item.ID)
	if err != nil {
		return nil, err
	}

	updated := &model.Item{
		ID:        item.ID,
		Name:      item.Name,
		BatchID:   item.BatchID,
		Metadata:  item.Metadata,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := r.docRef(item.ID).Set(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to update item", goerr.V("id", item.ID))
	}

	return updated, nil
}

func (r *itemRepository) Delete(ctx context.Context, id types.ItemID) error {
	docRef := r.docRef(id)

	// Check if document exists
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(interfaces.ErrNotFound, "item not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check item existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete item", goerr.V("id", id))
	}

	return nil
}

func (r *itemRepository) ListByBatch(ctx context.Context, batchID types.BatchID) ([]*model.Item, error) {
	iter := r.client.Collection(r.itemsCollection()).
		Where("BatchID", "==", int64(batchID)).
		OrderBy("ID", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	items := make([]*model.Item, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate items", goerr.V("batch_id", batchID))
		}

		var item model.Item
		if err := docSnap.DataTo(&item); err != nil {
			return nil, goerr.Wrap(err, "failed to decode item", goerr.V("doc_id", docSnap.Ref.ID))
		}
		items = append(items, &item)
	}

	return items, nil
}
