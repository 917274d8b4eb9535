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

type batchRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBatchRepository(client *firestore.Client) *batchRepository {
	return &batchRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *batchRepository) batchesCollection() string {
	return CollectionName(r.collectionPrefix, BatchesCollection)
}

func (r *batchRepository) counterRef() *firestore.DocumentRef {
	return r.client.Collection(CollectionName(r.collectionPrefix, countersCollection)).Doc("batch_counter")
}

func (r *batchRepository) docRef(id types.BatchID) *firestore.DocumentRef {
	return r.client.Collection(r.batchesCollection()).Doc(fmt.Sprintf("%d", id))
}

// openInTx creates a new current batch inside tx
func (r *batchRepository) openInTx(tx *firestore.Transaction) (*model.Batch, error) {
	id, err := nextIDInTx(tx, r.counterRef())
	if err != nil {
		return nil, err
	}

	b := &model.Batch{
		ID:        types.BatchID(id),
		Current:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Set(r.docRef(b.ID), b); err != nil {
		return nil, goerr.Wrap(err, "failed to create batch", goerr.V("id", b.ID))
	}
	return b, nil
}

func (r *batchRepository) Get(ctx context.Context, id types.BatchID) (*model.Batch, error) {
	docSnap, err := r.docRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(interfaces.ErrNotFound, "batch not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get batch", goerr.V("id", id))
	}

	var b model.Batch
	if err := docSnap.DataTo(&b); err != nil {
		return nil, goerr.Wrap(err, "failed to decode batch", goerr.V("id", id))
	}
	return &b, nil
}

func (r *batchRepository) Current(ctx context.Context) (*model.Batch, error) {
	var current *model.Batch
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		q := r.client.Collection(r.batchesCollection()).Where("Current", "==", true).Limit(1)
		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to query current batch")
		}

		if len(docs) > 0 {
			var b model.Batch
			if err := docs[0].DataTo(&b); err != nil {
				return goerr.Wrap(err, "failed to decode batch", goerr.V("doc_id", docs[0].Ref.ID))
			}
			current = &b
			return nil
		}

		current, err = r.openInTx(tx)
		return err
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get current batch")
	}

	return current, nil
}

func (r *batchRepository) Commit(ctx context.Context, id types.BatchID, deliveryDate time.Time) (*model.Batch, error) {
	var committed *model.Batch
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(r.docRef(id))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(interfaces.ErrNotFound, "batch not found", goerr.V("id", id))
			}
			return goerr.Wrap(err, "failed to get batch", goerr.V("id", id))
		}

		var b model.Batch
		if err := docSnap.DataTo(&b); err != nil {
			return goerr.Wrap(err, "failed to decode batch", goerr.V("id", id))
		}
		if b.Committed {
			return goerr.Wrap(model.ErrBatchCommitted, "cannot commit batch", goerr.V("id", id))
		}

		wasCurrent := b.Current
		now := time.Now().UTC()
		b.Committed = true
		b.Current = false
		b.DeliveryDate = &deliveryDate
		b.CommittedAt = &now

		if wasCurrent {
			// counter read must precede the batch write
			if _, err := r.openInTx(tx); err != nil {
				return err
			}
		}
		if err := tx.Set(r.docRef(id), &b); err != nil {
			return goerr.Wrap(err, "failed to update batch", goerr.V("id", id))
		}

		committed = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	return committed, nil
}

func (r *batchRepository) List(ctx context.Context) ([]*model.Batch, error) {
	iter := r.client.Collection(r.batchesCollection()).OrderBy("ID", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	batches := make([]*model.Batch, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate batches")
		}

		var b model.Batch
		if err := docSnap.DataTo(&b); err != nil {
			return nil, goerr.Wrap(err, "failed to decode batch", goerr.V("doc_id", docSnap.Ref.ID))
		}
		batches = append(batches, &b)
	}

	return batches, nil
}
