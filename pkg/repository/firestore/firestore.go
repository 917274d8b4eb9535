package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Firestore struct {
	client     *firestore.Client
	item       *itemRepository
	fieldValue *fieldValueRepository
	batch      *batchRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.item.collectionPrefix = prefix
		f.fieldValue.collectionPrefix = prefix
		f.batch.collectionPrefix = prefix
	}
}

// New connects to Firestore. An empty databaseID selects the default
// database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		item:       newItemRepository(client),
		fieldValue: newFieldValueRepository(client),
		batch:      newBatchRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Item() interfaces.ItemRepository {
	return f.item
}

func (f *Firestore) FieldValue() interfaces.FieldValueRepository {
	return f.fieldValue
}

func (f *Firestore) Batch() interfaces.BatchRepository {
	return f.batch
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// Collection names without prefix. The migrate command declares indexes
// on the same names.
const (
	ItemsCollection       = "items"
	FieldValuesCollection = "field_values"
	BatchesCollection     = "batches"
	countersCollection    = "counters"
)

// CollectionName returns name with the collection prefix applied
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

// nextIDInTx reads and advances a counter document inside tx. It performs
// a write, so every read of the transaction must happen before it.
func nextIDInTx(tx *firestore.Transaction, counterRef *firestore.DocumentRef) (int64, error) {
	doc, err := tx.Get(counterRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 1, tx.Set(counterRef, map[string]interface{}{
				"value": int64(1),
			})
		}
		return 0, goerr.Wrap(err, "failed to get counter")
	}

	currentValue, err := doc.DataAt("value")
	if err != nil {
		return 0, goerr.Wrap(err, "failed to get counter value")
	}

	val, ok := currentValue.(int64)
	if !ok {
		return 0, goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
	}
	next := val + 1
	if err := tx.Update(counterRef, []firestore.Update{
		{Path: "value", Value: next},
	}); err != nil {
		return 0, goerr.Wrap(err, "failed to update counter")
	}
	return next, nil
}
