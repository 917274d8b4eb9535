package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type fieldValueRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

// fieldValueDoc is the stored form of a FieldValue. Position keeps the
// insertion order of repeated values.
type fieldValueDoc struct {
	ItemID   int64
	FieldID  int64
	Value    string
	Position int
}

func newFieldValueRepository(client *firestore.Client) *fieldValueRepository {
	return &fieldValueRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *fieldValueRepository) fieldValuesCollection() string {
	return CollectionName(r.collectionPrefix, FieldValuesCollection)
}

func (r *fieldValueRepository) docID(itemID types.ItemID, position int) string {
	return fmt.Sprintf("%d_%d", itemID, position)
}

func (r *fieldValueRepository) byItem(itemID types.ItemID) firestore.Query {
	return r.client.Collection(r.fieldValuesCollection()).
		Where("ItemID", "==", int64(itemID)).
		OrderBy("Position", firestore.Asc)
}

func (r *fieldValueRepository) GetByItemID(ctx context.Context, itemID types.ItemID) ([]model.FieldValue, error) {
	iter := r.byItem(itemID).Documents(ctx)
	defer iter.Stop()

	values := make([]model.FieldValue, 0)
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate field values", goerr.V("item_id", itemID))
		}

		var doc fieldValueDoc
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode field value", goerr.V("doc_id", docSnap.Ref.ID))
		}

		values = append(values, model.FieldValue{
			ItemID:  types.ItemID(doc.ItemID),
			FieldID: types.FieldID(doc.FieldID),
			Value:   doc.Value,
		})
	}

	return values, nil
}

func (r *fieldValueRepository) Replace(ctx context.Context, itemID types.ItemID, values []model.FieldValue) error {
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.byItem(itemID)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to read field values")
		}

		for _, doc := range existing {
			if err := tx.Delete(doc.Ref); err != nil {
				return goerr.Wrap(err, "failed to delete field value", goerr.V("doc_id", doc.Ref.ID))
			}
		}

		col := r.client.Collection(r.fieldValuesCollection())
		for i, v := range values {
			doc := &fieldValueDoc{
				ItemID:   int64(itemID),
				FieldID:  int64(v.FieldID),
				Value:    v.Value,
				Position: i,
			}
			if err := tx.Set(col.Doc(r.docID(itemID, i)), doc); err != nil {
				return goerr.Wrap(err, "failed to save field value", goerr.V("position", i))
			}
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to replace field values", goerr.V("item_id", itemID))
	}

	return nil
}

func (r *fieldValueRepository) DeleteByItemID(ctx context.Context, itemID types.ItemID) error {
	iter := r.byItem(itemID).Documents(ctx)
	defer iter.Stop()

	// Collect document references to delete
	var docRefs []*firestore.DocumentRef
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate field values for deletion", goerr.V("item_id", itemID))
		}
		docRefs = append(docRefs, docSnap.Ref)
	}

	for _, docRef := range docRefs {
		if _, err := docRef.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete field value",
				goerr.V("item_id", itemID),
				goerr.V("doc_id", docRef.ID))
		}
	}

	return nil
}
