package firestore

import "github.com/m-mizutani/fireconf"

// Indexes returns the composite indexes the repository queries need, for
// collections named with prefix
func Indexes(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				// itemRepository.ListByBatch
				Name: CollectionName(prefix, ItemsCollection),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "BatchID", Order: fireconf.OrderAscending},
							{Path: "ID", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				// fieldValueRepository.GetByItemID
				Name: CollectionName(prefix, FieldValuesCollection),
				Indexes: []fireconf.Index{
					{
						Fields: []fireconf.IndexField{
							{Path: "ItemID", Order: fireconf.OrderAscending},
							{Path: "Position", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
