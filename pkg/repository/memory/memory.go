package memory

import (
	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is a process-local repository. Data is lost on exit.
type Memory struct {
	item       *itemRepository
	fieldValue *fieldValueRepository
	batch      *batchRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		item:       newItemRepository(),
		fieldValue: newFieldValueRepository(),
		batch:      newBatchRepository(),
	}
}

func (m *Memory) Item() interfaces.ItemRepository {
	return m.item
}

func (m *Memory) FieldValue() interfaces.FieldValueRepository {
	return m.fieldValue
}

func (m *Memory) Batch() interfaces.BatchRepository {
	return m.batch
}

func (m *Memory) Close() error {
	return nil
}
