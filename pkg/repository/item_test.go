package repository_test

import (
	"context"
	"testing"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/m-mizutani/gt"
)

func runItemRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Item().Create(ctx, &model.Item{
			Name:     "Smith_2024",
			BatchID:  1,
			Metadata: map[string]string{"dc.caseTitle": "Smith"},
		})
		gt.NoError(t, err).Required()
		second, err := repo.Item().Create(ctx, &model.Item{Name: "Jones_2023", BatchID: 1})
		gt.NoError(t, err).Required()

		gt.Value(t, first.ID > 0).Equal(true)
		gt.Value(t, second.ID > first.ID).Equal(true)
		gt.Value(t, first.CreatedAt.IsZero()).Equal(false)

		got, err := repo.Item().Get(ctx, first.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("Smith_2024")
		gt.Value(t, got.Metadata["dc.caseTitle"]).Equal("Smith")
	})

	t.Run("Get missing item", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Item().Get(context.Background(), 999999)
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Update keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Item().Create(ctx, &model.Item{Name: "draft", BatchID: 1})
		gt.NoError(t, err).Required()

		created.Name = "final"
		created.Metadata = map[string]string{"dc.caseYear": "2024"}
		updated, err := repo.Item().Update(ctx, created)
		gt.NoError(t, err).Required()
		gt.Value(t, updated.CreatedAt.Equal(created.CreatedAt)).Equal(true)

		got, err := repo.Item().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Name).Equal("final")
		gt.Value(t, got.Metadata["dc.caseYear"]).Equal("2024")
	})

	t.Run("Update missing item", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Item().Update(context.Background(), &model.Item{ID: 999999})
		gt.Error(t, err).Is(interfaces.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Item().Create(ctx, &model.Item{Name: "gone", BatchID: 1})
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Item().Delete(ctx, created.ID)).Required()
		_, err = repo.Item().Get(ctx, created.ID)
		gt.Error(t, err).Is(interfaces.ErrNotFound)

		gt.Error(t, repo.Item().Delete(ctx, created.ID)).Is(interfaces.ErrNotFound)
	})

	t.Run("ListByBatch filters and orders by ID", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a, err := repo.Item().Create(ctx, &model.Item{Name: "a", BatchID: 1})
		gt.NoError(t, err).Required()
		_, err = repo.Item().Create(ctx, &model.Item{Name: "b", BatchID: 2})
		gt.NoError(t, err).Required()
		c, err := repo.Item().Create(ctx, &model.Item{Name: "c", BatchID: 1})
		gt.NoError(t, err).Required()

		items, err := repo.Item().ListByBatch(ctx, 1)
		gt.NoError(t, err).Required()
		gt.Array(t, items).Length(2).Required()
		gt.Value(t, items[0].ID).Equal(a.ID)
		gt.Value(t, items[1].ID).Equal(c.ID)

		empty, err := repo.Item().ListByBatch(ctx, 77)
		gt.NoError(t, err).Required()
		gt.Array(t, empty).Length(0)
	})

	t.Run("returned items are copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Item().Create(ctx, &model.Item{
			Name:     "copy",
			Metadata: map[string]string{"k": "v"},
		})
		gt.NoError(t, err).Required()
		created.Metadata["k"] = "changed"

		got, err := repo.Item().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Metadata["k"]).Equal("v")
	})
}

func TestItemRepository_Memory(t *testing.T) {
	runItemRepositoryTest(t, newMemoryRepository)
}

func TestItemRepository_Firestore(t *testing.T) {
	runItemRepositoryTest(t, newFirestoreRepository)
}
