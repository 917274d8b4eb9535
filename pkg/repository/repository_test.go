package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/repository/firestore"
	"github.com/dmsconsole/metaform/pkg/repository/memory"
	"github.com/m-mizutani/gt"
)

func newMemoryRepository(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	// isolate every test run
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())

	repo, err := firestore.New(context.Background(), projectID, databaseID,
		firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}
