package config

import (
	"context"
	"log/slog"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/repository/firestore"
	"github.com/dmsconsole/metaform/pkg/repository/memory"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Repository backend names
const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

// Firestore holds the flags addressing a Firestore database
type Firestore struct {
	projectID        string
	databaseID       string
	collectionPrefix string
}

// Flags returns the Firestore flags. With required the project ID must be
// given.
func (x *Firestore) Flags(required bool) []cli.Flag {
	usage := "Firestore Project ID (required when using firestore backend)"
	if required {
		usage = "Firestore Project ID"
	}
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       usage,
			Required:    required,
			Category:    "Firestore",
			Sources:     cli.EnvVars("METAFORM_FIRESTORE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Firestore",
			Sources:     cli.EnvVars("METAFORM_FIRESTORE_DATABASE_ID"),
			Destination: &x.databaseID,
		},
		&cli.StringFlag{
			Name:        "firestore-collection-prefix",
			Usage:       "Prefix prepended to every Firestore collection name",
			Category:    "Firestore",
			Sources:     cli.EnvVars("METAFORM_FIRESTORE_COLLECTION_PREFIX"),
			Destination: &x.collectionPrefix,
		},
	}
}

func (x Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("database_id", x.databaseID),
		slog.String("collection_prefix", x.collectionPrefix),
	)
}

func (x *Firestore) ProjectID() string        { return x.projectID }
func (x *Firestore) DatabaseID() string       { return x.databaseID }
func (x *Firestore) CollectionPrefix() string { return x.collectionPrefix }

// Repository holds CLI flags for repository backend configuration
type Repository struct {
	backend string
	store   Firestore
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Repository backend type (firestore or memory)",
			Value:       BackendMemory,
			Category:    "Repository",
			Sources:     cli.EnvVars("METAFORM_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
	}
	return append(flags, r.store.Flags(false)...)
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.Any("firestore", r.store),
	)
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case BackendFirestore:
		if r.store.projectID == "" {
			return nil, goerr.New("firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.store.projectID, r.store.databaseID,
			firestore.WithCollectionPrefix(r.store.collectionPrefix))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository", "firestore", r.store)
		return repo, nil

	case BackendMemory:
		logging.Default().Info("Using in-memory repository (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.New("invalid repository backend", goerr.V("backend", r.backend))
	}
}
