package cli

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/cli/config"
	"github.com/dmsconsole/metaform/pkg/repository/firestore"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var store config.Firestore
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the index changes without applying them",
			Destination: &dryRun,
		},
	}
	flags = append(flags, store.Flags(true)...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore composite indexes used by the item and value queries",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default().With("firestore", store, "dry_run", dryRun)
			indexes := firestore.Indexes(store.CollectionPrefix())

			client, err := fireconf.NewClient(ctx, store.ProjectID(), store.DatabaseID())
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if !dryRun {
				if err := client.Migrate(ctx, indexes); err != nil {
					return goerr.Wrap(err, "failed to apply index migration")
				}
				logger.Info("Indexes are up to date")
				return nil
			}

			plan, err := client.GetMigrationPlan(ctx, indexes)
			if err != nil {
				return goerr.Wrap(err, "failed to create migration plan")
			}
			if len(plan.Steps) == 0 {
				logger.Info("No index changes required")
				return nil
			}
			for _, step := range plan.Steps {
				logger.Info("Planned index change",
					"collection", step.Collection,
					"operation", step.Operation,
					"description", step.Description,
					"destructive", step.Destructive)
			}
			return nil
		},
	}
}
