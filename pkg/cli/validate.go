package cli

import (
	"context"
	"fmt"

	"github.com/dmsconsole/metaform/pkg/cli/config"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var schemaCfg config.Schema
	var consoleCfg config.Console

	var flags []cli.Flag
	flags = append(flags, schemaCfg.Flags()...)
	flags = append(flags, consoleCfg.Flags()...)

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the schema and console configuration files",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			if schemaCfg.Path() == "" {
				return goerr.New("--schema is required")
			}

			catalog, err := schemaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "schema validation failed")
			}

			console, err := consoleCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "console configuration validation failed")
			}
			if err := console.CheckAgainst(catalog.Schema); err != nil {
				return goerr.Wrap(err, "console configuration does not match the schema")
			}

			logger.Info("Configuration validation passed",
				"field_count", catalog.Schema.Len(),
				"dropdown_count", len(catalog.Dropdowns),
				"table_keys", console.TableKeys,
			)
			_, _ = fmt.Fprintf(c.Root().Writer, "OK: %d fields, %d groups, %d dropdowns, %d table columns\n",
				catalog.Schema.Len(), len(catalog.Groups), len(catalog.Dropdowns), len(console.TableKeys))
			return nil
		},
	}
}
