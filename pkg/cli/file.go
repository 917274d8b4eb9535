package cli

import (
	"context"
	"fmt"

	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdFile() *cli.Command {
	return &cli.Command{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Create, edit, list and delete items of a batch",
		Commands: []*cli.Command{
			cmdFileSchema(),
			cmdFileList(),
			cmdFileShow(),
			cmdFileCreate(),
			cmdFileEdit(),
			cmdFileDelete(),
		},
	}
}

func cmdFileSchema() *cli.Command {
	var env consoleEnv

	return &cli.Command{
		Name:  "schema",
		Usage: "Show the metadata fields grouped by section",
		Flags: env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.open(c)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}
			renderSchema(c.Root().Writer, uc)
			return nil
		},
	}
}

func cmdFileList() *cli.Command {
	var env consoleEnv

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List the items of the batch",
		Flags:   env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.open(c)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}
			renderBatch(c.Root().Writer, uc.Batch())
			renderTable(c.Root().Writer, uc.Table())
			return nil
		},
	}
}

func cmdFileShow() *cli.Command {
	var env consoleEnv

	return &cli.Command{
		Name:      "show",
		Usage:     "Show the stored values of an item",
		ArgsUsage: "<item-id>",
		Flags:     env.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := itemIDArg(c)
			if err != nil {
				return err
			}
			uc, err := env.open(c)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}
			if err := uc.Edit(ctx, id); err != nil {
				return err
			}
			renderForm(c.Root().Writer, uc.Form())
			uc.Cancel()
			return nil
		},
	}
}

func cmdFileCreate() *cli.Command {
	var env consoleEnv
	var sets []string

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "set",
			Aliases:     []string{"s"},
			Usage:       "Field value as metadata-key=value (repeat a key for multiple values)",
			Destination: &sets,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:  "create",
		Usage: "Create an item from field values",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}

			uc, err := env.open(c)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}
			if err := applyAssignments(ctx, uc, assignments); err != nil {
				return err
			}

			result, err := uc.Submit(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.Root().Writer, "Created item %d (%s)\n", result.ItemID, result.Name)
			return nil
		},
	}
}

func cmdFileEdit() *cli.Command {
	var env consoleEnv
	var sets []string

	flags := []cli.Flag{
		&cli.StringSliceFlag{
			Name:        "set",
			Aliases:     []string{"s"},
			Usage:       "Replace the values of a field as metadata-key=value (repeat a key for multiple values)",
			Destination: &sets,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:      "edit",
		Usage:     "Replace field values of an existing item",
		ArgsUsage: "<item-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := itemIDArg(c)
			if err != nil {
				return err
			}
			assignments, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			if len(assignments) == 0 {
				return ErrNothingToChange
			}

			uc, err := env.open(c)
			if err != nil {
				return err
			}
			if err := uc.Load(ctx); err != nil {
				return err
			}
			if err := uc.Edit(ctx, id); err != nil {
				return err
			}
			if err := applyAssignments(ctx, uc, assignments); err != nil {
				uc.Cancel()
				return err
			}

			result, err := uc.Submit(ctx)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.Root().Writer, "Updated item %d (%s)\n", result.ItemID, result.Name)
			return nil
		},
	}
}

func cmdFileDelete() *cli.Command {
	var env consoleEnv
	var yes bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "Do not ask for confirmation",
			Destination: &yes,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete an item and its values",
		ArgsUsage: "<item-id>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := itemIDArg(c)
			if err != nil {
				return err
			}
			uc, err := env.open(c)
			if err != nil {
				return err
			}

			confirmer := promptConfirmer(c.Root().Writer, c.Root().Reader)
			if yes {
				confirmer = usecase.AlwaysConfirm
			}

			deleted, err := uc.Delete(ctx, id, confirmer)
			if err != nil {
				return err
			}
			if !deleted {
				_, _ = fmt.Fprintln(c.Root().Writer, "Canceled")
			}
			return nil
		},
	}
}
