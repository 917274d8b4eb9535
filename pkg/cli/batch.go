package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

func cmdBatch() *cli.Command {
	return &cli.Command{
		Name:    "batch",
		Aliases: []string{"b"},
		Usage:   "Manage delivery batches",
		Commands: []*cli.Command{
			cmdBatchCommit(),
		},
	}
}

func cmdBatchCommit() *cli.Command {
	var env consoleEnv
	var deliveryDate string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "delivery-date",
			Aliases:     []string{"d"},
			Usage:       "Delivery date of the batch (DD-MM-YYYY)",
			Destination: &deliveryDate,
		},
	}
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:  "commit",
		Usage: "Close the batch with a delivery date and open the next one",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := env.open(c)
			if err != nil {
				return err
			}
			if _, err := uc.SelectDeliveryDate(deliveryDate); err != nil {
				return err
			}

			batch, err := uc.CommitBatch(ctx)
			if err != nil {
				return err
			}
			renderBatch(c.Root().Writer, batch)
			return nil
		},
	}
}
