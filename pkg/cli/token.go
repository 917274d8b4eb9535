package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmsconsole/metaform/pkg/cli/config"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdToken() *cli.Command {
	var authCfg config.Auth
	var subject string
	var name string
	var ttl time.Duration

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "subject",
			Usage:       "Subject (sub claim) of the token",
			Required:    true,
			Destination: &subject,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Display name of the subject",
			Destination: &name,
		},
		&cli.DurationFlag{
			Name:        "ttl",
			Usage:       "Token lifetime",
			Value:       24 * time.Hour,
			Destination: &ttl,
		},
	}
	flags = append(flags, authCfg.Flags()...)

	return &cli.Command{
		Name:  "token",
		Usage: "Issue an HS256 bearer token for the reference backend (development)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			issuer, err := authCfg.Issuer()
			if err != nil {
				return err
			}

			token, err := issuer.Issue(subject, name, ttl)
			if err != nil {
				return goerr.Wrap(err, "failed to issue token", goerr.V("subject", subject))
			}

			_, _ = fmt.Fprintln(c.Root().Writer, token)
			return nil
		},
	}
}
