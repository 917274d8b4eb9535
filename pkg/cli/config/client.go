package config

import (
	"log/slog"
	"time"

	"github.com/dmsconsole/metaform/pkg/service/dms"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Client holds CLI flags for the DMS backend client
type Client struct {
	url     string
	token   string
	timeout time.Duration
}

func (x *Client) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Usage:       "Base URL of the DMS backend",
			Value:       "http://localhost:8080",
			Category:    "Backend",
			Sources:     cli.EnvVars("METAFORM_BACKEND_URL"),
			Destination: &x.url,
		},
		&cli.StringFlag{
			Name:        "backend-token",
			Usage:       "Bearer token sent to the DMS backend",
			Category:    "Backend",
			Sources:     cli.EnvVars("METAFORM_BACKEND_TOKEN"),
			Destination: &x.token,
		},
		&cli.DurationFlag{
			Name:        "backend-timeout",
			Usage:       "Timeout of each backend request",
			Value:       dms.DefaultTimeout,
			Category:    "Backend",
			Sources:     cli.EnvVars("METAFORM_BACKEND_TIMEOUT"),
			Destination: &x.timeout,
		},
	}
}

func (x Client) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("url", x.url),
		slog.Int("token.len", len(x.token)),
		slog.Duration("timeout", x.timeout),
	)
}

// Configure creates the backend client
func (x *Client) Configure() (*dms.Client, error) {
	client, err := dms.New(x.url, dms.WithToken(x.token), dms.WithTimeout(x.timeout))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create backend client")
	}
	return client, nil
}
