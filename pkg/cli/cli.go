package cli

import (
	"context"
	"io"
	"os"

	"github.com/dmsconsole/metaform/pkg/cli/config"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	app := newApp(version, os.Stdout, os.Stderr, os.Stdin)

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

func newApp(version string, w, errW io.Writer, r io.Reader) *cli.Command {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)

	return &cli.Command{
		Name:      "metaform",
		Usage:     "Metadata-driven admin console for a document management system",
		Version:   version,
		Flags:     flags,
		Writer:    w,
		ErrWriter: errW,
		Reader:    r,

		DisableSliceFlagSeparator: true,

		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			sentryCfg.SetRelease(version)
			flush, err := sentryCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting metaform", "logger", loggerCfg, "sentry", sentryCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdMigrate(),
			cmdValidate(),
			cmdToken(),
			cmdFile(),
			cmdBatch(),
		},
	}
}
