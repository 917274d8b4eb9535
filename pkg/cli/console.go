package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmsconsole/metaform/pkg/cli/config"
	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/service/notify"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// consoleEnv carries the flags shared by the console commands
type consoleEnv struct {
	client  config.Client
	console config.Console
	slack   config.Slack
}

func (e *consoleEnv) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, e.client.Flags()...)
	flags = append(flags, e.console.Flags()...)
	flags = append(flags, e.slack.Flags()...)
	return flags
}

// open creates the file creation use case against the configured backend.
// Notifications go to the command's error writer and, when configured, to
// Slack.
func (e *consoleEnv) open(c *cli.Command) (*usecase.FileCreationUseCase, error) {
	client, err := e.client.Configure()
	if err != nil {
		return nil, err
	}

	cfg, err := e.console.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load console configuration")
	}

	notifiers := notify.Multi{notify.NewConsole(c.Root().ErrWriter)}
	slackNotifier, err := e.slack.Configure(false)
	if err != nil {
		return nil, err
	}
	if slackNotifier != nil {
		notifiers = append(notifiers, slackNotifier)
	}

	opts := []usecase.FileCreationOption{
		usecase.WithTableKeys(cfg.TableKeys),
		usecase.WithFileNameTemplate(cfg.FileNameTemplate),
	}
	if id := e.console.BatchID(); id != 0 {
		opts = append(opts, usecase.WithBatch(model.BatchRefOf(id)))
	}

	logging.Default().Debug("Console configuration",
		"client", e.client,
		"console", e.console)

	return usecase.NewFileCreationUseCase(client, interfaces.Notifier(notifiers), opts...), nil
}

func itemIDArg(c *cli.Command) (types.ItemID, error) {
	raw := c.Args().First()
	if raw == "" {
		return 0, goerr.Wrap(ErrMissingItemID, "usage: "+c.FullName()+" <item-id>")
	}
	return types.ParseItemID(raw)
}

// promptConfirmer asks on w and reads a y/N answer from r
func promptConfirmer(w io.Writer, r io.Reader) usecase.Confirmer {
	return usecase.ConfirmFunc(func(ctx context.Context, prompt string) bool {
		_, _ = fmt.Fprintf(w, "%s [y/N]: ", prompt)
		answer, err := bufio.NewReader(r).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	})
}
