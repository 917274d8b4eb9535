package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmsconsole/metaform/pkg/cli/config"
	httpctrl "github.com/dmsconsole/metaform/pkg/controller/http"
	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/service/notify"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/dmsconsole/metaform/pkg/utils/async"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var schemaCfg config.Schema
	var repoCfg config.Repository
	var authCfg config.Auth
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("METAFORM_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, schemaCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, authCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the reference DMS backend",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := schemaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load schema")
			}
			logging.Default().Info("Schema loaded",
				"path", schemaCfg.Path(),
				"field_count", catalog.Schema.Len())

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			authUC, err := authCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure authentication")
			}

			notifiers := notify.Multi{notify.Log{}}
			slackNotifier, err := slackCfg.Configure(true)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if slackNotifier != nil {
				notifiers = append(notifiers, slackNotifier)
				logging.Default().Info("Slack notifications enabled", "slack", slackCfg)
			}

			uc := usecase.New(repo,
				usecase.WithCatalog(catalog),
				usecase.WithAuth(authUC),
				usecase.WithNotifier(interfaces.Notifier(notifiers)),
			)

			httpHandler, err := httpctrl.New(uc.Catalog,
				httpctrl.WithAuth(uc.Auth),
				httpctrl.WithBatchLister(uc.Catalog),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}
			return serveUntilSignal(ctx, server)
		},
	}
}

// serveUntilSignal runs server until ctx is done or SIGINT/SIGTERM arrives,
// then drains in-flight requests and pending notifications
func serveUntilSignal(ctx context.Context, server *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Default().Info("Starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", server.Addr))
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.Default().Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shutdown server gracefully")
	}
	async.Wait(shutdownCtx)

	logging.Default().Info("Server shutdown completed")
	return nil
}
