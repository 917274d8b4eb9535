package config

import (
	"log/slog"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/service/slack"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for the Slack incoming webhook notifier
type Slack struct {
	webhookURL  string
	channel     string
	minSeverity string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for notifications",
			Category:    "Slack",
			Destination: &x.webhookURL,
			Sources:     cli.EnvVars("METAFORM_SLACK_WEBHOOK_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Channel overriding the webhook default",
			Category:    "Slack",
			Destination: &x.channel,
			Sources:     cli.EnvVars("METAFORM_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-min-severity",
			Usage:       "Lowest severity posted to Slack (info, success, warning, error)",
			Value:       string(model.SeverityInfo),
			Category:    "Slack",
			Destination: &x.minSeverity,
			Sources:     cli.EnvVars("METAFORM_SLACK_MIN_SEVERITY"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.webhookURL != ""),
		slog.String("channel", x.channel),
		slog.String("min_severity", x.minSeverity),
	)
}

// IsConfigured reports whether a webhook URL is set
func (x *Slack) IsConfigured() bool {
	return x.webhookURL != ""
}

// Configure creates the webhook notifier, or nil when no URL is set.
// background selects asynchronous delivery.
func (x *Slack) Configure(background bool) (interfaces.Notifier, error) {
	if x.webhookURL == "" {
		return nil, nil
	}

	severity, err := model.ParseSeverity(x.minSeverity)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid slack-min-severity")
	}

	opts := []slack.Option{
		slack.WithChannel(x.channel),
		slack.WithMinimumSeverity(severity),
	}
	if background {
		opts = append(opts, slack.WithBackground())
	}

	webhook, err := slack.NewWebhook(x.webhookURL, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	return webhook, nil
}
