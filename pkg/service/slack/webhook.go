package slack

import (
	"context"
	"net/http"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/utils/async"
	"github.com/dmsconsole/metaform/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// DefaultUsername is shown as the sender of webhook messages
const DefaultUsername = "metaform"

// Webhook posts notifications to a Slack incoming webhook
type Webhook struct {
	url        string
	username   string
	channel    string
	minimum    model.Severity
	background bool
	http       *http.Client
}

var _ interfaces.Notifier = &Webhook{}

// Option is a functional option for Webhook configuration
type Option func(*Webhook)

// WithUsername overrides the sender name
func WithUsername(name string) Option {
	return func(w *Webhook) {
		w.username = name
	}
}

// WithChannel overrides the webhook's default channel
func WithChannel(channel string) Option {
	return func(w *Webhook) {
		w.channel = channel
	}
}

// WithMinimumSeverity drops notifications below s
func WithMinimumSeverity(s model.Severity) Option {
	return func(w *Webhook) {
		w.minimum = s
	}
}

// WithBackground delivers notifications from a background goroutine
func WithBackground() Option {
	return func(w *Webhook) {
		w.background = true
	}
}

// WithHTTPClient replaces the HTTP client used for posting
func WithHTTPClient(hc *http.Client) Option {
	return func(w *Webhook) {
		w.http = hc
	}
}

// NewWebhook creates a Webhook notifier for url
func NewWebhook(url string, opts ...Option) (*Webhook, error) {
	if url == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}

	w := &Webhook{
		url:      url,
		username: DefaultUsername,
		minimum:  model.SeverityInfo,
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Notify posts n. Delivery failures are logged and reported.
func (w *Webhook) Notify(ctx context.Context, n model.Notification) {
	if n.Severity.Rank() < w.minimum.Rank() {
		return
	}

	if w.background {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return w.post(ctx, n)
		})
		return
	}

	if err := w.post(ctx, n); err != nil {
		_ = errutil.Handle(ctx, err, "failed to post Slack notification")
	}
}

func (w *Webhook) post(ctx context.Context, n model.Notification) error {
	msg := &slack.WebhookMessage{
		Username: w.username,
		Channel:  w.channel,
		Text:     n.Message,
		Attachments: []slack.Attachment{
			{
				Color:    attachmentColor(n.Severity),
				Text:     n.Message,
				Fallback: n.Message,
				Footer:   string(n.Severity),
			},
		},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, w.url, w.http, msg); err != nil {
		return goerr.Wrap(err, "failed to post webhook message",
			goerr.V("severity", n.Severity))
	}
	return nil
}

func attachmentColor(s model.Severity) string {
	switch s {
	case model.SeveritySuccess:
		return "good"
	case model.SeverityWarning:
		return "warning"
	case model.SeverityError:
		return "danger"
	default:
		return "#439FE0"
	}
}
