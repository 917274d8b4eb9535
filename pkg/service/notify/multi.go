package notify

import (
	"context"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
)

// Multi fans a notification out to every notifier in order
type Multi []interfaces.Notifier

func (m Multi) Notify(ctx context.Context, n model.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// Log writes notifications to the context logger. It is the notifier of
// the reference backend when no Slack webhook is configured.
type Log struct{}

func (Log) Notify(ctx context.Context, n model.Notification) {
	logger := logging.From(ctx)
	switch n.Severity {
	case model.SeverityError:
		logger.Error(n.Message)
	case model.SeverityWarning:
		logger.Warn(n.Message)
	default:
		logger.Info(n.Message, "severity", n.Severity)
	}
}

var (
	_ interfaces.Notifier = Multi{}
	_ interfaces.Notifier = Log{}
)
