package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/fatih/color"
)

// Console prints notifications as colored lines, one per notification
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	colors map[model.Severity]*color.Color
}

var _ interfaces.Notifier = &Console{}

// NewConsole creates a Console writing to w
func NewConsole(w io.Writer) *Console {
	return &Console{
		w: w,
		colors: map[model.Severity]*color.Color{
			model.SeveritySuccess: color.New(color.FgGreen, color.Bold),
			model.SeverityInfo:    color.New(color.FgCyan),
			model.SeverityWarning: color.New(color.FgYellow, color.Bold),
			model.SeverityError:   color.New(color.FgRed, color.Bold),
		},
	}
}

func (c *Console) Notify(ctx context.Context, n model.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	label := fmt.Sprintf("[%s]", n.Severity)
	if clr, ok := c.colors[n.Severity]; ok {
		label = clr.Sprint(label)
	}
	_, _ = fmt.Fprintf(c.w, "%s %s\n", label, n.Message)
}
