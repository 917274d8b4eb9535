package async

import (
	"context"
	"sync"

	"github.com/dmsconsole/metaform/pkg/utils/errutil"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
)

var inflight sync.WaitGroup

// Dispatch runs handler in a new goroutine with a background context that
// keeps the caller's logger. Errors and panics are logged, never returned.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}

// Wait blocks until every dispatched handler has returned or ctx is done
func Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logging.From(ctx).Warn("gave up waiting for async handlers", "error", ctx.Err())
	}
}
