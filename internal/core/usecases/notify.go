// internal/core/usecases/notify.go
package usecases

import (
	"context"
	"sync"
	"time"

	"oppsync/internal/core/ports"
	"oppsync/internal/platform/logx"
)

const notificationTimeout = 5 * time.Second

// broadcaster fans events out to notifiers without blocking the caller.
type broadcaster struct {
	notifiers []ports.Notifier
	timeout   time.Duration
	logger    logx.Logger
	wg        sync.WaitGroup
}

func newBroadcaster(notifiers []ports.Notifier, logger logx.Logger) *broadcaster {
	return &broadcaster{notifiers: notifiers, timeout: notificationTimeout, logger: logger}
}

func (b *broadcaster) notify(ctx context.Context, event ports.Event) {
	for _, n := range b.notifiers {
		b.wg.Add(1)
		go func(notifier ports.Notifier) {
			defer b.wg.Done()

			// Detached so an aborted sweep still reports its last events.
			notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.timeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- notifier.Notify(notifyCtx, event)
			}()

			select {
			case err := <-done:
				if err != nil {
					b.logger.Warn("notification failed", "event_type", event.Type, "error", err.Error())
				}
			case <-notifyCtx.Done():
				b.logger.Warn("notification timeout exceeded",
					"timeout", b.timeout,
					"event_type", event.Type,
				)
			}
		}(n)
	}
}

// wait blocks until every pending notification finished or timed out.
func (b *broadcaster) wait() {
	b.wg.Wait()
}
