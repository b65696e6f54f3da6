// Package worker moves committed lifecycle events from the engine's outbound
// channel to the configured publisher.
package worker

import (
	"context"
	"log/slog"

	"terraspark/internal/registry/events"
)

// Worker consumes events from a channel and forwards them to a publisher. It
// keeps emission off the request path: the engine enqueues after commit and
// never blocks on the sink.
type Worker struct {
	publisher events.Publisher
	inbox     <-chan events.Event
	logger    *slog.Logger
}

func New(publisher events.Publisher, inbox <-chan events.Event, logger *slog.Logger) *Worker {
	return &Worker{publisher: publisher, inbox: inbox, logger: logger}
}

// Run drains the inbox until ctx is cancelled. Publish failures are logged
// and dropped; events are observability, never load-bearing for correctness.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.publisher.Publish(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "event publish failed",
					"kind", event.Kind,
					"error", err,
				)
			}
		}
	}
}
