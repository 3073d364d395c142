package audit

import (
	"context"
	"log/slog"
)

// Worker drains the publisher queue and forwards events to a sink. It
// keeps background forwarding testable without wiring bus implementations
// into the services.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Publish(ctx, event); err != nil {
				// The store already holds the durable copy; log and move on.
				if w.logger != nil {
					w.logger.ErrorContext(ctx, "audit forward failed",
						"event_id", event.ID, "action", event.Action, "error", err)
				}
			}
		}
	}
}
