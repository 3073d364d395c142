package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists audit events. Append-only; nothing ever rewrites an event.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actor string) ([]Event, error)
}

// Sink forwards events to an external bus after they are persisted.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Publisher captures structured audit events. Persistence is synchronous;
// forwarding to a sink is handed to the worker so a slow bus never stalls
// an operation.
type Publisher struct {
	store Store
	queue chan Event
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{
		store: store,
		queue: make(chan Event, 256),
	}
}

// Emit stamps and persists the event, then queues it for forwarding.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	select {
	case p.queue <- event:
	default:
		// Forwarding is best-effort; the store keeps the durable copy.
	}
	return nil
}

// Queue exposes the forwarding channel for the worker.
func (p *Publisher) Queue() <-chan Event { return p.queue }

// List returns the events an actor drove, oldest first.
func (p *Publisher) List(ctx context.Context, actor string) ([]Event, error) {
	return p.store.ListByActor(ctx, actor)
}
