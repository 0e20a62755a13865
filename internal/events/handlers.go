package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
)

// LogHandler writes every event to the request logger, falling back to the
// given logger when the context carries none.
func LogHandler(fallback *slog.Logger) EventHandler {
	if fallback == nil {
		fallback = slog.Default()
	}
	fallback = fallback.With("component", "event_log")
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		logger.FromContextOrDefault(ctx, fallback).Info("domain event",
			"event_id", event.ID,
			"event_type", event.Type,
			"payload", string(event.Payload))
		return nil
	})
}

// Recorder is an EventHandler that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []*Event
}

// HandleEvent implements EventHandler.
func (r *Recorder) HandleEvent(_ context.Context, event *Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []*Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Event, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the type of every recorded event in arrival order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
