package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/expenseflow-api/internal/events"
	"github.com/phrazzld/expenseflow-api/internal/platform/logger"
)

// emit publishes a domain event. Failures are logged and never reach the
// caller: the operation that produced the event has already succeeded.
func emit(ctx context.Context, emitter events.EventEmitter, fallback *slog.Logger, eventType string, payload any) {
	if emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, fallback)

	event, err := events.NewEvent(eventType, payload)
	if err != nil {
		log.Error("failed to build event", "event_type", eventType, "error", err)
		return
	}
	if err := emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("failed to emit event",
			"event_id", event.ID,
			"event_type", eventType,
			"error", err)
	}
}
