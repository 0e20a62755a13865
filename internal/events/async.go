package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by AsyncHandler.HandleEvent.
var (
	ErrQueueClosed = errors.New("event queue is closed")
	ErrQueueFull   = errors.New("event queue is full")
)

// AsyncConfig sizes an AsyncHandler.
type AsyncConfig struct {
	// Workers is the number of goroutines delivering events.
	Workers int

	// QueueSize is the number of events that may wait for delivery.
	QueueSize int

	// Zero or negative fields take their value from DefaultAsyncConfig.
}

// DefaultAsyncConfig returns an AsyncConfig with reasonable defaults.
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{Workers: 2, QueueSize: 100}
}

type queuedEvent struct {
	ctx   context.Context
	event *Event
}

// AsyncHandler queues events for a wrapped handler and delivers them from a
// pool of worker goroutines, so a slow broker never holds up a request.
// Delivery failures are logged; HandleEvent only reports queueing failures.
type AsyncHandler struct {
	next   EventHandler
	queue  chan queuedEvent
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ EventHandler = (*AsyncHandler)(nil)

// NewAsyncHandler starts the workers and returns the handler. Call Close to
// drain the queue and stop them.
func NewAsyncHandler(next EventHandler, cfg AsyncConfig, logger *slog.Logger) *AsyncHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "async_event_handler")

	defaults := DefaultAsyncConfig()
	workers := cfg.Workers
	if workers <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", cfg.Workers,
			"default_count", defaults.Workers)
		workers = defaults.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaults.QueueSize
	}

	h := &AsyncHandler{
		next:   next,
		queue:  make(chan queuedEvent, cfg.QueueSize),
		logger: logger,
	}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go h.worker(i)
	}
	logger.Info("event delivery workers started",
		"worker_count", workers,
		"queue_size", cfg.QueueSize)
	return h
}

// HandleEvent implements EventHandler. It never blocks: a full queue returns
// ErrQueueFull and the event is dropped.
func (h *AsyncHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrQueueClosed
	}

	// The request context is canceled once the response is written.
	qe := queuedEvent{ctx: context.WithoutCancel(ctx), event: event}
	select {
	case h.queue <- qe:
		h.logger.Debug("event enqueued",
			"event_id", event.ID,
			"event_type", event.Type,
			"queue_len", len(h.queue),
			"queue_cap", cap(h.queue))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(h.queue))
	}
}

// Close stops accepting events, waits for queued events to be delivered and
// stops the workers. It is safe to call more than once.
func (h *AsyncHandler) Close() {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.queue)
	}
	h.mu.Unlock()

	h.wg.Wait()
	h.logger.Info("event delivery workers stopped")
}

func (h *AsyncHandler) worker(id int) {
	defer h.wg.Done()

	for qe := range h.queue {
		if err := h.next.HandleEvent(qe.ctx, qe.event); err != nil {
			h.logger.Error("event delivery failed",
				"worker_id", id,
				"event_id", qe.event.ID,
				"event_type", qe.event.Type,
				"error", err)
		}
	}
}
