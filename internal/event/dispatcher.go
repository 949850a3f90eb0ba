package event

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"invoicegate/internal/platform/metrics"
)

// Dispatcher makes event publication fire-and-forget for the validation path.
// Emit returns immediately; the publish runs on its own goroutine with a
// bounded timeout, and failures are logged and counted but never surface to
// the caller. Callers invoke Emit only after the approval record is durably
// created, which preserves publish-after-persist ordering per approval id.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration
	sink      string

	// bounds in-flight publishes so a dead broker cannot pile up goroutines
	slots chan struct{}
	done  chan struct{}
}

const maxInFlight = 64

func NewDispatcher(publisher Publisher, logger *slog.Logger, m *metrics.Metrics, timeout time.Duration, sink string) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		timeout:   timeout,
		sink:      sink,
		slots:     make(chan struct{}, maxInFlight),
		done:      make(chan struct{}),
	}
}

// Emit publishes ev asynchronously. It never blocks beyond slot acquisition
// and never returns an error: when the sink is saturated the event is dropped
// and counted, matching best-effort at-least-once semantics.
func (d *Dispatcher) Emit(ev InvoiceValidated) {
	select {
	case d.slots <- struct{}{}:
	default:
		d.logger.Warn("event dropped, publish queue saturated",
			"approval_id", ev.ApprovalID, "sink", d.sink)
		d.metrics.IncrementPublish(d.sink, "dropped")
		return
	}

	go func() {
		defer func() { <-d.slots }()

		// Detached from the request context: the caller's response must not
		// wait on, or cancel, the publish.
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := d.publisher.Publish(ctx, ev)
		switch {
		case err == nil:
			d.metrics.IncrementPublish(d.sink, "ok")
		case errors.Is(err, context.DeadlineExceeded):
			d.logger.Warn("event publish timed out",
				"approval_id", ev.ApprovalID, "sink", d.sink, "timeout", d.timeout)
			d.metrics.IncrementPublish(d.sink, "timeout")
		default:
			d.logger.Error("event publish failed",
				"approval_id", ev.ApprovalID, "sink", d.sink, "error", err)
			d.metrics.IncrementPublish(d.sink, "error")
		}
	}()
}

// Close waits for in-flight publishes to finish (bounded by their timeouts)
// and closes the underlying publisher.
func (d *Dispatcher) Close() error {
	deadline := time.After(d.timeout + time.Second)
	for i := 0; i < maxInFlight; i++ {
		select {
		case d.slots <- struct{}{}:
		case <-deadline:
			d.logger.Warn("dispatcher close timed out waiting for in-flight publishes")
			return d.publisher.Close()
		}
	}
	return d.publisher.Close()
}
