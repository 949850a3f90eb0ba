package event

import (
	"context"
	"log/slog"
	"sync"
)

// Publisher is the outbound port for decision events. Implementations exist
// for Kafka (franz-go), Redis Streams (go-redis), a log-only sink, and a
// recording sink for tests. The Dispatcher wraps a Publisher to make
// publishing fire-and-forget; Publisher implementations themselves may block
// and return errors.
type Publisher interface {
	Publish(ctx context.Context, ev InvoiceValidated) error
	Close() error
}

// Noop discards every event. Used when no event channel is configured.
type Noop struct{}

func (Noop) Publish(context.Context, InvoiceValidated) error { return nil }
func (Noop) Close() error                                    { return nil }

// LogSink writes events to the structured log instead of a message channel.
// Useful for local development and as a visible default.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Publish(ctx context.Context, ev InvoiceValidated) error {
	s.logger.InfoContext(ctx, "invoice validated event",
		"approval_id", ev.ApprovalID,
		"vendor", ev.Vendor,
		"invoice_number", ev.InvoiceNumber,
		"total", ev.Total,
		"approved", ev.Approved,
		"reason", ev.Reason,
	)
	return nil
}

func (s *LogSink) Close() error { return nil }

// Recorder captures published events in memory so tests can assert on them
// without a transport.
type Recorder struct {
	mu     sync.Mutex
	events []InvoiceValidated
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, ev InvoiceValidated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []InvoiceValidated {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]InvoiceValidated{}, r.events...)
}
