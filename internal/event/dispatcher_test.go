package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoicegate/internal/platform/logger"
)

func testEvent(approvalID string) InvoiceValidated {
	return InvoiceValidated{
		EventType:  TypeInvoiceValidated,
		Timestamp:  time.Now().UTC(),
		ApprovalID: approvalID,
		Vendor:     "ACME Corp",
		Total:      450,
		Approved:   true,
		Reason:     "Auto-approved: $450.00 at 92.0% confidence",
		Confidence: 0.92,
	}
}

func TestDispatcherDeliversAsync(t *testing.T) {
	recorder := NewRecorder()
	d := NewDispatcher(recorder, logger.New(), nil, time.Second, "test")

	d.Emit(testEvent("ap-1"))
	d.Emit(testEvent("ap-2"))

	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	events := recorder.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	seen := map[string]bool{}
	for _, ev := range events {
		seen[ev.ApprovalID] = true
		if ev.EventType != TypeInvoiceValidated {
			t.Errorf("event_type = %q", ev.EventType)
		}
	}
	if !seen["ap-1"] || !seen["ap-2"] {
		t.Errorf("missing events: %v", seen)
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, InvoiceValidated) error { return f.err }
func (f failingPublisher) Close() error                                    { return nil }

// A transport failure must be swallowed: Emit cannot fail, and Close must
// still complete cleanly.
func TestDispatcherSwallowsPublishErrors(t *testing.T) {
	d := NewDispatcher(failingPublisher{err: errors.New("broker down")}, logger.New(), nil, time.Second, "test")

	d.Emit(testEvent("ap-1"))

	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

type blockingPublisher struct{}

func (blockingPublisher) Publish(ctx context.Context, _ InvoiceValidated) error {
	<-ctx.Done()
	return ctx.Err()
}
func (blockingPublisher) Close() error { return nil }

// A hung transport is bounded by the publish timeout, not by the caller.
func TestDispatcherBoundsSlowPublisher(t *testing.T) {
	d := NewDispatcher(blockingPublisher{}, logger.New(), nil, 50*time.Millisecond, "test")

	start := time.Now()
	d.Emit(testEvent("ap-1"))
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Fatalf("Emit blocked for %v", elapsed)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("close took %v, timeout not enforced", elapsed)
	}
}
