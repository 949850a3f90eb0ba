//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"invoicegate/internal/event"
	"invoicegate/internal/event/kafka"
	"invoicegate/pkg/testutil/containers"
)

func TestKafkaPublisherRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	broker := containers.NewRedpandaContainer(t)
	const topic = "invoice-events-test"

	publisher, err := kafka.New([]string{broker.Broker}, topic)
	require.NoError(t, err)
	defer publisher.Close()

	sent := event.InvoiceValidated{
		EventType:     event.TypeInvoiceValidated,
		Timestamp:     time.Now().UTC().Truncate(time.Millisecond),
		ApprovalID:    "ap-roundtrip-1",
		Vendor:        "ACME Corp",
		InvoiceNumber: "INV-42",
		Total:         450,
		Approved:      true,
		Reason:        "Auto-approved: $450.00 at 92.0% confidence",
		Confidence:    0.92,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	require.NoError(t, publisher.Publish(ctx, sent))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, sent.ApprovalID, string(records[0].Key),
		"message key must be the approval id")

	var got event.InvoiceValidated
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, sent.ApprovalID, got.ApprovalID)
	require.Equal(t, sent.Vendor, got.Vendor)
	require.True(t, got.Approved)
	require.Equal(t, sent.Reason, got.Reason)
}
