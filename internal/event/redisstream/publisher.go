package redisstream

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"invoicegate/internal/event"
	"invoicegate/internal/platform/redis"
)

// Publisher emits decision events to a Redis Stream via XADD. An alternative
// channel for deployments that run Redis but not Kafka; consumers read with
// XREAD/XREADGROUP and dedupe on approval_id.
type Publisher struct {
	client *redis.Client
	stream string
}

func New(client *redis.Client, stream string) *Publisher {
	return &Publisher{client: client, stream: stream}
}

func (p *Publisher) Publish(ctx context.Context, ev event.InvoiceValidated) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redisstream: marshal event: %w", err)
	}

	err = p.client.XAdd(ctx, &goredis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_type":  ev.EventType,
			"approval_id": ev.ApprovalID,
			"payload":     payload,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("redisstream: xadd to %s: %w", p.stream, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.client.Close()
}
