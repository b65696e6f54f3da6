// Package kafka publishes lifecycle events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"terraspark/internal/registry/events"
)

// Publisher writes lifecycle events to a single topic, keyed by credit ID so
// consumers observe per-credit transitions in commit order.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// New connects to the brokers and ensures the topic exists. Topic creation is
// idempotent; an already-exists answer from the cluster is not an error.
func New(ctx context.Context, brokers []string, topic string) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}

	return &Publisher{client: client, topic: topic}, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	adm := kadm.NewClient(client)
	// kadm surfaces the topic-level response error as the returned error, so
	// the already-exists answer arrives through err, not a response field.
	if _, err := adm.CreateTopic(ctx, 1, -1, nil, topic); err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return nil
}

// Publish serializes the event and produces it synchronously. The dispatcher
// calling this already runs off the request path, so the blocking produce
// keeps delivery simple without slowing lifecycle operations.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	record := &kgo.Record{
		Key:   []byte(event.CreditID().String()),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
