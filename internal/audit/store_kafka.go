package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaStore publishes audit events to a Kafka topic, making the broker the
// durable source of truth for the trail. A small in-memory mirror backs
// ListRecent so the local status page keeps working without a consumer.
type KafkaStore struct {
	client *kgo.Client
	topic  string
	mirror *MemoryStore
}

// NewKafkaStore connects a producer to the given seed brokers.
func NewKafkaStore(seeds []string, topic string) (*KafkaStore, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(seeds...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaStore{
		client: client,
		topic:  topic,
		mirror: NewMemoryStore(256),
	}, nil
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Operation),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return s.mirror.Append(ctx, event)
}

// ListRecent serves from the local mirror; the topic itself is read by
// downstream consumers, not by this service.
func (s *KafkaStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return s.mirror.ListRecent(ctx, limit)
}

// Close flushes and releases the producer.
func (s *KafkaStore) Close() {
	s.client.Close()
}
