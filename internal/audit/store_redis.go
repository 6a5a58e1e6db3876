package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	auditStreamKey = "nidbridge:audit"
	streamMaxLen   = 10000
)

// RedisStore appends audit events to a capped Redis stream. Suited to
// deployments where the diagnostic trail must survive a process restart
// without pulling in a relational database.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: auditStreamKey,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"payload": payload},
	}).Err()
}

// ListRecent reads up to limit events from the stream, newest first.
func (s *RedisStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}
	msgs, err := s.client.XRevRangeN(ctx, auditStreamKey, "+", "-", int64(limit)).Result()
	if err != nil {
		return nil, fmt.Errorf("read audit stream: %w", err)
	}
	events := make([]Event, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["payload"].(string)
		if !ok {
			continue
		}
		var event Event
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}
