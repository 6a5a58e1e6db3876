package audit

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrBufferFull signals an audit event was dropped because the channel
// buffer was at capacity.
var ErrBufferFull = errors.New("audit buffer full")

// ChannelStore decouples emitters from a slow sink. Append hands the event
// to a buffered channel drained by a Worker; a full buffer drops the event
// rather than stall the request path. Reads go straight to the sink.
type ChannelStore struct {
	inbox   chan<- Event
	sink    Store
	dropped atomic.Int64
}

func NewChannelStore(inbox chan<- Event, sink Store) *ChannelStore {
	return &ChannelStore{inbox: inbox, sink: sink}
}

func (s *ChannelStore) Append(_ context.Context, event Event) error {
	select {
	case s.inbox <- event:
		return nil
	default:
		s.dropped.Add(1)
		return ErrBufferFull
	}
}

func (s *ChannelStore) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return s.sink.ListRecent(ctx, limit)
}

// Dropped reports how many events were discarded because the buffer was full.
func (s *ChannelStore) Dropped() int64 {
	return s.dropped.Load()
}
