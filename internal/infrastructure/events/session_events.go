package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const SessionChannel = "auth:session-events"

// SessionBus fans session changes out over Redis Pub/Sub so every API
// instance can notify its connected clients.
type SessionBus struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewSessionBus(rdb *redis.Client, log *logger.Logger) *SessionBus {
	return &SessionBus{rdb: rdb, log: log.With("component", "events.SessionBus")}
}

func (b *SessionBus) Publish(ctx context.Context, event domain.SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, SessionChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish session event: %w", err)
	}
	return nil
}

// Subscribe streams the events of userID until ctx is done. The returned
// channel is closed afterwards.
func (b *SessionBus) Subscribe(ctx context.Context, userID uuid.UUID) (<-chan domain.SessionEvent, error) {
	sub := b.rdb.Subscribe(ctx, SessionChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe session events: %w", err)
	}

	out := make(chan domain.SessionEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event domain.SessionEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.log.Warn("dropping malformed session event", "error", err)
					continue
				}
				if event.UserID != userID {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
