package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

const DefaultChannelPrefix = "lovelane:events:"

var ErrClientUnavailable = errors.New("redis client is nil")

// EventRepo carries per-user change notifications over Redis Pub/Sub.
// Nothing is stored: a user with no live subscriber misses the event.
type EventRepo struct {
	client *goredis.Client
	prefix string
}

func NewEventRepo(client *goredis.Client, prefix string) *EventRepo {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultChannelPrefix
	}
	return &EventRepo{client: client, prefix: prefix}
}

func (r *EventRepo) Channel(userID string) string {
	return r.prefix + userID
}

func (r *EventRepo) Publish(ctx context.Context, evt model.Event) error {
	if r == nil || r.client == nil {
		return ErrClientUnavailable
	}
	if evt.UserID == "" {
		return fmt.Errorf("event user id is required")
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := r.client.Publish(ctx, r.Channel(evt.UserID), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

type Subscription struct {
	pubsub *goredis.PubSub
	events chan model.Event
	once   sync.Once
}

// Events is closed when the subscription ends.
func (s *Subscription) Events() <-chan model.Event {
	return s.events
}

func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		err = s.pubsub.Close()
	})
	return err
}

// Subscribe listens on userID's channel until ctx is done or Close is called.
// Payloads that do not decode are dropped.
func (r *EventRepo) Subscribe(ctx context.Context, userID string) (*Subscription, error) {
	if r == nil || r.client == nil {
		return nil, ErrClientUnavailable
	}

	pubsub := r.client.Subscribe(ctx, r.Channel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", userID, err)
	}

	sub := &Subscription{pubsub: pubsub, events: make(chan model.Event, 16)}
	go func() {
		defer close(sub.events)
		defer sub.Close()

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var evt model.Event
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					continue
				}
				select {
				case sub.events <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return sub, nil
}
