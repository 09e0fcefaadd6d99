package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

func newTestEventRepo(t *testing.T) *EventRepo {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewEventRepo(client, "")
}

func TestEventRepoDeliversToSubscribedUser(t *testing.T) {
	repo := newTestEventRepo(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := repo.Subscribe(ctx, "user-b")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	evt := model.Event{
		Type:   model.EventMatchCreated,
		UserID: "user-b",
		At:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Match:  &model.Match{ID: "m1", User1ID: "user-a", User2ID: "user-b", IsActive: true},
	}
	if err := repo.Publish(ctx, evt); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got, ok := <-sub.Events():
		if !ok {
			t.Fatalf("subscription closed before delivery")
		}
		if got.Type != model.EventMatchCreated || got.Match == nil || got.Match.ID != "m1" {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for event")
	}
}

func TestEventRepoUsesPerUserChannels(t *testing.T) {
	repo := newTestEventRepo(t)

	if got := repo.Channel("42"); got != "lovelane:events:42" {
		t.Fatalf("unexpected channel: %s", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := repo.Subscribe(ctx, "user-a")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	if err := repo.Publish(ctx, model.Event{Type: model.EventMessageCreated, UserID: "user-c"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case evt := <-sub.Events():
		t.Fatalf("user-a should not see user-c events, got %+v", evt)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestEventRepoRequiresClient(t *testing.T) {
	repo := NewEventRepo(nil, "x:")
	if err := repo.Publish(context.Background(), model.Event{UserID: "u"}); err != ErrClientUnavailable {
		t.Fatalf("expected ErrClientUnavailable, got %v", err)
	}
	if _, err := repo.Subscribe(context.Background(), "u"); err != ErrClientUnavailable {
		t.Fatalf("expected ErrClientUnavailable, got %v", err)
	}
}
