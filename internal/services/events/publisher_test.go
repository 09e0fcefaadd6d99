package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func TestMatchCreatedNotifiesBothParticipants(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, nil)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	n.MatchCreated(context.Background(), model.Match{ID: "m1", User1ID: "a", User2ID: "b", IsActive: true}, at)

	if len(pub.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(pub.events))
	}
	if pub.events[0].UserID != "a" || pub.events[1].UserID != "b" {
		t.Fatalf("unexpected recipients: %+v", pub.events)
	}
	for _, evt := range pub.events {
		if evt.Type != model.EventMatchCreated || evt.Match == nil || evt.Match.ID != "m1" || !evt.At.Equal(at) {
			t.Fatalf("unexpected event: %+v", evt)
		}
	}
}

func TestMessageCreatedNotifiesReceiverFirst(t *testing.T) {
	pub := &recordingPublisher{}
	n := NewNotifier(pub, nil)

	n.MessageCreated(context.Background(), model.Message{ID: "msg1", SenderID: "a", ReceiverID: "b"}, time.Now())

	if len(pub.events) != 2 || pub.events[0].UserID != "b" || pub.events[1].UserID != "a" {
		t.Fatalf("unexpected recipients: %+v", pub.events)
	}
	if pub.events[0].Message == nil || pub.events[0].Message.ID != "msg1" {
		t.Fatalf("message payload missing: %+v", pub.events[0])
	}
}

func TestPublishFailuresAreSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	n := NewNotifier(pub, nil)

	n.MatchDeactivated(context.Background(), model.Match{ID: "m1", User1ID: "a", User2ID: "b"}, time.Now())

	if len(pub.events) != 2 {
		t.Fatalf("expected delivery to be attempted for both users, got %d", len(pub.events))
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.MessageRead(context.Background(), model.Message{ID: "x"}, time.Now())
}
