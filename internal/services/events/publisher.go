package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

type Publisher interface {
	Publish(ctx context.Context, evt model.Event) error
}

type Noop struct{}

func (Noop) Publish(context.Context, model.Event) error { return nil }

// Notifier fans events out to every addressed user. Delivery is best effort:
// failures are logged and never returned to the caller.
type Notifier struct {
	publisher Publisher
	log       *zap.Logger
}

func NewNotifier(publisher Publisher, log *zap.Logger) *Notifier {
	if publisher == nil {
		publisher = Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Notifier{publisher: publisher, log: log}
}

func (n *Notifier) MatchCreated(ctx context.Context, m model.Match, at time.Time) {
	n.matchEvent(ctx, model.EventMatchCreated, m, at)
}

func (n *Notifier) MatchDeactivated(ctx context.Context, m model.Match, at time.Time) {
	n.matchEvent(ctx, model.EventMatchDeactivated, m, at)
}

func (n *Notifier) MessageCreated(ctx context.Context, msg model.Message, at time.Time) {
	n.messageEvent(ctx, model.EventMessageCreated, msg, at)
}

func (n *Notifier) MessageRead(ctx context.Context, msg model.Message, at time.Time) {
	n.messageEvent(ctx, model.EventMessageRead, msg, at)
}

func (n *Notifier) matchEvent(ctx context.Context, typ model.EventType, m model.Match, at time.Time) {
	if n == nil {
		return
	}
	for _, userID := range []string{m.User1ID, m.User2ID} {
		match := m
		n.publish(ctx, model.Event{Type: typ, UserID: userID, At: at.UTC(), Match: &match})
	}
}

func (n *Notifier) messageEvent(ctx context.Context, typ model.EventType, msg model.Message, at time.Time) {
	if n == nil {
		return
	}
	for _, userID := range []string{msg.ReceiverID, msg.SenderID} {
		message := msg
		n.publish(ctx, model.Event{Type: typ, UserID: userID, At: at.UTC(), Message: &message})
	}
}

func (n *Notifier) publish(ctx context.Context, evt model.Event) {
	if evt.UserID == "" {
		return
	}
	if err := n.publisher.Publish(ctx, evt); err != nil {
		n.log.Warn("publish event failed",
			zap.String("type", string(evt.Type)),
			zap.String("user_id", evt.UserID),
			zap.Error(err),
		)
	}
}
