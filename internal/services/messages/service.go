package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	"github.com/yash0834/lovelane-cloudinary-api/internal/pkg/validate"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
)

var (
	ErrValidation    = validate.ErrInvalid
	ErrEmptyMessage  = fmt.Errorf("message needs text or an image: %w", validate.ErrInvalid)
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchInactive = errors.New("match is no longer active")
	ErrNotFound      = errors.New("message not found")
)

type MessageStore interface {
	Create(ctx context.Context, m model.Message) (model.Message, error)
	ListByMatch(ctx context.Context, matchID string) ([]model.Message, error)
	MarkRead(ctx context.Context, id string, at time.Time) (model.Message, error)
}

type MatchLookup interface {
	GetByID(ctx context.Context, id string) (model.Match, error)
}

type Notifier interface {
	MessageCreated(ctx context.Context, msg model.Message, at time.Time)
	MessageRead(ctx context.Context, msg model.Message, at time.Time)
}

type Dependencies struct {
	Messages MessageStore
	Matches  MatchLookup
	Notifier Notifier
}

type Service struct {
	messages MessageStore
	matches  MatchLookup
	notifier Notifier
	now      func() time.Time
	newID    func() string
}

type PostInput struct {
	MatchID    string
	SenderID   string
	ReceiverID string
	Text       string
	ImageURL   *string
}

func NewService(deps Dependencies) *Service {
	return &Service{
		messages: deps.Messages,
		matches:  deps.Matches,
		notifier: deps.Notifier,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Post appends a message to an active match. Sender and receiver must be the
// match's two participants.
func (s *Service) Post(ctx context.Context, in PostInput) (model.Message, error) {
	if s.messages == nil || s.matches == nil {
		return model.Message{}, fmt.Errorf("message dependencies are not configured")
	}

	msg := model.Message{
		MatchID:    strings.TrimSpace(in.MatchID),
		SenderID:   strings.TrimSpace(in.SenderID),
		ReceiverID: strings.TrimSpace(in.ReceiverID),
		Text:       in.Text,
	}
	if in.ImageURL != nil {
		if url := strings.TrimSpace(*in.ImageURL); url != "" {
			msg.ImageURL = &url
		}
	}

	var problems validate.Problems
	problems.Check(msg.MatchID != "", "matchId", "is required")
	problems.Check(msg.SenderID != "", "senderId", "is required")
	problems.Check(msg.ReceiverID != "", "receiverId", "is required")
	if msg.ImageURL != nil {
		problems.Check(validate.HTTPURL(*msg.ImageURL), "imageUrl", "must be an absolute http(s) url")
	}
	if err := problems.Err(); err != nil {
		return model.Message{}, err
	}
	if strings.TrimSpace(msg.Text) == "" && msg.ImageURL == nil {
		return model.Message{}, ErrEmptyMessage
	}

	match, err := s.matches.GetByID(ctx, msg.MatchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Message{}, ErrMatchNotFound
		}
		return model.Message{}, fmt.Errorf("load match: %w", err)
	}
	if !match.IsActive {
		return model.Message{}, ErrMatchInactive
	}
	problems.Check(match.Has(msg.SenderID), "senderId", "is not a participant of the match")
	problems.Check(match.Partner(msg.SenderID) == msg.ReceiverID, "receiverId", "must be the other participant of the match")
	if err := problems.Err(); err != nil {
		return model.Message{}, err
	}

	now := s.now().UTC()
	msg.ID = s.newID()
	msg.CreatedAt = now

	created, err := s.messages.Create(ctx, msg)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUnknownMatch) {
			return model.Message{}, ErrMatchNotFound
		}
		return model.Message{}, fmt.Errorf("create message: %w", err)
	}
	if s.notifier != nil {
		s.notifier.MessageCreated(ctx, created, now)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, matchID string) ([]model.Message, error) {
	if strings.TrimSpace(matchID) == "" {
		return []model.Message{}, nil
	}
	if s.messages == nil {
		return nil, fmt.Errorf("message store is nil")
	}

	items, err := s.messages.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

// MarkRead sets read_at the first time only.
func (s *Service) MarkRead(ctx context.Context, messageID string) (model.Message, error) {
	if strings.TrimSpace(messageID) == "" {
		return model.Message{}, ErrNotFound
	}
	if s.messages == nil {
		return model.Message{}, fmt.Errorf("message store is nil")
	}

	// Postgres keeps microseconds; compare at the same precision below.
	now := s.now().UTC().Truncate(time.Microsecond)
	msg, err := s.messages.MarkRead(ctx, messageID, now)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMessageNotFound) {
			return model.Message{}, ErrNotFound
		}
		return model.Message{}, fmt.Errorf("mark message read: %w", err)
	}
	if s.notifier != nil && msg.ReadAt != nil && msg.ReadAt.Equal(now) {
		s.notifier.MessageRead(ctx, msg, now)
	}
	return msg, nil
}
