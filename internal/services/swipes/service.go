package swipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	"github.com/yash0834/lovelane-cloudinary-api/internal/pkg/validate"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
)

var (
	ErrValidation      = validate.ErrInvalid
	ErrDuplicateSwipe  = errors.New("swipe already recorded")
	ErrProfileNotFound = errors.New("profile not found")
)

// DuplicateSwipeError carries the swipe that was already on record for the pair.
type DuplicateSwipeError struct {
	Existing model.Swipe
}

func (e *DuplicateSwipeError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrDuplicateSwipe.Error(), e.Existing.FromUserID, e.Existing.ToUserID)
}

func (e *DuplicateSwipeError) Unwrap() error {
	return ErrDuplicateSwipe
}

type SwipeStore interface {
	Create(ctx context.Context, s model.Swipe) (model.Swipe, error)
	Get(ctx context.Context, fromUserID, toUserID string) (model.Swipe, error)
	ListFrom(ctx context.Context, fromUserID string) ([]model.Swipe, error)
}

type MatchEngine interface {
	ProcessLike(ctx context.Context, fromUserID, toUserID string) (matchessvc.LikeOutcome, error)
}

type Dependencies struct {
	Swipes  SwipeStore
	Matches MatchEngine
	Logger  *zap.Logger
}

type Service struct {
	swipes  SwipeStore
	matches MatchEngine
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
}

type SwipeResult struct {
	Swipe        model.Swipe
	Match        *model.Match
	MatchCreated bool
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		swipes:  deps.Swipes,
		matches: deps.Matches,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// RecordSwipe stores the decision and, for likes, asks the match engine
// whether the pair is now mutual. The swipe stays recorded even when the
// engine fails; the reconcile sweep picks the pair up later.
func (s *Service) RecordSwipe(ctx context.Context, fromUserID, toUserID string, isLike bool) (SwipeResult, error) {
	fromUserID = strings.TrimSpace(fromUserID)
	toUserID = strings.TrimSpace(toUserID)

	var problems validate.Problems
	problems.Check(fromUserID != "", "fromUserId", "is required")
	problems.Check(toUserID != "", "toUserId", "is required")
	if fromUserID != "" && fromUserID == toUserID {
		problems.Add("toUserId", "must differ from fromUserId")
	}
	if err := problems.Err(); err != nil {
		return SwipeResult{}, err
	}
	if s.swipes == nil {
		return SwipeResult{}, fmt.Errorf("swipe store is nil")
	}

	swipe, err := s.swipes.Create(ctx, model.Swipe{
		ID:         s.newID(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		IsLike:     isLike,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrDuplicateSwipe):
			existing, getErr := s.swipes.Get(ctx, fromUserID, toUserID)
			if getErr != nil {
				return SwipeResult{}, fmt.Errorf("load existing swipe: %w", getErr)
			}
			return SwipeResult{}, &DuplicateSwipeError{Existing: existing}
		case errors.Is(err, pgrepo.ErrUnknownProfile):
			return SwipeResult{}, ErrProfileNotFound
		}
		return SwipeResult{}, fmt.Errorf("record swipe: %w", err)
	}

	result := SwipeResult{Swipe: swipe}
	if !isLike || s.matches == nil {
		return result, nil
	}

	outcome, err := s.matches.ProcessLike(ctx, fromUserID, toUserID)
	if err != nil {
		s.log.Warn("match processing failed after swipe was recorded",
			zap.String("swipe_id", swipe.ID),
			zap.String("from_user_id", fromUserID),
			zap.String("to_user_id", toUserID),
			zap.Error(err),
		)
		return result, nil
	}
	result.Match = outcome.Match
	result.MatchCreated = outcome.Created
	return result, nil
}

func (s *Service) GetSwipe(ctx context.Context, fromUserID, toUserID string) (model.Swipe, bool, error) {
	if s.swipes == nil {
		return model.Swipe{}, false, fmt.Errorf("swipe store is nil")
	}

	swipe, err := s.swipes.Get(ctx, fromUserID, toUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSwipeNotFound) {
			return model.Swipe{}, false, nil
		}
		return model.Swipe{}, false, fmt.Errorf("get swipe: %w", err)
	}
	return swipe, true, nil
}

func (s *Service) ListFrom(ctx context.Context, userID string) ([]model.Swipe, error) {
	if strings.TrimSpace(userID) == "" {
		return []model.Swipe{}, nil
	}
	if s.swipes == nil {
		return nil, fmt.Errorf("swipe store is nil")
	}

	items, err := s.swipes.ListFrom(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list swipes: %w", err)
	}
	return items, nil
}
