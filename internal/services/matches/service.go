package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/rules"
	"github.com/yash0834/lovelane-cloudinary-api/internal/pkg/validate"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
)

const defaultReconcileBatch = 100

var (
	ErrValidation     = validate.ErrInvalid
	ErrNotFound       = errors.New("match not found")
	ErrNotParticipant = errors.New("user is not a participant of the match")
)

type MatchStore interface {
	CreateIfAbsent(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id string) (model.Match, error)
	GetByPairKey(ctx context.Context, pairKey string) (model.Match, error)
	ListActiveForUser(ctx context.Context, userID string) ([]model.Match, error)
	Deactivate(ctx context.Context, id string, at time.Time) (model.Match, error)
	ListPendingPairs(ctx context.Context, limit int) ([]pgrepo.MutualPair, error)
}

type SwipeLookup interface {
	Get(ctx context.Context, fromUserID, toUserID string) (model.Swipe, error)
}

type Notifier interface {
	MatchCreated(ctx context.Context, m model.Match, at time.Time)
	MatchDeactivated(ctx context.Context, m model.Match, at time.Time)
}

type Dependencies struct {
	Matches  MatchStore
	Swipes   SwipeLookup
	Notifier Notifier
	Logger   *zap.Logger
}

type Service struct {
	matches  MatchStore
	swipes   SwipeLookup
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

// LikeOutcome reports what a like did to the pair. Match is set whenever the
// pair is matched, whether or not this call created the row.
type LikeOutcome struct {
	Created bool
	Match   *model.Match
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		matches:  deps.Matches,
		swipes:   deps.Swipes,
		notifier: deps.Notifier,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ProcessLike is called after fromUserID's like on toUserID is durable. A
// reciprocal like turns the pair into a match; concurrent callers for the same
// pair converge on one row.
func (s *Service) ProcessLike(ctx context.Context, fromUserID, toUserID string) (LikeOutcome, error) {
	fromUserID = strings.TrimSpace(fromUserID)
	toUserID = strings.TrimSpace(toUserID)
	if fromUserID == "" || toUserID == "" || fromUserID == toUserID {
		return LikeOutcome{}, fmt.Errorf("invalid like pair: %w", ErrValidation)
	}
	if s.matches == nil || s.swipes == nil {
		return LikeOutcome{}, fmt.Errorf("match dependencies are not configured")
	}

	reciprocal, err := s.swipes.Get(ctx, toUserID, fromUserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrSwipeNotFound) {
			return LikeOutcome{}, nil
		}
		return LikeOutcome{}, fmt.Errorf("lookup reciprocal swipe: %w", err)
	}
	if !reciprocal.IsLike {
		return LikeOutcome{}, nil
	}

	return s.ensureMatch(ctx, fromUserID, toUserID)
}

func (s *Service) ensureMatch(ctx context.Context, a, b string) (LikeOutcome, error) {
	user1, user2 := rules.OrderedPair(a, b)
	now := s.now().UTC()
	candidate := model.Match{
		ID:        s.newID(),
		User1ID:   user1,
		User2ID:   user2,
		PairKey:   rules.PairKey(a, b),
		CreatedAt: now,
		IsActive:  true,
	}

	created, err := s.matches.CreateIfAbsent(ctx, candidate)
	if err == nil {
		if s.notifier != nil {
			s.notifier.MatchCreated(ctx, created, now)
		}
		s.log.Info("match created",
			zap.String("match_id", created.ID),
			zap.String("user1_id", created.User1ID),
			zap.String("user2_id", created.User2ID),
		)
		return LikeOutcome{Created: true, Match: &created}, nil
	}
	if !errors.Is(err, pgrepo.ErrDuplicateMatch) {
		return LikeOutcome{}, fmt.Errorf("create match: %w", err)
	}

	existing, err := s.matches.GetByPairKey(ctx, candidate.PairKey)
	if err != nil {
		return LikeOutcome{}, fmt.Errorf("load existing match: %w", err)
	}
	return LikeOutcome{Match: &existing}, nil
}

func (s *Service) Get(ctx context.Context, matchID string) (model.Match, error) {
	if strings.TrimSpace(matchID) == "" {
		return model.Match{}, ErrNotFound
	}
	if s.matches == nil {
		return model.Match{}, fmt.Errorf("match store is nil")
	}

	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Match{}, ErrNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

func (s *Service) ListActive(ctx context.Context, userID string) ([]model.Match, error) {
	if strings.TrimSpace(userID) == "" {
		return []model.Match{}, nil
	}
	if s.matches == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	items, err := s.matches.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	return items, nil
}

// Unmatch deactivates the match on behalf of one of its participants. Calling it
// on an inactive match returns the match unchanged.
func (s *Service) Unmatch(ctx context.Context, matchID, userID string) (model.Match, error) {
	m, err := s.Get(ctx, matchID)
	if err != nil {
		return model.Match{}, err
	}
	if !m.Has(strings.TrimSpace(userID)) {
		return model.Match{}, ErrNotParticipant
	}
	if !m.IsActive {
		return m, nil
	}

	now := s.now().UTC()
	updated, err := s.matches.Deactivate(ctx, m.ID, now)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMatchNotFound) {
			return model.Match{}, ErrNotFound
		}
		return model.Match{}, fmt.Errorf("deactivate match: %w", err)
	}
	if s.notifier != nil {
		s.notifier.MatchDeactivated(ctx, updated, now)
	}
	return updated, nil
}

// Reconcile creates matches for reciprocal likes that never got one, e.g. when
// the process stopped between recording a like and matching it.
func (s *Service) Reconcile(ctx context.Context, batch int) (int, error) {
	if s.matches == nil {
		return 0, fmt.Errorf("match store is nil")
	}
	if batch <= 0 {
		batch = defaultReconcileBatch
	}

	pairs, err := s.matches.ListPendingPairs(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("list pending pairs: %w", err)
	}

	created := 0
	var errs []error
	for _, pair := range pairs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		outcome, err := s.ensureMatch(ctx, pair.UserA, pair.UserB)
		if err != nil {
			s.log.Warn("reconcile pair failed",
				zap.String("user_a", pair.UserA),
				zap.String("user_b", pair.UserB),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if outcome.Created {
			created++
		}
	}
	return created, errors.Join(errs...)
}
