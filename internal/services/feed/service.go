package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/rules"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

var (
	ErrNotFound      = errors.New("profile not found")
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrLimitTooLarge = errors.New("limit exceeds maximum page size")
)

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (model.Profile, error)
	ListExcept(ctx context.Context, userID string) ([]model.Profile, error)
}

type SwipeStore interface {
	ListTargets(ctx context.Context, fromUserID string) ([]string, error)
}

type Config struct {
	DefaultLimit int
	MaxLimit     int
}

type Service struct {
	profiles ProfileStore
	swipes   SwipeStore
	cfg      Config
}

type Page struct {
	Items      []model.Profile
	NextCursor string
}

// pageCursor points at the last profile of the previous page.
type pageCursor struct {
	CreatedAt int64  `json:"t"`
	ID        string `json:"i"`
}

func NewService(profiles ProfileStore, swipes SwipeStore, cfg Config) *Service {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = defaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = maxLimit
	}
	if cfg.DefaultLimit > cfg.MaxLimit {
		cfg.DefaultLimit = cfg.MaxLimit
	}
	return &Service{profiles: profiles, swipes: swipes, cfg: cfg}
}

// PotentialMatches lists profiles the viewer has not swiped on and whose
// gender the viewer is interested in, oldest profile first.
func (s *Service) PotentialMatches(ctx context.Context, userID string, limit int, cursor string) (Page, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Page{}, ErrNotFound
	}
	if s.profiles == nil || s.swipes == nil {
		return Page{}, fmt.Errorf("feed dependencies are not configured")
	}

	after, hasCursor, err := decodeCursor(cursor)
	if err != nil {
		return Page{}, err
	}
	limit, err = s.pageLimit(limit)
	if err != nil {
		return Page{}, err
	}

	viewer, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return Page{}, ErrNotFound
		}
		return Page{}, fmt.Errorf("load viewer profile: %w", err)
	}

	candidates, err := s.profiles.ListExcept(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("list candidate profiles: %w", err)
	}

	targets, err := s.swipes.ListTargets(ctx, userID)
	if err != nil {
		return Page{}, fmt.Errorf("list swipe targets: %w", err)
	}
	swiped := make(map[string]struct{}, len(targets))
	for _, id := range targets {
		swiped[id] = struct{}{}
	}

	eligible := make([]model.Profile, 0, len(candidates))
	for _, p := range candidates {
		if p.ID == viewer.ID {
			continue
		}
		if _, ok := swiped[p.ID]; ok {
			continue
		}
		if !rules.AcceptsGender(viewer.InterestedIn, p.Gender) {
			continue
		}
		eligible = append(eligible, p)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return less(eligible[i], eligible[j])
	})

	start := 0
	if hasCursor {
		start = sort.Search(len(eligible), func(i int) bool {
			return after.before(eligible[i])
		})
	}
	eligible = eligible[start:]

	page := Page{Items: eligible}
	if len(eligible) > limit {
		page.Items = eligible[:limit]
		last := page.Items[len(page.Items)-1]
		next, err := encodeCursor(pageCursor{CreatedAt: last.CreatedAt.UnixNano(), ID: last.ID})
		if err != nil {
			return Page{}, err
		}
		page.NextCursor = next
	}
	return page, nil
}

// pageLimit rejects oversized pages rather than returning fewer items than asked.
func (s *Service) pageLimit(limit int) (int, error) {
	if limit <= 0 {
		return s.cfg.DefaultLimit, nil
	}
	if limit > s.cfg.MaxLimit {
		return 0, fmt.Errorf("%w: %d > %d", ErrLimitTooLarge, limit, s.cfg.MaxLimit)
	}
	return limit, nil
}

func less(a, b model.Profile) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// before reports whether p sorts strictly after the cursor position.
func (c pageCursor) before(p model.Profile) bool {
	at := time.Unix(0, c.CreatedAt)
	if !p.CreatedAt.Equal(at) {
		return p.CreatedAt.After(at)
	}
	return p.ID > c.ID
}

func decodeCursor(raw string) (pageCursor, bool, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return pageCursor{}, false, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return pageCursor{}, false, ErrInvalidCursor
	}

	var cursor pageCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return pageCursor{}, false, ErrInvalidCursor
	}
	if cursor.CreatedAt <= 0 || cursor.ID == "" {
		return pageCursor{}, false, ErrInvalidCursor
	}

	return cursor, true, nil
}

func encodeCursor(cursor pageCursor) (string, error) {
	payload, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("marshal feed cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}
