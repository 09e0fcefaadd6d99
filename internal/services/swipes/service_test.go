package swipes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/rules"
	"github.com/yash0834/lovelane-cloudinary-api/internal/pkg/validate"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
)

type memoryStore struct {
	mu       sync.Mutex
	profiles map[string]bool
	swipes   map[string]model.Swipe
	order    []string
	matches  map[string]model.Match
}

func newMemoryStore(profiles ...string) *memoryStore {
	s := &memoryStore{
		profiles: map[string]bool{},
		swipes:   map[string]model.Swipe{},
		matches:  map[string]model.Match{},
	}
	for _, id := range profiles {
		s.profiles[id] = true
	}
	return s
}

func (m *memoryStore) Create(_ context.Context, s model.Swipe) (model.Swipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.profiles[s.FromUserID] || !m.profiles[s.ToUserID] {
		return model.Swipe{}, pgrepo.ErrUnknownProfile
	}
	key := s.FromUserID + ">" + s.ToUserID
	if _, ok := m.swipes[key]; ok {
		return model.Swipe{}, pgrepo.ErrDuplicateSwipe
	}
	m.swipes[key] = s
	m.order = append(m.order, key)
	return s, nil
}

func (m *memoryStore) Get(_ context.Context, from, to string) (model.Swipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.swipes[from+">"+to]
	if !ok {
		return model.Swipe{}, pgrepo.ErrSwipeNotFound
	}
	return s, nil
}

func (m *memoryStore) ListFrom(_ context.Context, from string) ([]model.Swipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Swipe, 0)
	for _, key := range m.order {
		if s := m.swipes[key]; s.FromUserID == from {
			out = append(out, s)
		}
	}
	return out, nil
}

// matchStore adapts memoryStore to the match engine's storage.
type matchStore struct{ *memoryStore }

func (m matchStore) CreateIfAbsent(_ context.Context, match model.Match) (model.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[match.PairKey]; ok {
		return model.Match{}, pgrepo.ErrDuplicateMatch
	}
	m.matches[match.PairKey] = match
	return match, nil
}

func (m matchStore) GetByID(context.Context, string) (model.Match, error) {
	return model.Match{}, pgrepo.ErrMatchNotFound
}

func (m matchStore) GetByPairKey(_ context.Context, key string) (model.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[key]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return match, nil
}

func (m matchStore) ListActiveForUser(context.Context, string) ([]model.Match, error) {
	return nil, nil
}

func (m matchStore) Deactivate(context.Context, string, time.Time) (model.Match, error) {
	return model.Match{}, pgrepo.ErrMatchNotFound
}

func (m matchStore) ListPendingPairs(context.Context, int) ([]pgrepo.MutualPair, error) {
	return nil, nil
}

func newTestService(store *memoryStore) *Service {
	engine := matchessvc.NewService(matchessvc.Dependencies{
		Matches: matchStore{store},
		Swipes:  store,
	})
	svc := NewService(Dependencies{Swipes: store, Matches: engine})
	var seq atomic.Int64
	svc.newID = func() string { return fmt.Sprintf("s-%d", seq.Add(1)) }
	return svc
}

func TestRecordSwipeOneSidedLike(t *testing.T) {
	store := newMemoryStore("a", "b")
	svc := newTestService(store)

	res, err := svc.RecordSwipe(context.Background(), "a", "b", true)
	if err != nil {
		t.Fatalf("record swipe: %v", err)
	}
	if res.Swipe.FromUserID != "a" || res.Swipe.ToUserID != "b" || !res.Swipe.IsLike {
		t.Fatalf("unexpected swipe: %+v", res.Swipe)
	}
	if res.Match != nil || res.MatchCreated {
		t.Fatalf("one-sided like must not match: %+v", res)
	}
}

func TestRecordSwipeMutualLikeCreatesMatch(t *testing.T) {
	store := newMemoryStore("a", "b")
	svc := newTestService(store)

	if _, err := svc.RecordSwipe(context.Background(), "a", "b", true); err != nil {
		t.Fatalf("first swipe: %v", err)
	}
	res, err := svc.RecordSwipe(context.Background(), "b", "a", true)
	if err != nil {
		t.Fatalf("second swipe: %v", err)
	}
	if !res.MatchCreated || res.Match == nil {
		t.Fatalf("expected a match, got %+v", res)
	}
	if res.Match.PairKey != rules.PairKey("a", "b") || res.Match.User1ID != "a" {
		t.Fatalf("unexpected match: %+v", res.Match)
	}
}

func TestRecordSwipeDislikeNeverMatches(t *testing.T) {
	store := newMemoryStore("a", "b")
	svc := newTestService(store)

	if _, err := svc.RecordSwipe(context.Background(), "a", "b", true); err != nil {
		t.Fatalf("like: %v", err)
	}
	res, err := svc.RecordSwipe(context.Background(), "b", "a", false)
	if err != nil {
		t.Fatalf("dislike: %v", err)
	}
	if res.Match != nil || len(store.matches) != 0 {
		t.Fatalf("dislike must not produce a match: %+v", res)
	}
}

func TestRecordSwipeDuplicateKeepsOriginal(t *testing.T) {
	store := newMemoryStore("a", "b")
	svc := newTestService(store)

	first, err := svc.RecordSwipe(context.Background(), "a", "b", true)
	if err != nil {
		t.Fatalf("first swipe: %v", err)
	}

	_, err = svc.RecordSwipe(context.Background(), "a", "b", false)
	if !errors.Is(err, ErrDuplicateSwipe) {
		t.Fatalf("expected ErrDuplicateSwipe, got %v", err)
	}
	var dup *DuplicateSwipeError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSwipeError, got %T", err)
	}
	if dup.Existing.ID != first.Swipe.ID || !dup.Existing.IsLike {
		t.Fatalf("existing swipe must be returned unchanged: %+v", dup.Existing)
	}

	stored, ok, err := svc.GetSwipe(context.Background(), "a", "b")
	if err != nil || !ok {
		t.Fatalf("get swipe: ok=%v err=%v", ok, err)
	}
	if !stored.IsLike {
		t.Fatalf("duplicate must not overwrite the original decision")
	}
}

func TestRecordSwipeValidation(t *testing.T) {
	svc := newTestService(newMemoryStore("a"))

	tests := []struct {
		name  string
		from  string
		to    string
		field string
	}{
		{name: "self", from: "a", to: "a", field: "toUserId"},
		{name: "missing from", from: " ", to: "a", field: "fromUserId"},
		{name: "missing to", from: "a", to: "", field: "toUserId"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordSwipe(context.Background(), tc.from, tc.to, true)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			fields, _ := validate.FieldsOf(err)
			if _, ok := fields[tc.field]; !ok {
				t.Fatalf("expected problem on %s, got %v", tc.field, fields)
			}
		})
	}
}

func TestRecordSwipeUnknownProfile(t *testing.T) {
	svc := newTestService(newMemoryStore("a"))

	if _, err := svc.RecordSwipe(context.Background(), "a", "ghost", true); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

type failingEngine struct{}

func (failingEngine) ProcessLike(context.Context, string, string) (matchessvc.LikeOutcome, error) {
	return matchessvc.LikeOutcome{}, errors.New("match store timeout")
}

func TestRecordSwipeKeepsSwipeWhenEngineFails(t *testing.T) {
	store := newMemoryStore("a", "b")
	svc := NewService(Dependencies{Swipes: store, Matches: failingEngine{}})

	res, err := svc.RecordSwipe(context.Background(), "a", "b", true)
	if err != nil {
		t.Fatalf("engine failure must not fail the swipe: %v", err)
	}
	if res.Match != nil {
		t.Fatalf("expected no match, got %+v", res.Match)
	}
	if _, ok, _ := svc.GetSwipe(context.Background(), "a", "b"); !ok {
		t.Fatalf("swipe must remain recorded")
	}
}

func TestRecordSwipeConcurrentMutualLikes(t *testing.T) {
	for round := 0; round < 20; round++ {
		store := newMemoryStore("a", "b")
		svc := newTestService(store)

		var (
			wg      sync.WaitGroup
			results [2]SwipeResult
			errs    [2]error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			results[0], errs[0] = svc.RecordSwipe(context.Background(), "a", "b", true)
		}()
		go func() {
			defer wg.Done()
			results[1], errs[1] = svc.RecordSwipe(context.Background(), "b", "a", true)
		}()
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Fatalf("round %d swipe %d: %v", round, i, err)
			}
		}
		if len(store.matches) != 1 {
			t.Fatalf("round %d: expected exactly one match, got %d", round, len(store.matches))
		}
		if results[0].MatchCreated == results[1].MatchCreated && results[0].MatchCreated {
			t.Fatalf("round %d: both swipes claim to have created the match", round)
		}
		if results[0].Match == nil && results[1].Match == nil {
			t.Fatalf("round %d: at least one swipe must observe the match", round)
		}
	}
}

func TestListFromOrdersByInsertion(t *testing.T) {
	store := newMemoryStore("a", "b", "c")
	svc := newTestService(store)

	for _, to := range []string{"c", "b"} {
		if _, err := svc.RecordSwipe(context.Background(), "a", to, false); err != nil {
			t.Fatalf("swipe %s: %v", to, err)
		}
	}
	items, err := svc.ListFrom(context.Background(), "a")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ToUserID != "c" || items[1].ToUserID != "b" {
		t.Fatalf("unexpected order: %+v", items)
	}
}
