package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
	feedsvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/feed"
	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
	messagesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/messages"
	profilesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/profiles"
	swipesvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/swipes"
)

// memoryDB backs every service with maps so handlers can be exercised end to end.
type memoryDB struct {
	mu       sync.Mutex
	profiles map[string]model.Profile
	swipes   map[string]model.Swipe
	matches  map[string]model.Match
	messages map[string]model.Message
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		profiles: map[string]model.Profile{},
		swipes:   map[string]model.Swipe{},
		matches:  map[string]model.Match{},
		messages: map[string]model.Message{},
	}
}

type memProfiles struct{ db *memoryDB }

func (s memProfiles) Create(_ context.Context, p model.Profile) (model.Profile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.profiles[p.ID]; ok {
		return model.Profile{}, pgrepo.ErrDuplicateProfileID
	}
	for _, existing := range s.db.profiles {
		if existing.Email == p.Email {
			return model.Profile{}, pgrepo.ErrDuplicateEmail
		}
	}
	s.db.profiles[p.ID] = p
	return p, nil
}

func (s memProfiles) GetByID(_ context.Context, id string) (model.Profile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.profiles[id]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	return p, nil
}

func (s memProfiles) GetByEmail(_ context.Context, email string) (model.Profile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, p := range s.db.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return model.Profile{}, pgrepo.ErrProfileNotFound
}

func (s memProfiles) Update(_ context.Context, id string, patch pgrepo.ProfilePatch) (model.Profile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.profiles[id]
	if !ok {
		return model.Profile{}, pgrepo.ErrProfileNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Bio != nil {
		p.Bio = *patch.Bio
	}
	if patch.Age != nil {
		p.Age = *patch.Age
	}
	s.db.profiles[id] = p
	return p, nil
}

func (s memProfiles) TouchLastActive(_ context.Context, id string, at time.Time) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.profiles[id]
	if !ok {
		return pgrepo.ErrProfileNotFound
	}
	p.LastActive = at
	s.db.profiles[id] = p
	return nil
}

func (s memProfiles) ListExcept(_ context.Context, id string) ([]model.Profile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]model.Profile, 0)
	for _, p := range s.db.profiles {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out, nil
}

type memSwipes struct{ db *memoryDB }

func (s memSwipes) Create(_ context.Context, sw model.Swipe) (model.Swipe, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.profiles[sw.FromUserID]; !ok {
		return model.Swipe{}, pgrepo.ErrUnknownProfile
	}
	if _, ok := s.db.profiles[sw.ToUserID]; !ok {
		return model.Swipe{}, pgrepo.ErrUnknownProfile
	}
	key := sw.FromUserID + ">" + sw.ToUserID
	if _, ok := s.db.swipes[key]; ok {
		return model.Swipe{}, pgrepo.ErrDuplicateSwipe
	}
	s.db.swipes[key] = sw
	return sw, nil
}

func (s memSwipes) Get(_ context.Context, from, to string) (model.Swipe, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sw, ok := s.db.swipes[from+">"+to]
	if !ok {
		return model.Swipe{}, pgrepo.ErrSwipeNotFound
	}
	return sw, nil
}

func (s memSwipes) ListFrom(_ context.Context, from string) ([]model.Swipe, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]model.Swipe, 0)
	for _, sw := range s.db.swipes {
		if sw.FromUserID == from {
			out = append(out, sw)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s memSwipes) ListTargets(ctx context.Context, from string) ([]string, error) {
	items, _ := s.ListFrom(ctx, from)
	out := make([]string, 0, len(items))
	for _, sw := range items {
		out = append(out, sw.ToUserID)
	}
	return out, nil
}

type memMatches struct{ db *memoryDB }

func (s memMatches) CreateIfAbsent(_ context.Context, m model.Match) (model.Match, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.matches {
		if existing.PairKey == m.PairKey {
			return model.Match{}, pgrepo.ErrDuplicateMatch
		}
	}
	s.db.matches[m.ID] = m
	return m, nil
}

func (s memMatches) GetByID(_ context.Context, id string) (model.Match, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.matches[id]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	return m, nil
}

func (s memMatches) GetByPairKey(_ context.Context, key string) (model.Match, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, m := range s.db.matches {
		if m.PairKey == key {
			return m, nil
		}
	}
	return model.Match{}, pgrepo.ErrMatchNotFound
}

func (s memMatches) ListActiveForUser(_ context.Context, userID string) ([]model.Match, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]model.Match, 0)
	for _, m := range s.db.matches {
		if m.IsActive && m.Has(userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s memMatches) Deactivate(_ context.Context, id string, at time.Time) (model.Match, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.matches[id]
	if !ok {
		return model.Match{}, pgrepo.ErrMatchNotFound
	}
	m.IsActive = false
	if m.DeactivatedAt == nil {
		m.DeactivatedAt = &at
	}
	s.db.matches[id] = m
	return m, nil
}

func (s memMatches) ListPendingPairs(context.Context, int) ([]pgrepo.MutualPair, error) {
	return nil, nil
}

type memMessages struct{ db *memoryDB }

func (s memMessages) Create(_ context.Context, m model.Message) (model.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.messages[m.ID] = m
	return m, nil
}

func (s memMessages) ListByMatch(_ context.Context, matchID string) ([]model.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]model.Message, 0)
	for _, m := range s.db.messages {
		if m.MatchID == matchID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s memMessages) MarkRead(_ context.Context, id string, at time.Time) (model.Message, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	m, ok := s.db.messages[id]
	if !ok {
		return model.Message{}, pgrepo.ErrMessageNotFound
	}
	if m.ReadAt == nil {
		m.ReadAt = &at
	}
	s.db.messages[id] = m
	return m, nil
}

type testServices struct {
	db       *memoryDB
	profiles *profilesvc.Service
	swipes   *swipesvc.Service
	matches  *matchessvc.Service
	feed     *feedsvc.Service
	messages *messagesvc.Service
}

func newTestServices() testServices {
	db := newMemoryDB()
	matches := matchessvc.NewService(matchessvc.Dependencies{
		Matches: memMatches{db},
		Swipes:  memSwipes{db},
	})
	return testServices{
		db:       db,
		profiles: profilesvc.NewService(memProfiles{db}),
		swipes:   swipesvc.NewService(swipesvc.Dependencies{Swipes: memSwipes{db}, Matches: matches}),
		matches:  matches,
		feed:     feedsvc.NewService(memProfiles{db}, memSwipes{db}, feedsvc.Config{}),
		messages: messagesvc.NewService(messagesvc.Dependencies{Messages: memMessages{db}, Matches: memMatches{db}}),
	}
}

func (s testServices) router() *chi.Mux {
	r := chi.NewRouter()

	profiles := NewProfileHandler(s.profiles)
	feed := NewFeedHandler(s.feed)
	swipes := NewSwipeHandler(s.swipes)
	matches := NewMatchesHandler(s.matches)
	messages := NewMessagesHandler(s.messages)

	r.Get("/api/users/email/{email}", profiles.GetByEmail)
	r.Get("/api/users/{id}", profiles.Get)
	r.Post("/api/users", profiles.Create)
	r.Patch("/api/users/{id}", profiles.Update)
	r.Put("/api/users/{id}/last-active", profiles.TouchLastActive)
	r.Get("/api/users/{id}/potential-matches", feed.PotentialMatches)
	r.Post("/api/swipes", swipes.Create)
	r.Get("/api/users/{id}/swipes", swipes.ListForUser)
	r.Get("/api/users/{id}/matches", matches.ListForUser)
	r.Get("/api/matches/{id}", matches.Get)
	r.Post("/api/matches/{id}/unmatch", matches.Unmatch)
	r.Post("/api/messages", messages.Create)
	r.Get("/api/matches/{id}/messages", messages.ListForMatch)
	r.Patch("/api/messages/{id}/read", messages.MarkRead)
	return r
}
