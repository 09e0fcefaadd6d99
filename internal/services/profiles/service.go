package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/enums"
	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/rules"
	"github.com/yash0834/lovelane-cloudinary-api/internal/pkg/validate"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
)

var (
	ErrValidation     = validate.ErrInvalid
	ErrNotFound       = errors.New("profile not found")
	ErrDuplicateEmail = errors.New("email already registered")
	ErrDuplicateID    = errors.New("profile id already taken")
)

type ProfileStore interface {
	Create(ctx context.Context, p model.Profile) (model.Profile, error)
	GetByID(ctx context.Context, id string) (model.Profile, error)
	GetByEmail(ctx context.Context, email string) (model.Profile, error)
	Update(ctx context.Context, id string, patch pgrepo.ProfilePatch) (model.Profile, error)
	TouchLastActive(ctx context.Context, id string, at time.Time) error
}

type Service struct {
	store ProfileStore
	now   func() time.Time
	newID func() string
}

type CreateInput struct {
	ID            string
	Email         string
	Name          string
	Age           int
	Gender        string
	InterestedIn  string
	Bio           string
	Location      string
	Interests     []string
	ProfileImages []string
}

// UpdateInput is a partial update; nil fields keep their stored value.
type UpdateInput struct {
	Name          *string
	Age           *int
	Gender        *string
	InterestedIn  *string
	Bio           *string
	Location      *string
	Interests     *[]string
	ProfileImages *[]string
}

func NewService(store ProfileStore) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (model.Profile, error) {
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	var problems validate.Problems
	p := model.Profile{
		ID:           strings.TrimSpace(in.ID),
		Email:        normalizeEmail(in.Email),
		Name:         strings.TrimSpace(in.Name),
		Age:          in.Age,
		Gender:       enums.ParseGender(in.Gender),
		InterestedIn: enums.ParseInterestedIn(in.InterestedIn),
		Bio:          strings.TrimSpace(in.Bio),
		Location:     strings.TrimSpace(in.Location),
	}
	problems.Check(validate.Email(p.Email), "email", "must be a valid email address")
	problems.Check(p.Name != "", "name", "is required")
	problems.Check(rules.AgeAllowed(p.Age), "age", fmt.Sprintf("must be between %d and %d", rules.MinAge, rules.MaxAge))
	problems.Check(p.Gender.Valid(), "gender", "must be one of male, female, non-binary")
	problems.Check(p.InterestedIn.Valid(), "interestedIn", "must be one of men, women, everyone")
	problems.Check(utf8.RuneCountInString(p.Bio) <= rules.MaxBioLength, "bio", fmt.Sprintf("must be at most %d characters", rules.MaxBioLength))
	p.Interests = normalizeInterests(&problems, in.Interests)
	p.ProfileImages = normalizeImages(&problems, in.ProfileImages)
	if err := problems.Err(); err != nil {
		return model.Profile{}, err
	}

	if p.ID == "" {
		p.ID = s.newID()
	}
	now := s.now().UTC()
	p.CreatedAt = now
	p.LastActive = now

	created, err := s.store.Create(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrDuplicateEmail):
			return model.Profile{}, ErrDuplicateEmail
		case errors.Is(err, pgrepo.ErrDuplicateProfileID):
			return model.Profile{}, ErrDuplicateID
		}
		return model.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

func (s *Service) Get(ctx context.Context, id string) (model.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	email = normalizeEmail(email)
	if email == "" {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	p, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (model.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return model.Profile{}, ErrNotFound
	}
	if s.store == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	var (
		problems validate.Problems
		patch    pgrepo.ProfilePatch
	)
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		problems.Check(name != "", "name", "is required")
		patch.Name = &name
	}
	if in.Age != nil {
		problems.Check(rules.AgeAllowed(*in.Age), "age", fmt.Sprintf("must be between %d and %d", rules.MinAge, rules.MaxAge))
		patch.Age = in.Age
	}
	if in.Gender != nil {
		gender := enums.ParseGender(*in.Gender)
		problems.Check(gender.Valid(), "gender", "must be one of male, female, non-binary")
		value := string(gender)
		patch.Gender = &value
	}
	if in.InterestedIn != nil {
		interestedIn := enums.ParseInterestedIn(*in.InterestedIn)
		problems.Check(interestedIn.Valid(), "interestedIn", "must be one of men, women, everyone")
		value := string(interestedIn)
		patch.InterestedIn = &value
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		problems.Check(utf8.RuneCountInString(bio) <= rules.MaxBioLength, "bio", fmt.Sprintf("must be at most %d characters", rules.MaxBioLength))
		patch.Bio = &bio
	}
	if in.Location != nil {
		location := strings.TrimSpace(*in.Location)
		patch.Location = &location
	}
	if in.Interests != nil {
		interests := normalizeInterests(&problems, *in.Interests)
		patch.Interests = &interests
	}
	if in.ProfileImages != nil {
		images := normalizeImages(&problems, *in.ProfileImages)
		patch.ProfileImages = &images
	}
	if err := problems.Err(); err != nil {
		return model.Profile{}, err
	}

	p, err := s.store.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (s *Service) TouchLastActive(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotFound
	}
	if s.store == nil {
		return fmt.Errorf("profile store is nil")
	}

	if err := s.store.TouchLastActive(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("touch last active: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeInterests(problems *validate.Problems, raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			problems.Add("interests", "must not contain empty entries")
			continue
		}
		out = append(out, item)
	}
	return out
}

func normalizeImages(problems *validate.Problems, raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if !validate.HTTPURL(item) {
			problems.Add("profileImages", "must contain absolute http(s) urls")
			continue
		}
		out = append(out, item)
	}
	return out
}
