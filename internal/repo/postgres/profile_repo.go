package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/enums"
	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

const profileColumns = `id, email, name, age, gender, interested_in, bio, location, interests, profile_images, created_at, last_active`

type ProfileRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewProfileRepo(pool *pgxpool.Pool, timeout time.Duration) *ProfileRepo {
	return &ProfileRepo{pool: pool, timeout: timeout}
}

// ProfilePatch carries the mutable profile fields. Nil fields are left untouched.
type ProfilePatch struct {
	Name          *string
	Age           *int
	Gender        *string
	InterestedIn  *string
	Bio           *string
	Location      *string
	Interests     *[]string
	ProfileImages *[]string
}

func (r *ProfileRepo) Create(ctx context.Context, p model.Profile) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
INSERT INTO profiles (
	id,
	email,
	name,
	age,
	gender,
	interested_in,
	bio,
	location,
	interests,
	profile_images,
	created_at,
	last_active
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING `+profileColumns,
		p.ID,
		p.Email,
		p.Name,
		p.Age,
		string(p.Gender),
		string(p.InterestedIn),
		p.Bio,
		p.Location,
		nonNilStrings(p.Interests),
		nonNilStrings(p.ProfileImages),
		p.CreatedAt.UTC(),
		p.LastActive.UTC(),
	)

	created, err := scanProfile(row)
	if err != nil {
		switch {
		case isUniqueViolation(err, "profiles_email_key"):
			return model.Profile{}, ErrDuplicateEmail
		case isUniqueViolation(err, "profiles_pkey"):
			return model.Profile{}, ErrDuplicateProfileID
		}
		return model.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return created, nil
}

func (r *ProfileRepo) GetByID(ctx context.Context, id string) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) Update(ctx context.Context, id string, patch ProfilePatch) (model.Profile, error) {
	if r.pool == nil {
		return model.Profile{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
UPDATE profiles
SET name = COALESCE($2::text, name),
	age = COALESCE($3::int, age),
	gender = COALESCE($4::text, gender),
	interested_in = COALESCE($5::text, interested_in),
	bio = COALESCE($6::text, bio),
	location = COALESCE($7::text, location),
	interests = COALESCE($8::text[], interests),
	profile_images = COALESCE($9::text[], profile_images)
WHERE id = $1
RETURNING `+profileColumns,
		id,
		patch.Name,
		patch.Age,
		patch.Gender,
		patch.InterestedIn,
		patch.Bio,
		patch.Location,
		nonNilStringsPtr(patch.Interests),
		nonNilStringsPtr(patch.ProfileImages),
	)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

func (r *ProfileRepo) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	if r.pool == nil {
		return ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET last_active = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("touch profile last_active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ListExcept returns every profile other than userID, oldest first.
func (r *ProfileRepo) ListExcept(ctx context.Context, userID string) ([]model.Profile, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE id <> $1
ORDER BY created_at ASC, id ASC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	items := make([]model.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return items, nil
}

func scanProfile(row pgx.Row) (model.Profile, error) {
	var (
		p            model.Profile
		gender       string
		interestedIn string
	)
	if err := row.Scan(
		&p.ID,
		&p.Email,
		&p.Name,
		&p.Age,
		&gender,
		&interestedIn,
		&p.Bio,
		&p.Location,
		&p.Interests,
		&p.ProfileImages,
		&p.CreatedAt,
		&p.LastActive,
	); err != nil {
		return model.Profile{}, err
	}
	p.Gender = enums.Gender(gender)
	p.InterestedIn = enums.InterestedIn(interestedIn)
	p.Interests = nonNilStrings(p.Interests)
	p.ProfileImages = nonNilStrings(p.ProfileImages)
	return p, nil
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func nonNilStringsPtr(items *[]string) []string {
	if items == nil {
		return nil
	}
	return nonNilStrings(*items)
}
