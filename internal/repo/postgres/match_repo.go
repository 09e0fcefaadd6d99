package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash0834/lovelane-cloudinary-api/internal/domain/model"
)

const matchColumns = `id, user1_id, user2_id, pair_key, created_at, is_active, deactivated_at`

type MatchRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewMatchRepo(pool *pgxpool.Pool, timeout time.Duration) *MatchRepo {
	return &MatchRepo{pool: pool, timeout: timeout}
}

// MutualPair is a pair of users who liked each other but have no match row yet.
// UserA sorts before UserB.
type MutualPair struct {
	UserA string
	UserB string
}

// CreateIfAbsent inserts m unless a match already exists for m.PairKey.
// The existing row is left alone and ErrDuplicateMatch is returned.
func (r *MatchRepo) CreateIfAbsent(ctx context.Context, m model.Match) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	created, err := scanMatch(r.pool.QueryRow(ctx, `
INSERT INTO matches (
	id,
	user1_id,
	user2_id,
	pair_key,
	created_at,
	is_active
) VALUES ($1, $2, $3, $4, $5, TRUE)
ON CONFLICT (pair_key) DO NOTHING
RETURNING `+matchColumns,
		m.ID, m.User1ID, m.User2ID, m.PairKey, m.CreatedAt.UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrDuplicateMatch
		}
		if _, ok := isForeignKeyViolation(err); ok {
			return model.Match{}, ErrUnknownProfile
		}
		return model.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return created, nil
}

func (r *MatchRepo) GetByID(ctx context.Context, id string) (model.Match, error) {
	return r.getOne(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
}

func (r *MatchRepo) GetByPairKey(ctx context.Context, pairKey string) (model.Match, error) {
	return r.getOne(ctx, `SELECT `+matchColumns+` FROM matches WHERE pair_key = $1`, pairKey)
}

func (r *MatchRepo) getOne(ctx context.Context, query, arg string) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	m, err := scanMatch(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("get match: %w", err)
	}
	return m, nil
}

func (r *MatchRepo) ListActiveForUser(ctx context.Context, userID string) ([]model.Match, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
SELECT `+matchColumns+`
FROM matches
WHERE is_active AND (user1_id = $1 OR user2_id = $1)
ORDER BY created_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list active matches: %w", err)
	}
	defer rows.Close()

	items := make([]model.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return items, nil
}

// Deactivate flips is_active off. The first deactivation time is kept on repeat calls.
func (r *MatchRepo) Deactivate(ctx context.Context, id string, at time.Time) (model.Match, error) {
	if r.pool == nil {
		return model.Match{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	m, err := scanMatch(r.pool.QueryRow(ctx, `
UPDATE matches
SET is_active = FALSE,
	deactivated_at = COALESCE(deactivated_at, $2)
WHERE id = $1
RETURNING `+matchColumns, id, at.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, ErrMatchNotFound
		}
		return model.Match{}, fmt.Errorf("deactivate match: %w", err)
	}
	return m, nil
}

// ListPendingPairs finds reciprocal likes with no match row, oldest completion first.
// Ids are compared and measured byte-wise so the computed key agrees with rules.PairKey.
func (r *MatchRepo) ListPendingPairs(ctx context.Context, limit int) ([]MutualPair, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
SELECT a.from_user_id, a.to_user_id
FROM swipes a
JOIN swipes b
	ON b.from_user_id = a.to_user_id
	AND b.to_user_id = a.from_user_id
WHERE a.is_like
	AND b.is_like
	AND a.from_user_id COLLATE "C" < a.to_user_id COLLATE "C"
	AND NOT EXISTS (
		SELECT 1 FROM matches m
		WHERE m.pair_key = octet_length(a.from_user_id)::text || ':' || a.from_user_id || ':' || a.to_user_id
	)
ORDER BY GREATEST(a.created_at, b.created_at) ASC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending mutual likes: %w", err)
	}
	defer rows.Close()

	pairs := make([]MutualPair, 0)
	for rows.Next() {
		var p MutualPair
		if err := rows.Scan(&p.UserA, &p.UserB); err != nil {
			return nil, fmt.Errorf("scan mutual pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutual pairs: %w", err)
	}
	return pairs, nil
}

func scanMatch(row pgx.Row) (model.Match, error) {
	var m model.Match
	if err := row.Scan(
		&m.ID,
		&m.User1ID,
		&m.User2ID,
		&m.PairKey,
		&m.CreatedAt,
		&m.IsActive,
		&m.DeactivatedAt,
	); err != nil {
		return model.Match{}, err
	}
	return m, nil
}
