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

const swipeColumns = `id, from_user_id, to_user_id, is_like, created_at`

type SwipeRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewSwipeRepo(pool *pgxpool.Pool, timeout time.Duration) *SwipeRepo {
	return &SwipeRepo{pool: pool, timeout: timeout}
}

// Create inserts the swipe unless one already exists for the directed pair,
// in which case ErrDuplicateSwipe is returned and nothing is written.
func (r *SwipeRepo) Create(ctx context.Context, s model.Swipe) (model.Swipe, error) {
	if r.pool == nil {
		return model.Swipe{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	created, err := scanSwipe(r.pool.QueryRow(ctx, `
INSERT INTO swipes (
	id,
	from_user_id,
	to_user_id,
	is_like,
	created_at
) VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (from_user_id, to_user_id) DO NOTHING
RETURNING `+swipeColumns,
		s.ID, s.FromUserID, s.ToUserID, s.IsLike, s.CreatedAt.UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Swipe{}, ErrDuplicateSwipe
		}
		if _, ok := isForeignKeyViolation(err); ok {
			return model.Swipe{}, ErrUnknownProfile
		}
		return model.Swipe{}, fmt.Errorf("insert swipe: %w", err)
	}
	return created, nil
}

func (r *SwipeRepo) Get(ctx context.Context, fromUserID, toUserID string) (model.Swipe, error) {
	if r.pool == nil {
		return model.Swipe{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	s, err := scanSwipe(r.pool.QueryRow(ctx, `
SELECT `+swipeColumns+`
FROM swipes
WHERE from_user_id = $1 AND to_user_id = $2
`, fromUserID, toUserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Swipe{}, ErrSwipeNotFound
		}
		return model.Swipe{}, fmt.Errorf("get swipe: %w", err)
	}
	return s, nil
}

func (r *SwipeRepo) ListFrom(ctx context.Context, fromUserID string) ([]model.Swipe, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
SELECT `+swipeColumns+`
FROM swipes
WHERE from_user_id = $1
ORDER BY created_at ASC, id ASC
`, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("list swipes: %w", err)
	}
	defer rows.Close()

	items := make([]model.Swipe, 0)
	for rows.Next() {
		s, err := scanSwipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan swipe: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swipes: %w", err)
	}
	return items, nil
}

// ListTargets returns the ids fromUserID has already swiped on, in either direction of decision.
func (r *SwipeRepo) ListTargets(ctx context.Context, fromUserID string) ([]string, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `SELECT to_user_id FROM swipes WHERE from_user_id = $1`, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("list swipe targets: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swipe target: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate swipe targets: %w", err)
	}
	return ids, nil
}

func scanSwipe(row pgx.Row) (model.Swipe, error) {
	var s model.Swipe
	if err := row.Scan(&s.ID, &s.FromUserID, &s.ToUserID, &s.IsLike, &s.CreatedAt); err != nil {
		return model.Swipe{}, err
	}
	return s, nil
}
