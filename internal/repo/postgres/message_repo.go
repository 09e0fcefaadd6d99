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

const messageColumns = `id, match_id, sender_id, receiver_id, text, image_url, created_at, read_at`

type MessageRepo struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewMessageRepo(pool *pgxpool.Pool, timeout time.Duration) *MessageRepo {
	return &MessageRepo{pool: pool, timeout: timeout}
}

func (r *MessageRepo) Create(ctx context.Context, m model.Message) (model.Message, error) {
	if r.pool == nil {
		return model.Message{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	created, err := scanMessage(r.pool.QueryRow(ctx, `
INSERT INTO messages (
	id,
	match_id,
	sender_id,
	receiver_id,
	text,
	image_url,
	created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+messageColumns,
		m.ID, m.MatchID, m.SenderID, m.ReceiverID, m.Text, m.ImageURL, m.CreatedAt.UTC(),
	))
	if err != nil {
		if constraint, ok := isForeignKeyViolation(err); ok {
			if constraint == "messages_match_id_fkey" {
				return model.Message{}, ErrUnknownMatch
			}
			return model.Message{}, ErrUnknownProfile
		}
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return created, nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id string) (model.Message, error) {
	if r.pool == nil {
		return model.Message{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	m, err := scanMessage(r.pool.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Message{}, ErrMessageNotFound
		}
		return model.Message{}, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// ListByMatch returns the conversation oldest first.
func (r *MessageRepo) ListByMatch(ctx context.Context, matchID string) ([]model.Message, error) {
	if r.pool == nil {
		return nil, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
SELECT `+messageColumns+`
FROM messages
WHERE match_id = $1
ORDER BY created_at ASC, id ASC
`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]model.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return items, nil
}

// MarkRead stamps read_at once; later calls return the row unchanged.
func (r *MessageRepo) MarkRead(ctx context.Context, id string, at time.Time) (model.Message, error) {
	if r.pool == nil {
		return model.Message{}, ErrUnavailable
	}
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	m, err := scanMessage(r.pool.QueryRow(ctx, `
UPDATE messages
SET read_at = COALESCE(read_at, $2)
WHERE id = $1
RETURNING `+messageColumns, id, at.UTC()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Message{}, ErrMessageNotFound
		}
		return model.Message{}, fmt.Errorf("mark message read: %w", err)
	}
	return m, nil
}

func scanMessage(row pgx.Row) (model.Message, error) {
	var m model.Message
	if err := row.Scan(
		&m.ID,
		&m.MatchID,
		&m.SenderID,
		&m.ReceiverID,
		&m.Text,
		&m.ImageURL,
		&m.CreatedAt,
		&m.ReadAt,
	); err != nil {
		return model.Message{}, err
	}
	return m, nil
}
