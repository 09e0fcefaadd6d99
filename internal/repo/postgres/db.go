package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultQueryTimeout = 5 * time.Second

type PoolConfig struct {
	DSN      string
	MaxConns int32
}

func NewPool(ctx context.Context, cfg PoolConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	poolCfg.MinConns = 0
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	return pool, nil
}

// Store groups the four repositories the services depend on. All of them
// share one pool and one per-operation timeout.
type Store struct {
	Profiles *ProfileRepo
	Swipes   *SwipeRepo
	Matches  *MatchRepo
	Messages *MessageRepo
}

func NewStore(pool *pgxpool.Pool, queryTimeout time.Duration) *Store {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Store{
		Profiles: &ProfileRepo{pool: pool, timeout: queryTimeout},
		Swipes:   &SwipeRepo{pool: pool, timeout: queryTimeout},
		Matches:  &MatchRepo{pool: pool, timeout: queryTimeout},
		Messages: &MessageRepo{pool: pool, timeout: queryTimeout},
	}
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
