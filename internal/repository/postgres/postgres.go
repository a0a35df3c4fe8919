// Package postgres implements the core repository interfaces on top of a
// pgx connection pool. Identity is assigned here (uuid) along with
// created/updated timestamps; callers hand records in by value and receive
// the stored shape back.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reachforge/outreach/internal/core"
)

// Store implements every core repository interface against PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ core.ListRepository     = (*Store)(nil)
	_ core.ContactRepository  = (*Store)(nil)
	_ core.TemplateRepository = (*Store)(nil)
	_ core.ActivityRepository = (*Store)(nil)
)

// NewStore creates a Store over an existing pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// NewPool connects and pings a pgx pool configured from the URL.
func NewPool(ctx context.Context, url string, maxConns, minConns int32, maxLifetime, maxIdle time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = maxLifetime
	cfg.MaxConnIdleTime = maxIdle

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// notFound converts pgx.ErrNoRows into the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}
