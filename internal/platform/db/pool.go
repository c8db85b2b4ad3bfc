package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig bounds the connection pool: fixed max size, bounded connect
// wait, idle-connection reclamation.
type PoolConfig struct {
	MaxConns       int32
	MinConns       int32
	AcquireTimeout time.Duration
	IdleTimeout    time.Duration
}

func NewPool(ctx context.Context, databaseURL string, pc PoolConfig) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = pc.MaxConns
	cfg.MinConns = pc.MinConns
	if pc.AcquireTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = pc.AcquireTimeout
	}
	if pc.IdleTimeout > 0 {
		cfg.MaxConnIdleTime = pc.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
