// Package lock serializes appointment booking per veterinarian so the
// overlap check and the subsequent write behave as one unit under concurrent
// requests. The default implementation uses PostgreSQL advisory locks; a
// Redis-backed one is available when the deployment runs several instances
// against a shared Redis.
package lock

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotAcquired is returned when the critical section is already held and
// the caller should retry.
var ErrNotAcquired = errors.New("veterinarian lock not acquired")

// Locker guards the overlap-check-then-write sequence for one veterinarian.
type Locker interface {
	WithVetLock(ctx context.Context, vetID uuid.UUID, fn func(ctx context.Context) error) error
}

type pgAdvisoryLocker struct {
	pool *pgxpool.Pool
}

// NewPgAdvisoryLocker creates a Locker backed by session-scoped
// pg_advisory_lock, which serializes across every process sharing the
// database.
func NewPgAdvisoryLocker(pool *pgxpool.Pool) Locker {
	return &pgAdvisoryLocker{pool: pool}
}

func (l *pgAdvisoryLocker) WithVetLock(ctx context.Context, vetID uuid.UUID, fn func(ctx context.Context) error) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}

	key := advisoryKey(vetID)
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		conn.Release()
		return fmt.Errorf("acquire veterinarian lock: %w", err)
	}

	defer func() {
		// Session-scoped advisory locks survive on a pooled connection, so a
		// failed unlock must close the session instead of returning it.
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", key); err != nil {
			_ = conn.Conn().Close(context.Background())
		}
		conn.Release()
	}()

	return fn(ctx)
}

// advisoryKey maps a veterinarian id onto the int64 keyspace of
// pg_advisory_lock.
func advisoryKey(vetID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write(vetID[:])
	return int64(h.Sum64())
}
