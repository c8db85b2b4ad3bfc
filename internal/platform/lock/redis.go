package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock key only when it still holds our token, so
// an instance whose lock expired cannot release a lock acquired by another.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a Locker backed by a SET NX key with a TTL. The TTL
// bounds how long a crashed instance can block bookings for one veterinarian.
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) WithVetLock(ctx context.Context, vetID uuid.UUID, fn func(ctx context.Context) error) error {
	key := vetLockKey(vetID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire veterinarian lock: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		_, _ = releaseScript.Run(context.Background(), l.client, []string{key}, token).Result()
	}()

	// The critical section must not outlive the lock.
	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

func vetLockKey(vetID uuid.UUID) string {
	return fmt.Sprintf("lock:veterinarian:%s", vetID)
}
