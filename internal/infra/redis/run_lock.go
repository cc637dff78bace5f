package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sqs-flush/internal/domain/gateway/lock"
	"sqs-flush/internal/domain/model"
	redislib "sqs-flush/pkg/redis"
)

const lockNamespace = "sqs-flush"

// RedisRunLock adapts a pkg/redis.Lock keyed by queue URL to lock.RunLock.
// Acquire makes a single attempt: a busy queue is a skipped run, not a wait.
type RedisRunLock struct {
	lock *redislib.Lock
	ttl  time.Duration
}

func NewRedisRunLock(client *redislib.Client, queueURL string, ttl time.Duration) lock.RunLock {
	opts := redislib.NewLockOptions().
		WithTTL(ttl).
		WithRetry(0, 0).
		WithLockNamespace(lockNamespace)

	return &RedisRunLock{
		lock: redislib.NewLock(client, queueURL, opts),
		ttl:  ttl,
	}
}

func (l *RedisRunLock) Acquire(ctx context.Context) error {
	err := l.lock.Lock(ctx)
	if errors.Is(err, redislib.ErrLockHeld) {
		return fmt.Errorf("%w: %w", model.ErrRunInProgress, err)
	}
	return err
}

// Refresh fails with model.ErrLockLost once the key expired or changed hands
func (l *RedisRunLock) Refresh(ctx context.Context) error {
	err := l.lock.Refresh(ctx)
	if errors.Is(err, redislib.ErrLockNotOwned) {
		return fmt.Errorf("%w: %w", model.ErrLockLost, err)
	}
	return err
}

func (l *RedisRunLock) Release(ctx context.Context) error {
	return l.lock.Unlock(ctx)
}

func (l *RedisRunLock) TTL() time.Duration {
	return l.ttl
}
