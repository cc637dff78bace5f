package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned when another holder owns the lock after all attempts
var ErrLockHeld = errors.New("lock is held by another client")

// ErrLockNotOwned is returned when releasing or refreshing a lock this client no longer holds
var ErrLockNotOwned = errors.New("lock was not held by this client")

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// refreshScript extends the TTL only if the key still holds our token
var refreshScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// LockOptions represents options for distributed locking
type LockOptions struct {
	// TTL is the lock expiration time
	TTL time.Duration
	// RetryDelay is the delay between retry attempts
	RetryDelay time.Duration
	// MaxRetries is the number of extra attempts after the first one
	MaxRetries int
	// LockNamespace is the namespace for organizing locks
	LockNamespace string
}

// NewLockOptions creates a new lock options with default values
func NewLockOptions() *LockOptions {
	return &LockOptions{
		TTL:        30 * time.Second,
		RetryDelay: 100 * time.Millisecond,
	}
}

// WithTTL sets the lock expiration time
func (lo *LockOptions) WithTTL(ttl time.Duration) *LockOptions {
	lo.TTL = ttl
	return lo
}

// WithRetry sets how many extra attempts are made and how long to wait between them
func (lo *LockOptions) WithRetry(maxRetries int, delay time.Duration) *LockOptions {
	lo.MaxRetries = maxRetries
	lo.RetryDelay = delay
	return lo
}

// WithLockNamespace sets the namespace for organizing locks
func (lo *LockOptions) WithLockNamespace(namespace string) *LockOptions {
	lo.LockNamespace = namespace
	return lo
}

// Lock represents a distributed lock
type Lock struct {
	client *Client
	key    string
	value  string
	opts   *LockOptions
}

// NewLock creates a new distributed lock identified by a random token
func NewLock(client *Client, key string, opts *LockOptions) *Lock {
	if opts == nil {
		opts = NewLockOptions()
	}
	return &Lock{
		client: client,
		key:    key,
		value:  uuid.NewString(),
		opts:   opts,
	}
}

// Key returns the full redis key of the lock, LockNamespace::key
func (l *Lock) Key() string {
	if l.opts.LockNamespace != "" {
		return l.opts.LockNamespace + "::" + l.key
	}
	return l.key
}

// Lock attempts to acquire the lock with SET NX
func (l *Lock) Lock(ctx context.Context) error {
	fullKey := l.Key()
	for attempt := 0; attempt <= l.opts.MaxRetries; attempt++ {
		acquired, err := l.client.GetClient().SetNX(ctx, fullKey, l.value, l.opts.TTL).Result()
		if err != nil {
			return fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
		}
		if acquired {
			return nil
		}

		if attempt == l.opts.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.opts.RetryDelay):
		}
	}

	return fmt.Errorf("%w: %s after %d attempts", ErrLockHeld, fullKey, l.opts.MaxRetries+1)
}

// Unlock releases the lock if this client still owns it
func (l *Lock) Unlock(ctx context.Context) error {
	result, err := releaseScript.Run(ctx, l.client.GetClient(), []string{l.Key()}, l.value).Int64()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", l.Key(), err)
	}
	if result == 0 {
		return fmt.Errorf("%w: %s", ErrLockNotOwned, l.Key())
	}
	return nil
}

// Refresh resets the lock's TTL if this client still owns it
func (l *Lock) Refresh(ctx context.Context) error {
	result, err := refreshScript.Run(ctx, l.client.GetClient(), []string{l.Key()}, l.value, l.opts.TTL.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("failed to refresh lock %s: %w", l.Key(), err)
	}
	if result == 0 {
		return fmt.Errorf("%w: %s", ErrLockNotOwned, l.Key())
	}
	return nil
}
