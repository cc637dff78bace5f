package redis

import (
	"context"
	"strconv"
	"testing"
	"time"

	"sqs-flush/internal/domain/model"
	redislib "sqs-flush/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const queueURL = "https://sqs.eu-west-1.amazonaws.com/123456789012/events"

func newClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)

	client, err := redislib.NewClient(redislib.NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, server
}

func TestRunLockExcludesConcurrentRuns(t *testing.T) {
	client, server := newClient(t)
	ctx := context.Background()
	first := NewRedisRunLock(client, queueURL, time.Minute)
	second := NewRedisRunLock(client, queueURL, time.Minute)

	require.NoError(t, first.Acquire(ctx))
	assert.True(t, server.Exists("sqs-flush::"+queueURL))

	assert.ErrorIs(t, second.Acquire(ctx), model.ErrRunInProgress)

	require.NoError(t, first.Release(ctx))
	require.NoError(t, second.Acquire(ctx))
	require.NoError(t, second.Release(ctx))
}

func TestRunLockPerQueue(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	require.NoError(t, NewRedisRunLock(client, queueURL, time.Minute).Acquire(ctx))
	require.NoError(t, NewRedisRunLock(client, queueURL+"-other", time.Minute).Acquire(ctx))
}

func TestRunLockReleaseAfterExpiry(t *testing.T) {
	client, server := newClient(t)
	ctx := context.Background()
	runLock := NewRedisRunLock(client, queueURL, time.Second)

	require.NoError(t, runLock.Acquire(ctx))
	server.FastForward(5 * time.Second)

	assert.ErrorIs(t, runLock.Release(ctx), redislib.ErrLockNotOwned)
}

func TestRunLockRefreshExtendsTTL(t *testing.T) {
	client, server := newClient(t)
	ctx := context.Background()
	runLock := NewRedisRunLock(client, queueURL, time.Minute)
	assert.Equal(t, time.Minute, runLock.TTL())

	require.NoError(t, runLock.Acquire(ctx))
	server.FastForward(50 * time.Second)
	require.NoError(t, runLock.Refresh(ctx))
	server.FastForward(50 * time.Second)

	assert.True(t, server.Exists("sqs-flush::"+queueURL))
	assert.ErrorIs(t, NewRedisRunLock(client, queueURL, time.Minute).Acquire(ctx), model.ErrRunInProgress)
}

func TestRunLockRefreshAfterExpiry(t *testing.T) {
	client, server := newClient(t)
	ctx := context.Background()
	runLock := NewRedisRunLock(client, queueURL, time.Minute)

	require.NoError(t, runLock.Acquire(ctx))
	server.FastForward(2 * time.Minute)

	assert.ErrorIs(t, runLock.Refresh(ctx), model.ErrLockLost)
}
