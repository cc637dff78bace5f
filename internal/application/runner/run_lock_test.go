package runner

import (
	"context"
	"strconv"
	"testing"
	"time"

	"sqs-flush/internal/domain/entity"
	"sqs-flush/internal/domain/model"
	"sqs-flush/internal/infra/redis"
	redislib "sqs-flush/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const lockedQueue = "https://sqs.eu-west-1.amazonaws.com/123456789012/events"

func TestRunHoldsRedisLockPastTTL(t *testing.T) {
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	client, err := redislib.NewClient(redislib.NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ttl := 5 * time.Minute
	var overlapErr error
	useCase := new(MockUseCase)
	useCase.On("Flush", mock.Anything).Run(func(mock.Arguments) {
		// 6 minutes pass in total, each step shorter than the TTL
		for i := 0; i < 3; i++ {
			time.Sleep(50 * time.Millisecond)
			server.FastForward(2 * time.Minute)
		}
		overlapErr = redis.NewRedisRunLock(client, lockedQueue, ttl).Acquire(context.Background())
	}).Return(entity.NewRunReport(1, 1, 1), nil)

	r := NewRunner(useCase, redis.NewRedisRunLock(client, lockedQueue, ttl), lockedQueue)
	r.refreshEvery = 10 * time.Millisecond

	_, err = r.Run(context.Background())

	require.NoError(t, err)
	assert.ErrorIs(t, overlapErr, model.ErrRunInProgress)
	assert.False(t, server.Exists("sqs-flush::"+lockedQueue))
}

func TestRunAbortsWhenRedisLockExpires(t *testing.T) {
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	client, err := redislib.NewClient(redislib.NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	useCase := new(MockUseCase)
	useCase.On("Flush", mock.Anything).Run(func(args mock.Arguments) {
		server.FastForward(6 * time.Minute)
		<-args.Get(0).(context.Context).Done()
	}).Return(entity.RunReport{}, context.Canceled)

	r := NewRunner(useCase, redis.NewRedisRunLock(client, lockedQueue, 5*time.Minute), lockedQueue)
	r.refreshEvery = 10 * time.Millisecond

	_, err = r.Run(context.Background())

	assert.ErrorIs(t, err, model.ErrLockLost)
}
