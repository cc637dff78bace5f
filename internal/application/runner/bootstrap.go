package runner

import (
	"context"
	"fmt"
	"time"

	"sqs-flush/configs"
	"sqs-flush/internal/domain/gateway/lock"
	"sqs-flush/internal/domain/usecase/flush"
	"sqs-flush/internal/infra/aws"
	"sqs-flush/internal/infra/redis"
	redislib "sqs-flush/pkg/redis"
)

// Build wires the AWS clients, the optional redis run lock and the flush use
// case from cfg. The returned close function releases the redis connection.
func Build(ctx context.Context, cfg *configs.EnvConfig) (*Runner, func(), error) {
	awsCfg, err := aws.LoadConfig(ctx, cfg.AWS)
	if err != nil {
		return nil, nil, err
	}

	queueGateway := aws.NewSQSQueueAdapter(aws.NewSqsClient(awsCfg), cfg.QueueURL)
	storageGateway := aws.NewS3StorageAdapter(aws.NewS3Client(awsCfg), cfg.Bucket)

	useCase := flush.NewFlushUseCase(queueGateway, storageGateway, flush.Config{
		FolderPrefix:      cfg.FolderPrefix,
		ObjectPrefix:      cfg.ObjectPrefix,
		Compress:          cfg.GzipEnabled,
		BatchSize:         cfg.BatchSize,
		VisibilityTimeout: time.Duration(cfg.VisibilityTimeout) * time.Second,
		MaxBatches:        cfg.MaxBatches,
		ZeroPadKeys:       cfg.ZeroPadKeys,
	})

	closeFn := func() {}
	var runLock lock.RunLock
	if cfg.Redis.Enabled() {
		client, err := redislib.NewClient(redislib.NewRedisConfig().
			WithHost(cfg.Redis.Host).
			WithPort(cfg.Redis.Port).
			WithPassword(cfg.Redis.Password).
			WithDatabase(cfg.Redis.Database))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s:%d: %w", cfg.Redis.Host, cfg.Redis.Port, err)
		}

		runLock = redis.NewRedisRunLock(client, cfg.QueueURL, cfg.Redis.LockTTL)
		closeFn = func() { _ = client.Close() }
	}

	return NewRunner(useCase, runLock, cfg.QueueURL), closeFn, nil
}
