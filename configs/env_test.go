package configs

import (
	"testing"
	"time"

	"sqs-flush/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("S3_BUCKET_FOR_LOGGING", "archive-bucket")
	t.Setenv("QUEUE_URL", "https://sqs.us-east-1.amazonaws.com/123456789012/logs")
	t.Setenv("LOG_FOLDER_PREFIX", "logs/")
	t.Setenv("LOG_OBJECT_PREFIX", "app_")
	t.Setenv("GZIP_ENABLED", "false")
}

func TestLoadRequiredKeys(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "archive-bucket", cfg.Bucket)
	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123456789012/logs", cfg.QueueURL)
	assert.Equal(t, "logs", cfg.FolderPrefix)
	assert.Equal(t, "app", cfg.ObjectPrefix)
	assert.False(t, cfg.GzipEnabled)
	assert.False(t, cfg.ZeroPadKeys)
	assert.Equal(t, int32(10), cfg.BatchSize)
	assert.Equal(t, int32(30), cfg.VisibilityTimeout)
	assert.Zero(t, cfg.MaxBatches)
	assert.Equal(t, "sqs-flush", cfg.ApplicationName)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoadLowerCaseNames(t *testing.T) {
	t.Setenv("s3_bucket_for_logging", "lower-bucket")
	t.Setenv("queue_url", "queue")
	t.Setenv("log_folder_prefix", "folder")
	t.Setenv("log_object_prefix", "object")
	t.Setenv("gzip_enabled", "yes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "lower-bucket", cfg.Bucket)
	assert.Equal(t, "folder", cfg.FolderPrefix)
	assert.Equal(t, "object", cfg.ObjectPrefix)
	assert.True(t, cfg.GzipEnabled)
}

func TestLoadZeroPadKeys(t *testing.T) {
	setRequired(t)
	t.Setenv("ZERO_PAD_KEYS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.ZeroPadKeys)
}

func TestLoadMissingKeys(t *testing.T) {
	t.Setenv("S3_BUCKET_FOR_LOGGING", "archive-bucket")

	_, err := Load()

	require.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "queue_url")
	assert.Contains(t, err.Error(), "gzip_enabled")
}

func TestLoadBatchSize(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int32
		wantErr bool
	}{
		{name: "minimum", value: "1", want: 1},
		{name: "maximum", value: "10", want: 10},
		{name: "zero", value: "0", wantErr: true},
		{name: "above limit", value: "11", wantErr: true},
		{name: "not a number", value: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("BATCH_SIZE", tt.value)

			cfg, err := Load()
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BatchSize)
		})
	}
}

func TestLoadMaxBatches(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_BATCHES", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxBatches)

	t.Setenv("MAX_BATCHES", "-1")
	_, err = Load()
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestLoadRedis(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_DATABASE", "2")
	t.Setenv("LOCK_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.Equal(t, 2, cfg.Redis.Database)
	assert.Equal(t, 90*time.Second, cfg.Redis.LockTTL)
}

func TestLoadRedisInvalidTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("LOCK_TTL", "soon")

	_, err := Load()

	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestIsTruthy(t *testing.T) {
	for _, value := range []string{"true", "TRUE", "1", "t", "T", "y", "Yes", " yes "} {
		assert.True(t, IsTruthy(value), value)
	}
	for _, value := range []string{"false", "0", "no", "n", "", "enabled"} {
		assert.False(t, IsTruthy(value), value)
	}
}
