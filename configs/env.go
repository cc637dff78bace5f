package configs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"sqs-flush/internal/domain/model"

	"github.com/spf13/viper"
)

const (
	defaultApplicationName   = "sqs-flush"
	defaultBatchSize         = 10
	defaultVisibilityTimeout = 30
	defaultLockTTL           = "5m"
	defaultRedisPort         = 6379
)

var truthyValues = []string{"true", "1", "t", "y", "yes"}

// EnvConfig holds everything one drain pass needs. It is built once at startup
// and handed to the components that need it.
type EnvConfig struct {
	ApplicationName string
	LogLevel        string

	Bucket       string
	QueueURL     string
	FolderPrefix string
	ObjectPrefix string
	GzipEnabled  bool
	ZeroPadKeys  bool

	BatchSize         int32
	VisibilityTimeout int32
	MaxBatches        int

	AWS   AWSConfig
	Redis RedisConfig
}

type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// RedisConfig is optional. An empty Host disables the run lock.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	Database int
	LockTTL  time.Duration
}

// Enabled reports whether a redis host was configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads the configuration from the process environment.
func Load() (*EnvConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	for _, key := range []string{
		"application_name", "log_level",
		"s3_bucket_for_logging", "queue_url", "log_folder_prefix", "log_object_prefix", "gzip_enabled", "zero_pad_keys",
		"batch_size", "visibility_timeout", "max_batches",
		"aws_region", "aws_endpoint", "aws_access_key_id", "aws_secret_access_key",
		"redis_host", "redis_port", "redis_password", "redis_database", "lock_ttl",
	} {
		// Lambda deployments historically set these in lower case.
		if err := v.BindEnv(key, strings.ToUpper(key), key); err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrInvalidConfig, err)
		}
	}

	v.SetDefault("application_name", defaultApplicationName)
	v.SetDefault("log_level", "info")
	v.SetDefault("batch_size", defaultBatchSize)
	v.SetDefault("visibility_timeout", defaultVisibilityTimeout)
	v.SetDefault("max_batches", 0)
	v.SetDefault("redis_port", defaultRedisPort)
	v.SetDefault("lock_ttl", defaultLockTTL)

	var missing []string
	required := func(key string) string {
		value := v.GetString(key)
		if value == "" {
			missing = append(missing, key)
		}
		return value
	}

	cfg := &EnvConfig{
		ApplicationName: v.GetString("application_name"),
		LogLevel:        v.GetString("log_level"),
		Bucket:          required("s3_bucket_for_logging"),
		QueueURL:        required("queue_url"),
		FolderPrefix:    strings.TrimSuffix(required("log_folder_prefix"), "/"),
		ObjectPrefix:    strings.TrimSuffix(required("log_object_prefix"), "_"),
		GzipEnabled:     IsTruthy(required("gzip_enabled")),
		ZeroPadKeys:     IsTruthy(v.GetString("zero_pad_keys")),
		AWS: AWSConfig{
			Region:          v.GetString("aws_region"),
			Endpoint:        v.GetString("aws_endpoint"),
			AccessKeyID:     v.GetString("aws_access_key_id"),
			SecretAccessKey: v.GetString("aws_secret_access_key"),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required keys %s", model.ErrInvalidConfig, strings.Join(missing, ", "))
	}

	var err error
	if cfg.BatchSize, err = getInt32(v, "batch_size"); err != nil {
		return nil, err
	}
	if cfg.BatchSize < 1 || cfg.BatchSize > 10 {
		return nil, fmt.Errorf("%w: batch_size must be between 1 and 10, got %d", model.ErrInvalidConfig, cfg.BatchSize)
	}
	if cfg.VisibilityTimeout, err = getInt32(v, "visibility_timeout"); err != nil {
		return nil, err
	}
	if cfg.VisibilityTimeout < 0 {
		return nil, fmt.Errorf("%w: visibility_timeout must be non-negative", model.ErrInvalidConfig)
	}
	maxBatches, err := getInt32(v, "max_batches")
	if err != nil {
		return nil, err
	}
	if maxBatches < 0 {
		return nil, fmt.Errorf("%w: max_batches must be non-negative", model.ErrInvalidConfig)
	}
	cfg.MaxBatches = int(maxBatches)

	if cfg.Redis, err = loadRedis(v); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadRedis(v *viper.Viper) (RedisConfig, error) {
	redisCfg := RedisConfig{
		Host:     v.GetString("redis_host"),
		Password: v.GetString("redis_password"),
	}
	if !redisCfg.Enabled() {
		return redisCfg, nil
	}

	port, err := getInt32(v, "redis_port")
	if err != nil {
		return redisCfg, err
	}
	database, err := getInt32(v, "redis_database")
	if err != nil {
		return redisCfg, err
	}
	ttl, err := time.ParseDuration(v.GetString("lock_ttl"))
	if err != nil || ttl <= 0 {
		return redisCfg, fmt.Errorf("%w: lock_ttl %q is not a positive duration", model.ErrInvalidConfig, v.GetString("lock_ttl"))
	}

	redisCfg.Port = int(port)
	redisCfg.Database = int(database)
	redisCfg.LockTTL = ttl
	return redisCfg, nil
}

// getInt32 rejects values viper would silently read as zero
func getInt32(v *viper.Viper, key string) (int32, error) {
	raw := v.GetString(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", model.ErrInvalidConfig, key, raw)
	}
	return int32(n), nil
}

// IsTruthy reports whether value is one of true, 1, t, y, yes (any case).
func IsTruthy(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, truthy := range truthyValues {
		if value == truthy {
			return true
		}
	}
	return false
}
