package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		MaxConns int32
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		Bucket          string
		// Endpoint overrides the AWS endpoint for S3-compatible stores
		// (minio etc.); empty means real AWS.
		Endpoint  string
		KeyPrefix string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Upload struct {
		// ChunkSize is the fixed chunk length of the blob store; every
		// AddFileData offset must be a multiple of it.
		ChunkSize uint32
		// MaxShareSize bounds the aggregate real size of a share.
		MaxShareSize uint64
		// DefaultValidity applies when a share is created without one.
		DefaultValidity time.Duration
	}
	Cleanup struct {
		Enabled  bool
		Interval time.Duration
		// InvalidAge is how old a published share must be before the
		// expiry sweep removes it.
		InvalidAge time.Duration
	}

	Config struct {
		App     APP
		DB      DB
		S3      S3
		MQ      MQ
		Upload  Upload
		Cleanup Cleanup
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "sharry"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", ""),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
		MaxConns: int32(getEnvInt64("POSTGRES_MAX_CONNS", 0)),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		Bucket:          getEnv("S3_BUCKET_SHARES", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		KeyPrefix:       getEnv("S3_KEY_PREFIX", ""),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", ""),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", ""),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", ""),
	}
	upload := Upload{
		ChunkSize:       uint32(getEnvInt64("UPLOAD_CHUNK_SIZE", 512*1024)),
		MaxShareSize:    uint64(getEnvInt64("UPLOAD_MAX_SHARE_SIZE", 1<<30)),
		DefaultValidity: getEnvDuration("UPLOAD_DEFAULT_VALIDITY", 7*24*time.Hour),
	}
	cleanup := Cleanup{
		Enabled:    getEnvBool("CLEANUP_ENABLED", true),
		Interval:   getEnvDuration("CLEANUP_INTERVAL", time.Hour),
		InvalidAge: getEnvDuration("CLEANUP_INVALID_AGE", 7*24*time.Hour),
	}

	return Config{
		App:     app,
		DB:      db,
		S3:      s3,
		MQ:      mq,
		Upload:  upload,
		Cleanup: cleanup,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

// S3Configured reports whether the blob store should run against S3;
// otherwise the in-memory store is used.
func (c Config) S3Configured() bool {
	return c.S3.Bucket != ""
}
