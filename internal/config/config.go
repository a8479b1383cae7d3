package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendDisk = "disk"
	BackendS3   = "s3"
)

// Settings — всё, что сервис читает из окружения
type Settings struct {
	DBDSN           string
	Port            string
	AppRoot         string
	ImageBackend    string
	S3Bucket        string
	AWSRegion       string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	AdminTokenHash  string
	ShutdownTimeout time.Duration
}

// LoadEnvFiles грузит .env из текущей папки, родительской и корня репо (когда запускаем из cmd/server)
func LoadEnvFiles() {
	_ = godotenv.Overload(".env", "../.env", "../../.env")
}

// Load собирает Settings из переменных окружения
func Load() (Settings, error) {
	s := Settings{
		DBDSN:          os.Getenv("DB_DSN"),
		Port:           getEnv("APP_PORT", "8080"),
		AppRoot:        getEnv("APP_ROOT", "."),
		ImageBackend:   getEnv("IMAGE_BACKEND", BackendDisk),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	}
	if s.DBDSN == "" {
		return s, fmt.Errorf("DB_DSN is empty (check your .env)")
	}

	var err error
	if s.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return s, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if s.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "24h")); err != nil {
		return s, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if s.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return s, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	switch s.ImageBackend {
	case BackendDisk:
	case BackendS3:
		if s.S3Bucket == "" {
			return s, fmt.Errorf("S3_BUCKET is required for IMAGE_BACKEND=s3")
		}
	default:
		return s, fmt.Errorf("unknown IMAGE_BACKEND %q", s.ImageBackend)
	}
	return s, nil
}

// CacheEnabled — кэш включается, только если задан адрес redis
func (s Settings) CacheEnabled() bool {
	return s.RedisAddr != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
