package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	QueueBackendSQLite = "sqlite"
	QueueBackendRedis  = "redis"
)

// Default instruction payload handed to the summarization worker with every
// processing request.
const (
	DefaultSummaryContext = "Take the document text and make a short, simple summary that can be used in an email. The summary should tell what the document is mainly about, the most important points, and the main message. It should be written in easy language that anyone can understand. The format must be in HTML so it looks neat in the email."

	DefaultSummaryRequired = `Give only the HTML (no code blocks). Use <div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;"> as the container and add: (1) a heading <h2 style="color:#2c3e50; font-size:18px;"> with one simple line to sum up the document, (2) a small paragraph <p style="margin:8px 0;"> with 1–2 easy sentences about the document, (3) a bullet list <ul style="margin:8px 0; padding-left:18px;"> with 3–5 short key points, and (4) a last line <p style="margin:8px 0; font-weight:bold;"> with one clear action or advice.`
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// Queue store
	QueueBackend  string
	RedisAddr     string
	RedisPassword string
	RedisStream   string

	// Sessions
	SessionTTL  time.Duration
	SweepEvery  time.Duration
	RecentLimit int
	MaxFileSize int64

	// S3 archive of confirmed uploads
	S3Enabled         bool
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Summarization contract
	SummaryContext  string
	SummaryRequired string
}

func Load() (*Config, error) {
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	sweepEvery, err := time.ParseDuration(getEnv("SESSION_SWEEP_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %w", err)
	}
	maxFileSize, err := strconv.ParseInt(getEnv("MAX_FILE_SIZE", "10485760"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/requests.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		QueueBackend:      strings.ToLower(getEnv("QUEUE_BACKEND", QueueBackendSQLite)),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisStream:       getEnv("REDIS_STREAM", "llm:chat"),
		SessionTTL:        sessionTTL,
		SweepEvery:        sweepEvery,
		RecentLimit:       5,
		MaxFileSize:       maxFileSize,
		S3Enabled:         getEnv("S3_ENABLED", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "documents"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		SummaryContext:    getEnv("SUMMARY_CONTEXT", DefaultSummaryContext),
		SummaryRequired:   getEnv("SUMMARY_REQUIRED", DefaultSummaryRequired),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.QueueBackend {
	case QueueBackendSQLite, QueueBackendRedis:
	default:
		return fmt.Errorf("QUEUE_BACKEND must be %q or %q, got %q", QueueBackendSQLite, QueueBackendRedis, c.QueueBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SweepEvery <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	if strings.TrimSpace(c.SummaryContext) == "" || strings.TrimSpace(c.SummaryRequired) == "" {
		return fmt.Errorf("SUMMARY_CONTEXT and SUMMARY_REQUIRED must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
