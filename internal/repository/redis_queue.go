package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/BerylCAtieno/summary-request-api/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisQueue stores each request as a hash and announces its ID on a stream
// the worker reads with a consumer group.
type RedisQueue struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	idemTTL time.Duration
}

type RedisQueueConfig struct {
	Addr     string
	Password string
	Stream   string
	MaxLen   int64
	IdemTTL  time.Duration
}

func NewRedisQueue(cfg RedisQueueConfig) (*RedisQueue, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		return nil, errors.New("queue stream required")
	}
	maxLen := cfg.MaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	idemTTL := cfg.IdemTTL
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}

	return &RedisQueue{
		client:  redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Password}),
		stream:  stream,
		maxLen:  maxLen,
		idemTTL: idemTTL,
	}, nil
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

// insertScript claims the idempotency key and writes the request in one
// step, so a claimed key always has a record behind it. It returns the ID
// already queued under the key, or nil when this call queued the request.
//
// KEYS: idempotency key, request hash, stream.
// ARGV: request id, key TTL (ms), stream max length, email, hash field/value pairs...
var insertScript = redis.NewScript(`
local existing = redis.call('GET', KEYS[1])
if existing then
	return existing
end
redis.call('HSET', KEYS[2], unpack(ARGV, 5))
redis.call('XADD', KEYS[3], 'MAXLEN', '~', ARGV[3], '*', 'request_id', ARGV[1], 'email', ARGV[4])
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return false
`)

func (q *RedisQueue) Insert(ctx context.Context, req *models.ProcessingRequest) error {
	keys := []string{q.idemKey(req.IdempotencyKey), q.requestKey(req.ID), q.stream}
	args := []any{req.ID, q.idemTTL.Milliseconds(), q.maxLen, req.Email}
	for field, value := range encodeRequest(req) {
		args = append(args, field, value)
	}

	existing, err := insertScript.Run(ctx, q.client, keys, args...).Text()
	switch {
	case errors.Is(err, redis.Nil):
		return nil
	case err != nil:
		return fmt.Errorf("failed to queue processing request: %w", err)
	default:
		return &DuplicateRequestError{RequestID: existing}
	}
}

func (q *RedisQueue) GetByID(ctx context.Context, id string) (*models.ProcessingRequest, error) {
	data, err := q.client.HGetAll(ctx, q.requestKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return decodeRequest(id, data)
}

func (q *RedisQueue) requestKey(id string) string {
	return q.stream + ":request:" + id
}

func (q *RedisQueue) idemKey(key string) string {
	return q.stream + ":idem:" + key
}

func encodeRequest(req *models.ProcessingRequest) map[string]any {
	return map[string]any{
		"idempotency_key": req.IdempotencyKey,
		"task":            req.Task,
		"context":         req.Context,
		"required":        req.Required,
		"email":           req.Email,
		"filename":        req.Filename,
		"status":          strconv.FormatBool(req.Status),
		"streaming":       strconv.FormatBool(req.Streaming),
		"sendEmail":       strconv.FormatBool(req.SendEmail),
		"timestamp":       req.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func decodeRequest(id string, data map[string]string) (*models.ProcessingRequest, error) {
	ts, err := time.Parse(time.RFC3339Nano, data["timestamp"])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp for request %s: %w", id, err)
	}

	return &models.ProcessingRequest{
		ID:             id,
		IdempotencyKey: data["idempotency_key"],
		Task:           data["task"],
		Context:        data["context"],
		Required:       data["required"],
		Email:          data["email"],
		Filename:       data["filename"],
		Status:         data["status"] == "true",
		Streaming:      data["streaming"] == "true",
		SendEmail:      data["sendEmail"] == "true",
		Timestamp:      ts,
	}, nil
}
