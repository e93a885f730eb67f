package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "linksum:transcript:"

// staleRetention keeps expired entries readable beyond their logical TTL so
// the resolver's stale fallback has something to serve.
const staleRetention = 30 * 24 * time.Hour

// RedisStore shares the transcript cache across instances via Redis.
// The logical expiry lives inside the stored envelope; the Redis key TTL only
// bounds how long a stale entry is retained.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore connects to the Redis instance at addr.
func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		now:    time.Now,
	}
}

type redisEnvelope struct {
	Content     *string        `json:"content"`
	Source      string         `json:"source"`
	Service     string         `json:"service"`
	ResourceKey string         `json:"resource_key,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	StoredAt    time.Time      `json:"stored_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

func (s *RedisStore) Get(ctx context.Context, url string) (*Record, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+url).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached transcript: %w", err)
	}

	var envelope redisEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode cached transcript: %w", err)
	}

	return &Record{
		Content:     envelope.Content,
		Source:      envelope.Source,
		Service:     envelope.Service,
		ResourceKey: envelope.ResourceKey,
		Metadata:    envelope.Metadata,
		StoredAt:    envelope.StoredAt,
		ExpiresAt:   envelope.ExpiresAt,
		Expired:     s.now().After(envelope.ExpiresAt),
	}, nil
}

func (s *RedisStore) Set(ctx context.Context, args SetArgs) error {
	now := s.now()
	envelope := redisEnvelope{
		Content:     args.Content,
		Source:      args.Source,
		Service:     args.Service,
		ResourceKey: args.ResourceKey,
		Metadata:    args.Metadata,
		StoredAt:    now,
		ExpiresAt:   now.Add(args.TTL),
	}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to encode cached transcript: %w", err)
	}

	err = s.client.Set(ctx, redisKeyPrefix+args.URL, encoded, args.TTL+staleRetention).Err()
	if err != nil {
		return fmt.Errorf("failed to write cached transcript: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
