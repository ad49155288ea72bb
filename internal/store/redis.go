package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"revisionai/internal/config"
	"revisionai/internal/models"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revisionai"

// NewRedisClient creates and returns a new Redis client instance.
// It pings the server to ensure connectivity.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis configuration is missing or address is empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}

// RedisStore keeps answer keys as JSON strings that expire after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// answerKeyName builds "revisionai:answers:<session id>".
func answerKeyName(sessionID string) string {
	return strings.Join([]string{keyPrefix, "answers", sessionID}, ":")
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (models.AnswerKey, error) {
	raw, err := s.client.Get(ctx, answerKeyName(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return models.AnswerKey{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get answers: %w", err)
	}

	key := models.AnswerKey{}
	if err := json.Unmarshal([]byte(raw), &key); err != nil {
		return nil, fmt.Errorf("decode answers for session: %w", err)
	}
	return key, nil
}

func (s *RedisStore) Put(ctx context.Context, sessionID string, key models.AnswerKey) error {
	if key == nil {
		key = models.AnswerKey{}
	}
	payload, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	if err := s.client.Set(ctx, answerKeyName(sessionID), string(payload), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set answers: %w", err)
	}
	return nil
}
