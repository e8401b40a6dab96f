package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	cfg "github.com/sweetpotato0/deepresearch/config"
	"github.com/sweetpotato0/deepresearch/memory"
)

// RedisStore implements memory.Store using Redis. Each thread keeps its
// history in a list so insertion order is preserved.
type RedisStore struct {
	client *redis.Client
	prefix string // Key prefix for namespacing
	ttl    time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string        // Redis server address (e.g., "localhost:6379")
	Password string        // Redis password (if any)
	DB       int           // Redis database number
	Prefix   string        // Key prefix for namespacing
	TTL      time.Duration // Time-to-live for thread keys (0 means no expiration)
}

// NewRedisStore creates a new Redis-based store
func NewRedisStore(config *RedisConfig) (*RedisStore, error) {
	if config == nil {
		config = &RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "deepresearch:thread:",
			TTL:    0,
		}
	}

	if err := cfg.ValidateRedisConfig(config.Addr, config.DB, config.Prefix); err != nil {
		return nil, fmt.Errorf("invalid Redis configuration: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisStore{
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}, nil
}

func (s *RedisStore) threadKey(threadID string) string {
	return fmt.Sprintf("%s%s", s.prefix, threadID)
}

// Append pushes an entry onto the thread's list
func (s *RedisStore) Append(ctx context.Context, entry *memory.Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.ThreadID == "" {
		return fmt.Errorf("entry thread ID cannot be empty")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	key := s.threadKey(entry.ThreadID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to store entry in Redis: %w", err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh thread TTL: %w", err)
		}
	}
	return nil
}

// History returns a thread's entries in insertion order, newest last
func (s *RedisStore) History(ctx context.Context, threadID string, limit int) ([]*memory.Entry, error) {
	key := s.threadKey(threadID)

	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	items, err := s.client.LRange(ctx, key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read thread history: %w", err)
	}

	entries := make([]*memory.Entry, 0, len(items))
	for _, item := range items {
		var entry memory.Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// Clear removes a thread's history
func (s *RedisStore) Clear(ctx context.Context, threadID string) error {
	if err := s.client.Del(ctx, s.threadKey(threadID)).Err(); err != nil {
		return fmt.Errorf("failed to delete thread history: %w", err)
	}
	return nil
}

// Count returns the number of entries recorded for a thread
func (s *RedisStore) Count(ctx context.Context, threadID string) (int, error) {
	count, err := s.client.LLen(ctx, s.threadKey(threadID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count thread entries: %w", err)
	}
	return int(count), nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis connection is alive
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
