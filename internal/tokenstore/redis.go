package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps session slots in Redis under a stable key namespace.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. TTL bounds how long a session's
// slots survive without being rewritten.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &RedisStore{client: client, prefix: "console:sess:", ttl: ttl}
}

func (s *RedisStore) key(sessionID, slot string) string {
	return fmt.Sprintf("%s%s:%s", s.prefix, sessionID, slot)
}

// Get returns the slot value, reporting absence instead of erroring.
func (s *RedisStore) Get(ctx context.Context, sessionID, slot string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(sessionID, slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("token store get %s: %w", slot, err)
	}
	return val, true, nil
}

// Set writes a single slot.
func (s *RedisStore) Set(ctx context.Context, sessionID, slot, value string) error {
	if err := s.client.Set(ctx, s.key(sessionID, slot), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("token store set %s: %w", slot, err)
	}
	return nil
}

// SetAll replaces every slot of the session in one atomic write. A reader
// never observes a half-written session.
func (s *RedisStore) SetAll(ctx context.Context, sessionID string, values map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, slot := range AllSlots() {
			if _, ok := values[slot]; !ok {
				pipe.Del(ctx, s.key(sessionID, slot))
			}
		}
		for slot, value := range values {
			pipe.Set(ctx, s.key(sessionID, slot), value, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("token store write: %w", err)
	}
	return nil
}

// Clear removes a single slot.
func (s *RedisStore) Clear(ctx context.Context, sessionID, slot string) error {
	if err := s.client.Del(ctx, s.key(sessionID, slot)).Err(); err != nil {
		return fmt.Errorf("token store clear %s: %w", slot, err)
	}
	return nil
}

// ClearAll removes every slot of the session. Safe when nothing exists.
func (s *RedisStore) ClearAll(ctx context.Context, sessionID string) error {
	keys := make([]string, 0, len(AllSlots()))
	for _, slot := range AllSlots() {
		keys = append(keys, s.key(sessionID, slot))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("token store clear all: %w", err)
	}
	return nil
}
