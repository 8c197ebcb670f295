package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/classcover/classcover-api/internal/models"
)

// RedisStore is the remote document store: the whole snapshot lives
// under one fixed key so the newest writer always wins.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore constructs a RedisStore on the given document key.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "classcover:snapshot"
	}
	return &RedisStore{client: client, key: key}
}

// Push overwrites the remote document with the snapshot.
func (s *RedisStore) Push(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("push snapshot: %w", err)
	}
	return nil
}

// Pull reads the remote document once.
func (s *RedisStore) Pull(ctx context.Context) (models.Snapshot, bool, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Snapshot{}, false, nil
		}
		return models.Snapshot{}, false, fmt.Errorf("pull snapshot: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return models.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}
