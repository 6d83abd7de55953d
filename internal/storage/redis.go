package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"dungeonmaster/pkg/game"
)

// RedisStore implements SnapshotStore using Redis. Snapshots expire
// after the configured TTL so abandoned sessions do not accumulate.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ SnapshotStore = (*RedisStore)(nil)

// NewRedisStore creates a Redis snapshot store.
func NewRedisStore(redisURL string, ttl time.Duration, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client: rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func snapshotKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) SaveSnapshot(ctx context.Context, id uuid.UUID, save game.SaveFile) error {
	data, err := json.Marshal(save)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := r.client.Set(ctx, snapshotKey(id), data, r.ttl).Err(); err != nil {
		r.logger.Error("Redis SET failed", "session_id", id, "error", err)
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("Session snapshot saved", "session_id", id, "bytes", len(data))
	return nil
}

func (r *RedisStore) LoadSnapshot(ctx context.Context, id uuid.UUID) (*game.SaveFile, error) {
	data, err := r.client.Get(ctx, snapshotKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Redis GET failed", "session_id", id, "error", err)
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	save, err := game.UnmarshalSave(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &save, nil
}

func (r *RedisStore) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, snapshotKey(id)).Err(); err != nil {
		r.logger.Error("Redis DEL failed", "session_id", id, "error", err)
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}
