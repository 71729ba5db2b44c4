package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore mirrors the in-memory sessions to Redis so carts survive restarts.
// Redis failures are logged and never fail a request.
type RedisStore struct {
	mem   *MemoryStore
	redis *redis.Client
	ttl   time.Duration
	log   *slog.Logger
}

func NewRedisStore(mem *MemoryStore, client *redis.Client, ttl time.Duration, log *slog.Logger) *RedisStore {
	return &RedisStore{mem: mem, redis: client, ttl: ttl, log: log}
}

func redisKey(id string) string {
	return "session:" + id
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	if s, err := r.mem.Load(ctx, id); err == nil {
		return s, nil
	}

	data, err := r.redis.Get(ctx, redisKey(id)).Bytes()
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		return nil, ErrNotFound
	default:
		r.log.Warn("session_mirror_error", "op", "get", "session_id", id, "error", err)
		return nil, ErrNotFound
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.log.Warn("session_mirror_error", "op", "decode", "session_id", id, "error", err)
		return nil, ErrNotFound
	}

	s := r.mem.LoadOrCreate(id)
	s.restore(snap)
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	if err := r.mem.Save(ctx, s); err != nil {
		return err
	}

	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		r.log.Warn("session_mirror_error", "op", "encode", "session_id", s.ID, "error", err)
		return nil
	}
	if err := r.redis.Set(ctx, redisKey(s.ID), data, r.ttl).Err(); err != nil {
		r.log.Warn("session_mirror_error", "op", "set", "session_id", s.ID, "error", err)
	}
	return nil
}
