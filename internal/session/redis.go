package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces session keys so the bot can share a Redis
// database with other tools.
const redisKeyPrefix = "moviebot:session:"

// redisSessionTTL is a housekeeping bound, not a wizard timeout.  It is
// refreshed on every Put, so an active flow never expires mid-step; only
// drafts abandoned for weeks are collected.
const redisSessionTTL = 30 * 24 * time.Hour

// RedisStore persists sessions in Redis as JSON values, one key per user.
// Unlike MemoryStore it survives process restarts.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore returns a session store backed by the given Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(userID int64) string {
	return redisKeyPrefix + strconv.FormatInt(userID, 10)
}

// Get fetches and decodes the user's session.  A missing key yields the zero
// Session so callers treat "never started" and "cleared" identically.
func (r *RedisStore) Get(ctx context.Context, userID int64) (Session, error) {
	raw, err := r.rdb.Get(ctx, redisKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("session get: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("session decode: %w", err)
	}
	return s, nil
}

// Put encodes and stores the session, refreshing the housekeeping TTL.
func (r *RedisStore) Put(ctx context.Context, userID int64, s Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := r.rdb.Set(ctx, redisKey(userID), raw, redisSessionTTL).Err(); err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

// Clear deletes the user's session key.  Deleting an absent key is a no-op.
func (r *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := r.rdb.Del(ctx, redisKey(userID)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
