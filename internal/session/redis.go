package session

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// #endregion

// #region redis-store

const redisKeyPrefix = "pulsebot:session:"

// RedisStore keeps sessions in Redis with a native key TTL, refreshed on
// every read and write. Meant for deployments with more than one router
// replica; the memory store is the canonical single-process setup.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store for the given address.
func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// #endregion

// #region store-impl

// Load implements Store. A missing key yields a fresh session; a hit
// refreshes the key TTL.
func (s *RedisStore) Load(ctx context.Context, id string) (Session, error) {
	if id == "" {
		id = DefaultID
	}
	val, err := s.client.Get(ctx, redisKeyPrefix+id).Result()
	if err == redis.Nil {
		return New(id), nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("session get %s: %w", id, err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return Session{}, fmt.Errorf("session decode %s: %w", id, err)
	}

	// Best effort TTL refresh on read.
	_ = s.client.Expire(ctx, redisKeyPrefix+id, s.ttl).Err()

	return sess, nil
}

// Save implements Store.
func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		sess.ID = DefaultID
	}
	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.UpdatedAt = now

	val, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, val, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set %s: %w", sess.ID, err)
	}
	return nil
}

// Delete implements Store.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session del %s: %w", id, err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// #endregion
