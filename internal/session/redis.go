package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis. Each session is a JSON value under
// "session:<id>"; the ids of a user are tracked in the set "user:sessions:<user id>".
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a RedisStore on top of rdb.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// NewRedisClient initializes a redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func sessionKey(id string) string {
	return "session:" + id
}

func userKey(userID string) string {
	return "user:sessions:" + userID
}

func (s *RedisStore) Create(ctx context.Context, userID string, ttl time.Duration) (Record, error) {
	rec := Record{ID: uuid.NewString(), UserID: userID, ExpiresAt: time.Now().Add(ttl)}
	b, err := json.Marshal(rec)
	if err != nil {
		return Record{}, err
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, sessionKey(rec.ID), b, ttl)
	pipe.SAdd(ctx, userKey(userID), rec.ID)
	pipe.Expire(ctx, userKey(userID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return Record{}, fmt.Errorf("failed to store session: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	b, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userKey(rec.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (s *RedisStore) RevokeUser(ctx context.Context, userID string) error {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}
