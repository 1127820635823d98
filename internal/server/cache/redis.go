// Package cache holds the Redis-backed adapters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockwatch/internal/common"
	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Connect initializes a Redis client from a redis:// URL or a host:port
// address and pings it.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := parseOptions(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func parseOptions(redisURL string) (*redis.Options, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return opt, nil
	}
	if redisURL == "" {
		return nil, errors.New("empty redis address")
	}
	return &redis.Options{Addr: redisURL}, nil
}

type sessionValue struct {
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisSessionStore keeps sessions as JSON values that expire with the
// session.
type RedisSessionStore struct {
	client redis.Cmdable
}

func NewRedisSessionStore(client redis.Cmdable) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

func (s *RedisSessionStore) Create(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.Expires)
	if ttl <= 0 {
		return nil
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	raw, err := json.Marshal(sessionValue{
		UserID:    session.UserID,
		ExpiresAt: session.Expires,
		CreatedAt: session.CreatedAt,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), raw, ttl).Err()
}

func (s *RedisSessionStore) Find(ctx context.Context, id string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("redis error: %w", err)
	}
	var v sessionValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &models.Session{ID: id, UserID: v.UserID, Expires: v.ExpiresAt, CreatedAt: v.CreatedAt}, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKey(id)).Err()
}

// DeleteExpired is a no-op: Redis evicts sessions through their TTL.
func (s *RedisSessionStore) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}
