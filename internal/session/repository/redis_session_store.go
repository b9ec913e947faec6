package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/caseguard/caseguard/internal/errors"
	sessionDomain "github.com/caseguard/caseguard/internal/session/domain"
)

const defaultKeyPrefix = "caseguard:session:"

// RedisSessionStore keeps sessions in Redis with a native TTL, so every server instance sees
// the same sessions.
type RedisSessionStore struct {
	client redis.Cmdable
	prefix string
}

func (s *RedisSessionStore) key(key string) string {
	return s.prefix + key
}

func (s *RedisSessionStore) Save(
	ctx context.Context,
	key string,
	session *sessionDomain.CaseSession,
	ttl time.Duration,
) error {
	b, err := json.Marshal(session)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal case session")
	}
	if err := s.client.Set(ctx, s.key(key), b, ttl).Err(); err != nil {
		return apperrors.Unavailable(err, "failed to store case session")
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) (*sessionDomain.CaseSession, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sessionDomain.ErrSessionNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable(err, "failed to get case session")
	}

	var session sessionDomain.CaseSession
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal case session")
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return apperrors.Unavailable(err, "failed to delete case session")
	}
	return nil
}

// NewRedisSessionStore creates a Redis-backed session store. An empty prefix selects the
// default "caseguard:session:".
func NewRedisSessionStore(client redis.Cmdable, prefix string) *RedisSessionStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisSessionStore{client: client, prefix: prefix}
}
