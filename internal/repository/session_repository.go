package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionKeyNotFound signals a get/delete on a key the session does not hold.
var ErrSessionKeyNotFound = errors.New("session key not found")

// SessionRepository is the per-client key/value store. A session lives under
// an opaque token minted by the caller; the backing store enforces expiry so
// no read past the deadline can succeed.
type SessionRepository interface {
	Set(ctx context.Context, token, key, value string) error
	Get(ctx context.Context, token, key string) (string, error)
	Delete(ctx context.Context, token, key string) (string, error)
	SetFields(ctx context.Context, token string, fields map[string]string) error
	Fields(ctx context.Context, token string) (map[string]string, error)
	SetExpiry(ctx context.Context, token string, ttl time.Duration) error
	Destroy(ctx context.Context, token string) error
}

type sessionRepository struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewSessionRepository returns a Redis-backed implementation. Each session is
// one Redis hash keyed by token; the hash TTL is the session lifetime.
func NewSessionRepository(client *redis.Client, defaultTTL time.Duration) SessionRepository {
	return &sessionRepository{client: client, defaultTTL: defaultTTL}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (r *sessionRepository) Set(ctx context.Context, token, key, value string) error {
	return r.SetFields(ctx, token, map[string]string{key: value})
}

func (r *sessionRepository) SetFields(ctx context.Context, token string, fields map[string]string) error {
	redisKey := sessionKey(token)
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	if err := r.client.HSet(ctx, redisKey, args...).Err(); err != nil {
		return err
	}

	// A freshly created hash has no TTL; give it the default lifetime
	// without disturbing an explicitly configured one.
	ttl, err := r.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return err
	}
	if ttl < 0 {
		return r.client.Expire(ctx, redisKey, r.defaultTTL).Err()
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, token, key string) (string, error) {
	value, err := r.client.HGet(ctx, sessionKey(token), key).Result()
	if err == redis.Nil {
		return "", ErrSessionKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token, key string) (string, error) {
	redisKey := sessionKey(token)
	value, err := r.client.HGet(ctx, redisKey, key).Result()
	if err == redis.Nil {
		return "", ErrSessionKeyNotFound
	}
	if err != nil {
		return "", err
	}
	if err := r.client.HDel(ctx, redisKey, key).Err(); err != nil {
		return "", err
	}
	return value, nil
}

func (r *sessionRepository) Fields(ctx context.Context, token string) (map[string]string, error) {
	fields, err := r.client.HGetAll(ctx, sessionKey(token)).Result()
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *sessionRepository) SetExpiry(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.defaultTTL
	}
	return r.client.Expire(ctx, sessionKey(token), ttl).Err()
}

func (r *sessionRepository) Destroy(ctx context.Context, token string) error {
	return r.client.Del(ctx, sessionKey(token)).Err()
}
