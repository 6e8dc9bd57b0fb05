package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dmn "github.com/beka-birhanu/vinom-mazebuilder/domain"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultPrefix = "mazebuilder"
	sessionKeyFmt = "%s:session:%s"
)

var _ i.SessionStore = &RedisSessionStore{}

// RedisSessionStore keeps sessions in Redis as JSON with a sliding TTL:
// every save pushes the expiry back.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore initializes a RedisSessionStore. A zero ttl keeps sessions forever.
func NewRedisSessionStore(client *redis.Client, prefix string, ttl time.Duration) (*RedisSessionStore, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &RedisSessionStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Save implements i.SessionStore.
func (r *RedisSessionStore) Save(ctx context.Context, s *dmn.Session) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	return r.client.Set(ctx, r.key(s.ID), payload, r.ttl).Err()
}

// ByID implements i.SessionStore.
func (r *RedisSessionStore) ByID(ctx context.Context, id uuid.UUID) (*dmn.Session, error) {
	payload, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", i.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var s dmn.Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return &s, nil
}

// Delete implements i.SessionStore.
func (r *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, r.key(id)).Err()
}

func (r *RedisSessionStore) key(id uuid.UUID) string {
	return fmt.Sprintf(sessionKeyFmt, r.prefix, id)
}
