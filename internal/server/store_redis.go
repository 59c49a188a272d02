package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/globequiz/internal/globequiz"
)

const redisKeyPrefix = "globequiz:session:"

// RedisStore keeps sessions as JSON strings that expire after ttl of
// inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (globequiz.Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return globequiz.Session{}, ErrNotFound
	}
	if err != nil {
		return globequiz.Session{}, fmt.Errorf("reading session %s: %w", id, err)
	}

	var sess globequiz.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return globequiz.Session{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return sess, nil
}

func (s *RedisStore) PutSession(ctx context.Context, sess globequiz.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", sess.ID, err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing session %s: %w", sess.ID, err)
	}
	return nil
}

// Check satisfies health.Checker.
func (s *RedisStore) Check(ctx context.Context) error { return s.client.Ping(ctx).Err() }
