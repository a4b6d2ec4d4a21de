package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrNotFound = errors.New("session not found")

// Store keeps JSON documents in redis under prefix:id with a TTL.
type Store struct {
	rdb    *redis.Client
	prefix string
}

func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "session"
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(id string) string {
	return s.prefix + ":" + id
}

func (s *Store) Save(ctx context.Context, id string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(id), b, ttl).Err()
}

func (s *Store) Load(ctx context.Context, id string, v any) error {
	b, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// Expire shortens or extends the lifetime of an existing session.
func (s *Store) Expire(ctx context.Context, id string, ttl time.Duration) error {
	ok, err := s.rdb.Expire(ctx, s.key(id), ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}

func (s *Store) claimKey(id string) string {
	return s.key(id) + ":claim"
}

// Claim takes an exclusive marker on id for ttl. False means someone else holds it.
func (s *Store) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, s.claimKey(id), "1", ttl).Result()
}

func (s *Store) Release(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.claimKey(id)).Err()
}
