package slotlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrLocked = errors.New("slot is being booked")

// release deletes the key only while it still holds our token.
var release = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a short-lived redis mutex per (family, instant) that covers the gap between
// the availability re-check and the insert.
type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Locker{rdb: rdb, ttl: ttl}
}

func Key(family string, instant time.Time) string {
	return fmt.Sprintf("slotlock:%s:%d", family, instant.Unix())
}

// Acquire takes the lock or fails fast with ErrLocked. The returned func releases it.
func (l *Locker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLocked
	}

	return func() {
		_ = release.Run(context.Background(), l.rdb, []string{key}, token).Err()
	}, nil
}
