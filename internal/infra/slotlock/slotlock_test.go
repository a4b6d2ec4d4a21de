package slotlock

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T, ttl time.Duration) (*Locker, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return New(rdb, ttl), mr
}

func TestAcquireIsExclusiveUntilReleased(t *testing.T) {
	l, _ := newLocker(t, time.Minute)
	ctx := context.Background()
	key := Key("store", time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC))

	unlock, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key)
	require.ErrorIs(t, err, ErrLocked)

	unlock()

	unlock2, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	unlock2()
}

func TestLockExpires(t *testing.T) {
	l, mr := newLocker(t, time.Second)
	ctx := context.Background()

	_, err := l.Acquire(ctx, "slotlock:mobile:1")
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	_, err = l.Acquire(ctx, "slotlock:mobile:1")
	require.NoError(t, err)
}

func TestStaleReleaseKeepsNewOwner(t *testing.T) {
	l, mr := newLocker(t, time.Second)
	ctx := context.Background()

	stale, err := l.Acquire(ctx, "k")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = l.Acquire(ctx, "k")
	require.NoError(t, err)

	stale()
	assert.True(t, mr.Exists("k"))
}
