package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mesto/internal/cache"
)

func newStore(t *testing.T, limit int, window time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	store := NewRedisStore(cache.New(s.Addr(), "", 0), limit, window, zap.NewNop())
	return store, s
}

func TestRedisStore_FixedWindow(t *testing.T) {
	store, _ := newStore(t, 3, 10*time.Minute)
	now := time.Date(2024, 5, 1, 12, 1, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		allowed, err := store.Allow("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other clients have their own counter.
	allowed, err = store.Allow("10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Next window starts fresh.
	now = now.Add(10 * time.Minute)
	allowed, err = store.Allow("10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisStore_FailsOpen(t *testing.T) {
	store, s := newStore(t, 1, time.Minute)
	s.Close()

	for i := 0; i < 3; i++ {
		allowed, err := store.Allow("10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}

func TestMemoryStore_Burst(t *testing.T) {
	store := NewMemoryStore(2, 10*time.Minute)

	first, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	second, err := store.Allow("10.0.0.1")
	require.NoError(t, err)
	third, err := store.Allow("10.0.0.1")
	require.NoError(t, err)

	assert.True(t, first)
	assert.True(t, second)
	assert.False(t, third)
}
