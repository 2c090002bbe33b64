package scope

import (
	"context"
	"testing"
	"time"

	"storefront/internal/redisclient"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Backend {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return map[string]Backend{
		"memory": NewMemory(),
		"redis":  NewRedis(redisclient.NewFromRedis(rdb), time.Hour),
	}
}

func TestScopedStore(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := New(backend, "session-a")
			b := New(backend, "session-b")

			_, ok, err := a.Get(ctx, "shippingAddress")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, a.Set(ctx, "shippingAddress", "A"))
			require.NoError(t, b.Set(ctx, "shippingAddress", "B"))

			val, ok, err := a.Get(ctx, "shippingAddress")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "A", val)

			require.NoError(t, a.Remove(ctx, "shippingAddress"))
			_, ok, _ = a.Get(ctx, "shippingAddress")
			assert.False(t, ok)

			val, ok, _ = b.Get(ctx, "shippingAddress")
			assert.True(t, ok)
			assert.Equal(t, "B", val)

			require.NoError(t, a.Remove(ctx, "never-set"))
		})
	}
}

func TestDrop(t *testing.T) {
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := New(backend, "session-drop")

			require.NoError(t, s.Set(ctx, "user", "{}"))
			require.NoError(t, s.Set(ctx, "billingAddress", "{}"))
			require.NoError(t, s.Drop(ctx))

			_, ok, err := s.Get(ctx, "user")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestMemoryLen(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	assert.Zero(t, m.Len("s"))
	require.NoError(t, m.Set(ctx, "s", "a", "1"))
	require.NoError(t, m.Set(ctx, "s", "b", "2"))
	assert.Equal(t, 2, m.Len("s"))
	require.NoError(t, m.Delete(ctx, "s", "a", "b"))
	assert.Zero(t, m.Len("s"))
}

func TestRedis_ActiveScopeOutlivesTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	s := New(NewRedis(redisclient.NewFromRedis(rdb), time.Hour), "session-a")
	require.NoError(t, s.Set(ctx, "user", `{"id":"1"}`))

	for elapsed := 20 * time.Minute; elapsed <= 3*time.Hour; elapsed += 20 * time.Minute {
		mr.FastForward(20 * time.Minute)
		_, ok, err := s.Get(ctx, "user")
		require.NoError(t, err)
		require.True(t, ok, "signed-in user lost after %s of activity", elapsed)
	}

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Get(ctx, "user")
	require.NoError(t, err)
	assert.False(t, ok)
}
