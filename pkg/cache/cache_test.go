package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set, overwrite and delete", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, 0))
		require.NoError(t, c.Set(ctx, "k", 2, 0))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 2, v)

		require.NoError(t, c.Delete(ctx, "k"))
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("default ttl never expires", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", 0))
		time.Sleep(5 * time.Millisecond)

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "v", v)
	})

	t.Run("janitor sweeps expired entries", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(2 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", "1", 0))
		require.NoError(t, c.Set(ctx, "b", "2", 0))
		require.NoError(t, c.Clear(ctx))
		require.Zero(t, c.Len())
	})

	t.Run("closed cache rejects writes", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())

		require.ErrorIs(t, c.Set(ctx, "k", "v", 0), cache.ErrClosed)
		require.ErrorIs(t, c.Delete(ctx, "k"), cache.ErrClosed)
		require.ErrorIs(t, c.Clear(ctx), cache.ErrClosed)
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = c.Set(ctx, "k", i, 0)
			}()
			go func() {
				defer wg.Done()
				_, _ = c.Get(ctx, "k")
			}()
		}
		wg.Wait()
	})
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("hit does not call loader", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		require.NoError(t, c.Set(ctx, "k", "cached", 0))

		v, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
			t.Fatal("loader must not run on hit")
			return "", 0, nil
		})
		require.NoError(t, err)
		require.Equal(t, "cached", v)
	})

	t.Run("miss stores loaded value", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		v, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
			return "loaded", cache.NoExpiration, nil
		})
		require.NoError(t, err)
		require.Equal(t, "loaded", v)

		stored, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "loaded", stored)
	})

	t.Run("loader error is returned and not cached", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		boom := errors.New("boom")

		_, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)
		require.Zero(t, c.Len())
	})

	t.Run("concurrent misses share one load", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()

		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (int, time.Duration, error) {
					calls.Add(1)
					<-release
					return 7, 0, nil
				})
				require.NoError(t, err)
				require.Equal(t, 7, v)
			}()
		}

		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("same key on different caches loads separately", func(t *testing.T) {
		t.Parallel()
		a := cache.NewMemory[string]()
		b := cache.NewMemory[int]()
		defer a.Close()
		defer b.Close()

		s, err := cache.GetOrSet(ctx, a, "k", func(context.Context) (string, time.Duration, error) { return "a", 0, nil })
		require.NoError(t, err)
		n, err := cache.GetOrSet(ctx, b, "k", func(context.Context) (int, time.Duration, error) { return 1, 0, nil })
		require.NoError(t, err)
		require.Equal(t, "a", s)
		require.Equal(t, 1, n)
	})
}

func TestJSONMarshaler(t *testing.T) {
	t.Parallel()

	m := cache.JSON[map[string]any]{}
	data, err := m.Marshal(map[string]any{"hello": "Hi"})
	require.NoError(t, err)

	v, err := m.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, "Hi", v["hello"])

	_, err = m.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)
}

func TestRawMarshaler(t *testing.T) {
	t.Parallel()

	file := []byte(`{"greeting":"Hi"}`)
	data, err := cache.Raw{}.Marshal(file)
	require.NoError(t, err)
	require.Equal(t, file, data)

	v, err := cache.Raw{}.Unmarshal(data)
	require.NoError(t, err)
	require.JSONEq(t, `{"greeting":"Hi"}`, string(v))
}
