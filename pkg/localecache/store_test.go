package localecache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/localecache"
)

type countingSource struct {
	files map[string]string
	reads atomic.Int32
}

func (s *countingSource) Read(_ context.Context, name string) ([]byte, error) {
	s.reads.Add(1)
	data, ok := s.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return []byte(data), nil
}

func TestStoreGet(t *testing.T) {
	t.Parallel()

	store := localecache.New(localecache.FSSource{FS: fstest.MapFS{
		"default.en.json": {Data: []byte(`{"hello":"Hi","nested":{"a":"A"}}`)},
		"broken.en.json":  {Data: []byte(`{"hello":`)},
	}})
	ctx := context.Background()

	t.Run("existing pair", func(t *testing.T) {
		t.Parallel()
		got, err := store.Get(ctx, "default", "en")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"hello": "Hi", "nested": map[string]any{"a": "A"}}, got)
	})

	t.Run("raw bytes are verbatim", func(t *testing.T) {
		t.Parallel()
		raw, err := store.Raw(ctx, "default", "en")
		require.NoError(t, err)
		require.Equal(t, `{"hello":"Hi","nested":{"a":"A"}}`, string(raw))
	})

	t.Run("missing pair", func(t *testing.T) {
		t.Parallel()
		_, err := store.Get(ctx, "shop", "fr")
		require.ErrorIs(t, err, localecache.ErrNotFound)
	})

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		_, err := store.Raw(ctx, "broken", "en")
		require.ErrorIs(t, err, localecache.ErrInvalidFile)
	})
}

func TestStoreCachesUntilInvalidated(t *testing.T) {
	t.Parallel()

	src := &countingSource{files: map[string]string{"default.en.json": `{"a":"1"}`}}
	store := localecache.New(src)
	ctx := context.Background()

	for range 3 {
		got, err := store.Get(ctx, "default", "en")
		require.NoError(t, err)
		require.Equal(t, "1", got["a"])
	}
	require.Equal(t, int32(1), src.reads.Load())

	src.files["default.en.json"] = `{"a":"2"}`
	require.NoError(t, store.Invalidate(ctx))

	got, err := store.Get(ctx, "default", "en")
	require.NoError(t, err)
	require.Equal(t, "2", got["a"])
	require.Equal(t, int32(2), src.reads.Load())
}

func TestStoreMissingIsNotCached(t *testing.T) {
	t.Parallel()

	src := &countingSource{files: map[string]string{}}
	store := localecache.New(src)
	ctx := context.Background()

	_, err := store.Raw(ctx, "shop", "en")
	require.ErrorIs(t, err, localecache.ErrNotFound)

	src.files["shop.en.json"] = `{}`
	raw, err := store.Raw(ctx, "shop", "en")
	require.NoError(t, err)
	require.Equal(t, "{}", string(raw))
}

func TestStoreSourceFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := localecache.New(localecache.SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, boom
	}))

	_, err := store.Raw(context.Background(), "default", "en")
	require.ErrorIs(t, err, localecache.ErrUnavailable)
	require.ErrorIs(t, err, boom)
}

func TestDirSourceHealthcheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.en.json"), []byte(`{"a":"A"}`), 0o644))

	store := localecache.New(localecache.DirSource(dir))
	require.NoError(t, store.Healthcheck(context.Background()))
	raw, err := store.Raw(context.Background(), "default", "en")
	require.NoError(t, err)
	require.Equal(t, `{"a":"A"}`, string(raw))

	missing := localecache.New(localecache.DirSource(filepath.Join(dir, "missing")))
	require.ErrorIs(t, missing.Healthcheck(context.Background()), localecache.ErrUnavailable)
}

var errNoObject = errors.New("no object")

type fakeObjects map[string][]byte

func (f fakeObjects) Read(_ context.Context, name string) ([]byte, error) {
	data, ok := f[name]
	if !ok {
		return nil, errNoObject
	}
	return data, nil
}

func (f fakeObjects) Healthcheck(context.Context) error { return nil }

func TestObjectSource(t *testing.T) {
	t.Parallel()

	store := localecache.New(localecache.ObjectSource(fakeObjects{"shop.de.json": []byte(`{"a":"B"}`)}, errNoObject))

	got, err := store.Get(context.Background(), "shop", "de")
	require.NoError(t, err)
	require.Equal(t, "B", got["a"])

	_, err = store.Get(context.Background(), "shop", "fr")
	require.ErrorIs(t, err, localecache.ErrNotFound)
	require.NoError(t, store.Healthcheck(context.Background()))
}
