package i18n_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestWithCompiledDir(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"default.en.json": {Data: []byte(`{"hello":"Hi","cart":{"empty":"Empty"}}`)},
		"default.fr.json": {Data: []byte(`{"hello":"Salut"}`)},
		"shop.en.json":    {Data: []byte(`{"checkout":"Checkout"}`)},
	}

	t.Run("preloads every language and namespace", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New(i18n.WithCompiledDir(fsys, []string{"en", "fr"}, []string{"default", "shop"}))
		require.NoError(t, err)

		require.True(t, inst.Initialized())
		require.Equal(t, []string{"en", "fr"}, inst.Languages())
		require.Equal(t, []string{"default", "shop"}, inst.Namespaces())
		require.Equal(t, "Salut", inst.T("fr", "default", "hello"))
		require.Equal(t, "Empty", inst.T("fr", "default", "cart.empty"))
		require.Equal(t, "Checkout", inst.T("fr", "shop", "checkout"))
	})

	t.Run("missing files are skipped", func(t *testing.T) {
		t.Parallel()
		inst, err := i18n.New(i18n.WithCompiledDir(fstest.MapFS{}, []string{"en"}, []string{"default"}))
		require.NoError(t, err)
		require.False(t, inst.Initialized())
		require.Equal(t, "hello", inst.T("en", "default", "hello"))
	})

	t.Run("malformed file fails", func(t *testing.T) {
		t.Parallel()
		broken := fstest.MapFS{"default.en.json": {Data: []byte(`{"hello":`)}}
		_, err := i18n.New(i18n.WithCompiledDir(broken, []string{"en"}, []string{"default"}))
		require.ErrorIs(t, err, i18n.ErrInvalidFile)
	})

	t.Run("empty language is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.New(i18n.WithCompiledDir(fsys, []string{""}, []string{"default"}))
		require.ErrorIs(t, err, i18n.ErrEmptyLanguage)
	})
}

func TestCompiledFileName(t *testing.T) {
	t.Parallel()
	require.Equal(t, "shop.en.json", i18n.CompiledFileName("shop", "en"))
}
