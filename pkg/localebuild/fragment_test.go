package localebuild_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/localebuild"
)

func TestParseFragmentName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		ns   string
		lang string
	}{
		{name: "language only", path: "locales/en.json", ns: "default", lang: "en"},
		{name: "namespace and language", path: "/abs/locales/shop.fr.json", ns: "shop", lang: "fr"},
		{name: "yaml fragment", path: "locales/mail.de.yaml", ns: "mail", lang: "de"},
		{name: "yml fragment", path: "de.yml", ns: "default", lang: "de"},
		{name: "extra components are ignored", path: "shop.en.extra.json", ns: "shop", lang: "en"},
		{name: "region tag", path: "common.pt-BR.json", ns: "common", lang: "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ns, lang, err := localebuild.ParseFragmentName(tt.path, "default")
			require.NoError(t, err)
			require.Equal(t, tt.ns, ns)
			require.Equal(t, tt.lang, lang)
		})
	}
}

func TestParseFragmentNameInvalid(t *testing.T) {
	t.Parallel()

	for _, path := range []string{".json", "shop..json", ".en.json"} {
		_, _, err := localebuild.ParseFragmentName(path, "default")
		require.ErrorIs(t, err, localebuild.ErrInvalidFragmentName, path)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	t.Run("union of keys, last wins", func(t *testing.T) {
		t.Parallel()
		got := localebuild.Merge(
			map[string]any{"a": "1", "b": "2"},
			map[string]any{"b": "3", "c": "4"},
		)
		require.Equal(t, map[string]any{"a": "1", "b": "3", "c": "4"}, got)
	})

	t.Run("nested objects merge recursively", func(t *testing.T) {
		t.Parallel()
		got := localebuild.Merge(
			map[string]any{"cart": map[string]any{"empty": "Empty"}},
			map[string]any{"cart": map[string]any{"full": "Full"}},
		)
		require.Equal(t, map[string]any{"cart": map[string]any{"empty": "Empty", "full": "Full"}}, got)
	})

	t.Run("arrays are replaced", func(t *testing.T) {
		t.Parallel()
		got := localebuild.Merge(
			map[string]any{"days": []any{"mon", "tue"}},
			map[string]any{"days": []any{"sun"}},
		)
		require.Equal(t, map[string]any{"days": []any{"sun"}}, got)
	})

	t.Run("scalar replaces object and back", func(t *testing.T) {
		t.Parallel()
		got := localebuild.Merge(
			map[string]any{"a": map[string]any{"x": "1"}, "b": "plain"},
			map[string]any{"a": "flat", "b": map[string]any{"y": "2"}},
		)
		require.Equal(t, map[string]any{"a": "flat", "b": map[string]any{"y": "2"}}, got)
	})

	t.Run("nil destination", func(t *testing.T) {
		t.Parallel()
		got := localebuild.Merge(nil, map[string]any{"a": "1"})
		require.Equal(t, map[string]any{"a": "1"}, got)
	})

	t.Run("source is not aliased", func(t *testing.T) {
		t.Parallel()
		src := map[string]any{"cart": map[string]any{"empty": "Empty"}}
		dst := localebuild.Merge(nil, src)
		localebuild.Merge(dst, map[string]any{"cart": map[string]any{"full": "Full"}})
		require.Equal(t, map[string]any{"empty": "Empty"}, src["cart"])
	})

	t.Run("order sensitive", func(t *testing.T) {
		t.Parallel()
		a := map[string]any{"k": "a"}
		b := map[string]any{"k": "b"}
		require.Equal(t, "b", localebuild.Merge(localebuild.Merge(nil, a), b)["k"])
		require.Equal(t, "a", localebuild.Merge(localebuild.Merge(nil, b), a)["k"])
	})
}
