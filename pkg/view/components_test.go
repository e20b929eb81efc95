package view_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/view"
)

func renderContext(translations map[string]string) context.Context {
	state := &view.State{Lang: "en", Load: view.LoadCurrentOnly, FallbackLng: "en"}
	h := view.NewHelper(state, func(args ...any) string {
		key, _, _ := view.SplitArgs(args)
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	})
	return view.WithHelper(view.WithState(context.Background(), state), h)
}

func TestTextEscapes(t *testing.T) {
	t.Parallel()

	ctx := renderContext(map[string]string{"warn": `<b>"careful"</b>`})
	var buf bytes.Buffer
	require.NoError(t, view.Text("warn").Render(ctx, &buf))
	require.Equal(t, "&lt;b&gt;&#34;careful&#34;&lt;/b&gt;", buf.String())
}

func TestHTMLSanitises(t *testing.T) {
	t.Parallel()

	ctx := renderContext(map[string]string{"promo": `<b>Sale</b><script>alert(1)</script>`})
	var buf bytes.Buffer
	require.NoError(t, view.HTML("promo").Render(ctx, &buf))
	require.Equal(t, "<b>Sale</b>", buf.String())
}

func TestBootstrap(t *testing.T) {
	t.Parallel()

	ctx := renderContext(map[string]string{"title": "</script><script>x()</script>"})
	var page bytes.Buffer
	require.NoError(t, view.Text("title").Render(ctx, &page))

	var buf bytes.Buffer
	require.NoError(t, view.BootstrapFromContext().Render(ctx, &buf))
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<script>window.i18n = "))
	require.True(t, strings.HasSuffix(out, ";</script>"))
	require.Equal(t, 1, strings.Count(out, "</script>"), "payload must not close the script element")

	payload := strings.TrimSuffix(strings.TrimPrefix(out, "<script>window.i18n = "), ";</script>")
	var state view.State
	require.NoError(t, json.Unmarshal([]byte(payload), &state))
	require.Equal(t, "en", state.Lang)
	require.Equal(t, view.LoadCurrentOnly, state.Load)
	require.Equal(t, "</script><script>x()</script>", state.Defaults[view.MemoKey("title")])

	buf.Reset()
	require.NoError(t, view.Bootstrap(nil).Render(context.Background(), &buf))
	require.Empty(t, buf.String())
	require.Equal(t, "en", view.Lang(ctx))
}
