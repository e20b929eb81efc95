package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/localebuild"
)

func TestNewRestarter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pid     int
		pidFile string
		want    localebuild.Restarter
	}{
		{name: "none", want: nil},
		{name: "pid", pid: 42, want: localebuild.SignalRestarter{PID: 42}},
		{name: "pid file", pidFile: "data/server.pid", want: localebuild.PIDFileRestarter("data/server.pid")},
		{name: "pid wins", pid: 7, pidFile: "data/server.pid", want: localebuild.SignalRestarter{PID: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, newRestarter(tt.pid, tt.pidFile))
		})
	}
}

func TestCompileCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "locales")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "en.json"), []byte(`{"greeting":"Hi"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "shop.de.yaml"), []byte("cart:\n  empty: Leer\n"), 0o644))

	out := filepath.Join(dir, "www")
	t.Setenv("LOCALES_SOURCE", filepath.Join(src, "*"))
	t.Setenv("LOCALES_OUTPUT_DIR", out)
	t.Setenv("LOCALES_MANIFEST_DIR", filepath.Join(dir, "cache"))
	t.Setenv("LOG_LEVEL", "error")

	t.Run("dry run lists fragments", func(t *testing.T) {
		var buf bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"compile", "--dry-run"})
		require.NoError(t, cmd.Execute())
		require.Contains(t, buf.String(), "en.json")
		require.Contains(t, buf.String(), "shop.de.yaml")

		_, err := os.Stat(out)
		require.True(t, os.IsNotExist(err))
	})

	t.Run("compiles the cache", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetArgs([]string{"compile"})
		require.NoError(t, cmd.Execute())

		data, err := os.ReadFile(filepath.Join(out, "default.en.json"))
		require.NoError(t, err)
		require.JSONEq(t, `{"greeting":"Hi"}`, string(data))

		data, err = os.ReadFile(filepath.Join(out, "shop.de.json"))
		require.NoError(t, err)
		require.JSONEq(t, `{"cart":{"empty":"Leer"}}`, string(data))

		var m localebuild.Manifest
		require.NoError(t, localebuild.NewFileManifestStore(filepath.Join(dir, "cache")).Read(t.Context(), localebuild.ManifestKey, &m))
		require.ElementsMatch(t, []string{"de", "en"}, m.Locales)
	})

	t.Run("missing pid file fails the run", func(t *testing.T) {
		cmd := newRootCmd()
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"compile", "--pidfile", filepath.Join(dir, "missing.pid")})
		require.ErrorIs(t, cmd.Execute(), localebuild.ErrRestartFailed)
	})
}
