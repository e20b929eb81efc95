package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/middlewares"
)

type panicPayload struct {
	Code int
}

func TestRecover(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("boom")

	tests := []struct {
		name  string
		value any
	}{
		{name: "string", value: "test panic"},
		{name: "error", value: sentinel},
		{name: "integer", value: 42},
		{name: "struct", value: panicPayload{Code: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/locales/common.en.json", nil))
			handler := middlewares.Recover()(func(c internal.Context) error {
				panic(tt.value)
			})

			err := handler(c)
			pe, ok := middlewares.AsPanicError(err)
			require.True(t, ok)
			require.Equal(t, tt.value, pe.Value)
			require.NotEmpty(t, pe.Stack)
		})
	}

	t.Run("error panics unwrap", func(t *testing.T) {
		t.Parallel()
		c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		err := middlewares.Recover()(func(c internal.Context) error {
			panic(sentinel)
		})(c)
		require.ErrorIs(t, err, sentinel)
	})

	t.Run("panic nil", func(t *testing.T) {
		t.Parallel()
		c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		err := middlewares.Recover()(func(c internal.Context) error {
			panic(nil)
		})(c)

		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		var pne *runtime.PanicNilError
		require.ErrorAs(t, pe, &pne)
	})

	t.Run("handler errors pass through", func(t *testing.T) {
		t.Parallel()
		c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		err := middlewares.Recover()(func(c internal.Context) error {
			return sentinel
		})(c)
		require.Same(t, sentinel, err)
	})

	t.Run("nil return is preserved", func(t *testing.T) {
		t.Parallel()
		c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, middlewares.Recover()(func(c internal.Context) error { return nil })(c))
	})
}

func TestRecoverOptions(t *testing.T) {
	t.Parallel()

	panicking := func(c internal.Context) error { panic("x") }

	tests := []struct {
		name      string
		opts      []middlewares.RecoverOption
		wantStack bool
		maxStack  int
	}{
		{name: "default", wantStack: true, maxStack: middlewares.DefaultStackSize},
		{name: "small stack", opts: []middlewares.RecoverOption{middlewares.WithRecoverStackSize(64)}, wantStack: true, maxStack: 64},
		{name: "zero size keeps default", opts: []middlewares.RecoverOption{middlewares.WithRecoverStackSize(0)}, wantStack: true, maxStack: middlewares.DefaultStackSize},
		{name: "disabled", opts: []middlewares.RecoverOption{middlewares.WithRecoverDisablePrintStack()}},
		{
			name: "disabled wins over size",
			opts: []middlewares.RecoverOption{
				middlewares.WithRecoverStackSize(128),
				middlewares.WithRecoverDisablePrintStack(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			pe, ok := middlewares.AsPanicError(middlewares.Recover(tt.opts...)(panicking)(c))
			require.True(t, ok)

			if !tt.wantStack {
				require.Nil(t, pe.Stack)
				return
			}
			require.NotEmpty(t, pe.Stack)
			require.LessOrEqual(t, len(pe.Stack), tt.maxStack)
		})
	}
}
