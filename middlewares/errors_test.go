package middlewares_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestPanicError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "string value", value: "something went wrong", want: "panic: something went wrong"},
		{name: "integer value", value: 42, want: "panic: 42"},
		{name: "nil value", value: nil, want: "panic: <nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, (&middlewares.PanicError{Value: tt.value}).Error())
		})
	}

	t.Run("unwraps error values", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("boom")
		err := fmt.Errorf("handler: %w", &middlewares.PanicError{Value: cause})

		require.ErrorIs(t, err, cause)
		pe, ok := middlewares.AsPanicError(err)
		require.True(t, ok)
		require.Same(t, cause, pe.Value)
	})
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	require.Equal(t, "request timeout after 5s", (&middlewares.TimeoutError{Duration: 5 * time.Second}).Error())
	require.Equal(t, "request timeout after 250ms", (&middlewares.TimeoutError{Duration: 250 * time.Millisecond}).Error())

	err := fmt.Errorf("wrapped: %w", &middlewares.TimeoutError{Duration: time.Second})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	te, ok := middlewares.AsTimeoutError(err)
	require.True(t, ok)
	require.Equal(t, time.Second, te.Duration)
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	panicErr := &middlewares.PanicError{Value: "x"}
	timeoutErr := &middlewares.TimeoutError{Duration: time.Second}

	tests := []struct {
		name        string
		err         error
		wantPanic   bool
		wantTimeout bool
	}{
		{name: "nil", err: nil},
		{name: "unrelated", err: http.ErrNoCookie},
		{name: "panic", err: panicErr, wantPanic: true},
		{name: "wrapped panic", err: fmt.Errorf("a: %w", panicErr), wantPanic: true},
		{name: "timeout", err: timeoutErr, wantTimeout: true},
		{name: "wrapped timeout", err: fmt.Errorf("a: %w", timeoutErr), wantTimeout: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.wantPanic, middlewares.IsPanicError(tt.err))
			require.Equal(t, tt.wantTimeout, middlewares.IsTimeoutError(tt.err))

			_, ok := middlewares.AsPanicError(tt.err)
			require.Equal(t, tt.wantPanic, ok)
			_, ok = middlewares.AsTimeoutError(tt.err)
			require.Equal(t, tt.wantTimeout, ok)
		})
	}
}

func TestJSONErrors(t *testing.T) {
	t.Parallel()

	svc, err := i18n.New(
		i18n.WithDefaultLanguage("de"),
		i18n.WithTranslations("de", "errors", map[string]any{
			"unknown_language": "Unbekannte Sprache",
		}),
	)
	require.NoError(t, err)

	tests := []struct {
		name       string
		err        error
		translate  bool
		wantStatus int
		want       middlewares.ErrorBody
	}{
		{
			name:       "panic",
			err:        &middlewares.PanicError{Value: "x"},
			wantStatus: http.StatusInternalServerError,
			want:       middlewares.ErrorBody{Error: "Internal Server Error"},
		},
		{
			name:       "timeout",
			err:        &middlewares.TimeoutError{Duration: time.Second},
			wantStatus: http.StatusServiceUnavailable,
			want:       middlewares.ErrorBody{Error: "Service Unavailable"},
		},
		{
			name:       "plain error",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			want:       middlewares.ErrorBody{Error: "Internal Server Error"},
		},
		{
			name: "http error",
			err: internal.ErrBadRequest("invalid language",
				internal.WithErrorCode("unknown_language"),
				internal.WithDetail("xx"),
			),
			wantStatus: http.StatusBadRequest,
			want:       middlewares.ErrorBody{Error: "invalid language", Code: "unknown_language", Detail: "xx"},
		},
		{
			name:       "translated error code",
			err:        internal.ErrBadRequest("invalid language", internal.WithErrorCode("unknown_language")),
			translate:  true,
			wantStatus: http.StatusBadRequest,
			want:       middlewares.ErrorBody{Error: "Unbekannte Sprache", Code: "unknown_language"},
		},
		{
			name:       "request id from error",
			err:        internal.ErrNotFound("missing", internal.WithRequestID("req-1")),
			wantStatus: http.StatusNotFound,
			want:       middlewares.ErrorBody{Error: "missing", RequestID: "req-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if tt.translate {
				c.Set(internal.TranslatorKey{}, i18n.NewTranslator(svc, "de", "errors"))
			}

			require.NoError(t, middlewares.JSONErrors(c, tt.err))
			require.Equal(t, tt.wantStatus, rec.Code)

			var got middlewares.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			require.Equal(t, tt.want, got)
		})
	}
}
