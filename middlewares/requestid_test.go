package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// localeErrorApp rejects every language change so the request id travels
// through the error body as well as the response header.
func localeErrorApp(t *testing.T, opts ...middlewares.RequestIDOption) *internal.App {
	t.Helper()
	svc, err := i18n.New(
		i18n.WithDefaultLanguage("en"),
		i18n.WithLanguages("en", "de"),
		i18n.WithTranslations("en", "errors", map[string]any{
			"locale": map[string]any{"unsupported_language": "Language not available"},
		}),
		i18n.WithTranslations("de", "errors", map[string]any{
			"locale": map[string]any{"unsupported_language": "Sprache nicht verfügbar"},
		}),
	)
	require.NoError(t, err)

	opts = append([]middlewares.RequestIDOption{
		middlewares.WithRequestIDGenerator(func() string { return "generated" }),
	}, opts...)

	return internal.New(
		internal.WithMiddleware(
			middlewares.RequestID(opts...),
			middlewares.I18n(func() *i18n.I18n { return svc }, middlewares.WithI18nNamespace("errors")),
		),
		internal.WithErrorHandler(middlewares.JSONErrors),
		internal.WithHandlers(handlerFunc(func(r internal.Router) {
			r.POST("/locales/lang", func(c internal.Context) error {
				return internal.ErrUnprocessable("language not available",
					internal.WithErrorCode("locale.unsupported_language"),
				)
			})
		})),
	)
}

type handlerFunc func(r internal.Router)

func (f handlerFunc) Routes(r internal.Router) { f(r) }

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []middlewares.RequestIDOption
		headers map[string]string
		want    string
	}{
		{name: "generated without upstream id", want: "generated"},
		{name: "upstream request id", headers: map[string]string{"X-Request-ID": "edge-42"}, want: "edge-42"},
		{name: "correlation id", headers: map[string]string{"X-Correlation-ID": "corr-7"}, want: "corr-7"},
		{
			name:    "request id wins over correlation id",
			headers: map[string]string{"X-Request-ID": "edge-42", "X-Correlation-ID": "corr-7"},
			want:    "edge-42",
		},
		{name: "surrounding space trimmed", headers: map[string]string{"X-Request-ID": "  edge-42 "}, want: "edge-42"},
		{name: "inner space rejected", headers: map[string]string{"X-Request-ID": "edge 42"}, want: "generated"},
		{name: "non ascii rejected", headers: map[string]string{"X-Request-ID": "zażółć"}, want: "generated"},
		{name: "oversized rejected", headers: map[string]string{"X-Request-ID": strings.Repeat("a", 129)}, want: "generated"},
		{name: "longest accepted", headers: map[string]string{"X-Request-ID": strings.Repeat("a", 128)}, want: strings.Repeat("a", 128)},
		{
			name:    "custom trusted header",
			opts:    []middlewares.RequestIDOption{middlewares.WithTrustedRequestIDHeaders("CF-Ray")},
			headers: map[string]string{"CF-Ray": "ray-1", "X-Request-ID": "edge-42"},
			want:    "ray-1",
		},
		{
			name:    "no trusted headers",
			opts:    []middlewares.RequestIDOption{middlewares.WithTrustedRequestIDHeaders()},
			headers: map[string]string{"X-Request-ID": "edge-42"},
			want:    "generated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/locales/lang", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			localeErrorApp(t, tt.opts...).ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			require.Equal(t, tt.want, rec.Header().Get(middlewares.RequestIDHeader))

			var body middlewares.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.want, body.RequestID)
			require.Equal(t, "locale.unsupported_language", body.Code)
		})
	}

	t.Run("error body follows request language", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/locales/lang", nil)
		req.Header.Set("Accept-Language", "de-DE, de;q=0.9")
		rec := httptest.NewRecorder()
		localeErrorApp(t).ServeHTTP(rec, req)

		var body middlewares.ErrorBody
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, middlewares.ErrorBody{
			Error:     "Sprache nicht verfügbar",
			Code:      "locale.unsupported_language",
			RequestID: "generated",
		}, body)
	})

	t.Run("default generator", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/locales/default.en.json", nil))
		require.NoError(t, middlewares.RequestID()(func(c internal.Context) error { return nil })(c))
		require.Len(t, rec.Header().Get(middlewares.RequestIDHeader), 36)
		require.Equal(t, rec.Header().Get(middlewares.RequestIDHeader), middlewares.GetRequestID(c))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	extract := middlewares.RequestIDExtractor()

	rec := httptest.NewRecorder()
	c := newTestContext(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, ok := extract(c.Context())
	require.False(t, ok)
	require.Empty(t, middlewares.GetRequestID(c))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "edge-42")
	c = newTestContext(rec, req)
	require.NoError(t, middlewares.RequestID()(func(c internal.Context) error { return nil })(c))

	attr, ok := extract(c.Context())
	require.True(t, ok)
	require.Equal(t, "request_id", attr.Key)
	require.Equal(t, "edge-42", attr.Value.String())
}
