package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/middlewares"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		opts          []middlewares.CORSOption
		method        string
		origin        string
		wantOrigin    string
		wantCreds     string
		wantNextCalls bool
	}{
		{
			name:          "default allows any origin",
			method:        http.MethodGet,
			origin:        "http://example.com",
			wantOrigin:    "*",
			wantNextCalls: true,
		},
		{
			name:          "no origin header",
			method:        http.MethodGet,
			wantNextCalls: true,
		},
		{
			name:          "listed origin is echoed",
			opts:          []middlewares.CORSOption{middlewares.WithAllowOrigins("http://allowed.com")},
			method:        http.MethodGet,
			origin:        "http://allowed.com",
			wantOrigin:    "http://allowed.com",
			wantNextCalls: true,
		},
		{
			name:          "unlisted origin gets no headers",
			opts:          []middlewares.CORSOption{middlewares.WithAllowOrigins("http://allowed.com")},
			method:        http.MethodGet,
			origin:        "http://evil.com",
			wantNextCalls: true,
		},
		{
			name: "origin func overrides list",
			opts: []middlewares.CORSOption{
				middlewares.WithAllowOrigins("http://allowed.com"),
				middlewares.WithAllowOriginFunc(func(origin string) bool {
					return strings.HasSuffix(origin, ".example.com")
				}),
			},
			method:        http.MethodGet,
			origin:        "http://app.example.com",
			wantOrigin:    "http://app.example.com",
			wantNextCalls: true,
		},
		{
			name: "origin func rejects listed origin",
			opts: []middlewares.CORSOption{
				middlewares.WithAllowOrigins("http://allowed.com"),
				middlewares.WithAllowOriginFunc(func(string) bool { return false }),
			},
			method:        http.MethodGet,
			origin:        "http://allowed.com",
			wantNextCalls: true,
		},
		{
			name:          "credentials echo origin",
			opts:          []middlewares.CORSOption{middlewares.WithAllowCredentials()},
			method:        http.MethodPost,
			origin:        "http://example.com",
			wantOrigin:    "http://example.com",
			wantCreds:     "true",
			wantNextCalls: true,
		},
		{
			name:       "preflight short-circuits",
			method:     http.MethodOptions,
			origin:     "http://example.com",
			wantOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/locales/common.en.json", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()

			called := false
			handler := middlewares.CORS(tt.opts...)(func(c internal.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})

			require.NoError(t, handler(newTestContext(rec, req)))
			require.Equal(t, tt.wantNextCalls, called)
			require.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, tt.wantCreds, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/locales/lang", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()

		handler := middlewares.CORS()(func(c internal.Context) error {
			t.Fatal("preflight must not reach the handler")
			return nil
		})

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Origin, Content-Type, Accept, Accept-Language", rec.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "X-Locale-Version", rec.Header().Get("Access-Control-Expose-Headers"))
		require.Equal(t, "43200", rec.Header().Get("Access-Control-Max-Age"))
		require.Equal(t, []string{"Origin", "Access-Control-Request-Method", "Access-Control-Request-Headers"}, rec.Header().Values("Vary"))
	})

	t.Run("custom options", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()

		handler := middlewares.CORS(
			middlewares.WithAllowMethods(http.MethodGet),
			middlewares.WithAllowHeaders("X-Custom"),
			middlewares.WithExposeHeaders("X-A", "X-B"),
			middlewares.WithMaxAge(0),
		)(func(c internal.Context) error { return nil })

		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "GET", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "X-Custom", rec.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "X-A, X-B", rec.Header().Get("Access-Control-Expose-Headers"))
		require.Empty(t, rec.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("max age rounds to seconds", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://example.com")
		rec := httptest.NewRecorder()

		handler := middlewares.CORS(middlewares.WithMaxAge(90 * time.Second))(func(c internal.Context) error { return nil })
		require.NoError(t, handler(newTestContext(rec, req)))
		require.Equal(t, "90", rec.Header().Get("Access-Control-Max-Age"))
	})
}
