package polyglot

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/cookie"
	"github.com/dmitrymomot/polyglot/pkg/health"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// Type aliases - public API
type (
	// App orchestrates routing, render stages, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access, translation, and helpers.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// RenderStage runs around every Context.Render.
	RenderStage = internal.RenderStage

	// RenderStageFuncs adapts plain functions to RenderStage.
	RenderStageFuncs = internal.RenderStageFuncs

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError is an error carrying an HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Extractor tries value sources in order.
	Extractor = internal.Extractor

	// ExtractorSource pulls one value out of a request.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// ResponseWriter tracks the status and size of a response.
	ResponseWriter = internal.ResponseWriter

	// TranslatorKey is the context key of the request Translator.
	TranslatorKey = internal.TranslatorKey

	// LanguageKey is the context key of the resolved request language.
	LanguageKey = internal.LanguageKey
)

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := polyglot.New(
//	    polyglot.WithMiddleware(ctl.Detect()),
//	    polyglot.WithRenderStages(ctl.RenderStage()),
//	    polyglot.WithHandlers(ctl),
//	)
//
//	err := app.Run(":8080", polyglot.Logger(log), polyglot.ReloadHook(helper.Reload))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware. The first middleware is outermost.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithRenderStages registers stages run around every Context.Render.
// BeforeRender runs in order; AfterRender runs in reverse.
func WithRenderStages(stages ...RenderStage) Option {
	return internal.WithRenderStages(stages...)
}

// WithStaticFiles mounts a static file handler at pattern.
//
// Example:
//
//	polyglot.WithStaticFiles("/static/", os.DirFS("data/www"), "")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets the handler for errors returned from handlers.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables /health/live and /health/ready.
//
// Example:
//
//	polyglot.WithHealthChecks(
//	    polyglot.WithReadinessCheck("locales", store.Healthcheck),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a JSON logger tagged with component. Extractors add
// request-scoped attributes such as the request id and language.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// Health check options

// WithLivenessPath sets the liveness endpoint path. Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path. Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the HTTP server address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the runtime logger. If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown, hooks included. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the listener accepts requests.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the HTTP server stopped.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// ReloadHook runs fn on every SIGHUP. Failures are logged and the server
// keeps serving.
//
// Example:
//
//	polyglot.ReloadHook(store.Invalidate),
//	polyglot.ReloadHook(helper.Reload),
func ReloadHook(fn func(context.Context) error) RunOption {
	return internal.ReloadHook(fn)
}

// PIDFile writes the process id to path while the server runs, so
// `localec compile --pidfile` can signal a reload.
func PIDFile(path string) RunOption {
	return internal.PIDFile(path)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Extractors

// NewExtractor returns an Extractor trying sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromCookie reads a plain cookie.
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// FromCookieSigned reads a signed cookie.
func FromCookieSigned(name string) ExtractorSource { return internal.FromCookieSigned(name) }

// FromParam reads a URL parameter.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromForm reads a form value.
func FromForm(name string) ExtractorSource { return internal.FromForm(name) }

// FromValue reads a string stored with Context.Set.
func FromValue(key any) ExtractorSource { return internal.FromValue(key) }

// FromLastToken keeps the last space-separated token of src.
func FromLastToken(src ExtractorSource) ExtractorSource { return internal.FromLastToken(src) }

// Cookie options

// WithCookieSecret enables signed cookies. Secrets shorter than 32 bytes
// are ignored.
func WithCookieSecret(secret string) CookieOption { return cookie.WithSecret(secret) }

func WithCookieDomain(domain string) CookieOption { return cookie.WithDomain(domain) }

func WithCookiePath(path string) CookieOption { return cookie.WithPath(path) }

func WithCookieSecure(secure bool) CookieOption { return cookie.WithSecure(secure) }

func WithCookieHTTPOnly(httpOnly bool) CookieOption { return cookie.WithHTTPOnly(httpOnly) }

func WithCookieSameSite(ss http.SameSite) CookieOption { return cookie.WithSameSite(ss) }

// Errors

// NewHTTPError creates an HTTPError with the given status and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

var (
	WithErrorDetail    = internal.WithDetail
	WithErrorCode      = internal.WithErrorCode
	WithErrorRequestID = internal.WithRequestID
	WithErrorCause     = internal.WithError

	ErrBadRequest         = internal.ErrBadRequest
	ErrNotFound           = internal.ErrNotFound
	ErrUnprocessable      = internal.ErrUnprocessable
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable

	IsHTTPError = internal.IsHTTPError
	AsHTTPError = internal.AsHTTPError
)
