// Package middlewares provides HTTP middleware for polyglot applications.
//
// # Locale detection
//
// I18n resolves the request language and stores a Translator under
// TranslatorKey. The engine is looked up on every request, so a Helper
// reloaded on SIGHUP is used immediately:
//
//	app := polyglot.New(
//	    polyglot.WithMiddleware(
//	        middlewares.I18n(helper.Engine, middlewares.WithI18nNamespace("common")),
//	    ),
//	)
//
// Without WithI18nExtractor the language comes from the "lang" cookie, then
// from Accept-Language matched against the engine's languages, then from the
// engine's default language.
//
// # Request ID
//
// RequestID takes the ID from X-Request-ID (or X-Correlation-ID) or generates
// a UUID. Pair it with RequestIDExtractor so every log line carries it:
//
//	app := polyglot.New(
//	    polyglot.WithLogger("server", middlewares.RequestIDExtractor(), middlewares.LanguageExtractor()),
//	    polyglot.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover and Timeout
//
// Recover turns panics into PanicError and Timeout returns TimeoutError once
// the deadline passes. JSONErrors renders both, and any HTTPError, as JSON:
//
//	app := polyglot.New(
//	    polyglot.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.Timeout(5*time.Second),
//	    ),
//	    polyglot.WithErrorHandler(middlewares.JSONErrors),
//	)
//
// # CORS
//
// CORS defaults fit the locale endpoints. Restrict origins in production:
//
//	r.Group(func(r polyglot.Router) {
//	    r.Use(middlewares.CORS(middlewares.WithAllowOrigins("https://app.example.com")))
//	    ctl.Routes(r)
//	})
//
// # Order
//
// CORS first so preflights skip everything else, then RequestID, Recover,
// Timeout, and I18n.
package middlewares
