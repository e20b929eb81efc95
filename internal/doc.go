// Package internal provides the core types and implementation behind the
// polyglot root package.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/polyglot" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Orchestrates routing, render stages, and graceful shutdown
//   - Context: Request/response access, cookies, logging, and translation helpers
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - RenderStage: Runs around every Context.Render call
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context. The Deadline, Done, Err, and Value
// methods delegate to the underlying request context:
//
//	func (h *Handler) locales(c polyglot.Context) error {
//	    data, err := h.store.Raw(c, c.Param("namespace"), c.Param("language"))
//	    if err != nil {
//	        return err
//	    }
//	    return c.Blob(http.StatusOK, "application/json", data)
//	}
//
// # Render Stages
//
// A RenderStage replaces pre/post render hooks on an event bus. BeforeRender
// may store values with Context.Set; the component is rendered with the
// resulting request context, so templ components read them back with
// ctx.Value. AfterRender always runs for every stage whose BeforeRender
// succeeded:
//
//	app := internal.New(
//	    internal.WithRenderStages(ctl.RenderStage()),
//	)
//
// # Translations
//
// Context.T, Context.Tn, and Context.Language read the Translator and the
// language stored under TranslatorKey and LanguageKey by the locale detection
// middleware. Without it, T returns the key unchanged.
//
// # Server Runtime
//
// Run blocks until SIGINT/SIGTERM. SIGHUP runs the reload hooks so a freshly
// compiled locale cache is picked up without a restart:
//
//	err := app.Run(":8080",
//	    internal.Logger(log),
//	    internal.PIDFile("data/server.pid"),
//	    internal.ReloadHook(helper.Reload),
//	)
package internal
