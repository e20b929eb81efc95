// Package polyglot is a small web framework with internationalisation built
// in: locale detection per request, a translation helper fed by a compiled
// locale cache, and view helpers for server-rendered templ components.
//
// # Quick Start
//
// Build the translation helper from the compiled cache, wrap it in a locale
// controller, and hand both to the App:
//
//	helper, err := translate.New(ctx, cfg.I18n, localebuild.NewFileManifestStore(cfg.ManifestDir))
//	if err != nil {
//	    return err
//	}
//	ctl := localectl.New(helper, localectl.NewSessionLanguages(nil))
//
//	app := polyglot.New(
//	    polyglot.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        ctl.Detect(),
//	        ctl.PersistUserLanguage(),
//	    ),
//	    polyglot.WithRenderStages(ctl.RenderStage()),
//	    polyglot.WithHandlers(ctl, pages),
//	)
//
//	err = app.Run(":8080", polyglot.ReloadHook(helper.Reload))
//
// # Handlers
//
// Handlers implement [Handler] to declare routes:
//
//	func (h *Pages) Routes(r polyglot.Router) {
//	    r.GET("/", h.home)
//	}
//
//	func (h *Pages) home(c polyglot.Context) error {
//	    return c.Render(http.StatusOK, views.Home(c.T("home.title")))
//	}
//
// # Translations
//
// Context.T and Context.Tn translate with the Translator attached by the
// detection middleware. Inside a Render, components use view.Text or a
// view.Mixin; identical calls within one render are looked up once and the
// results are shipped to the client in the bootstrap script.
//
// # Reloading
//
// The locale compiler (cmd/localec) rebuilds the cache and sends SIGHUP to
// the server. Every ReloadHook then runs, so the helper and the compiled
// file cache pick up the new translations without a restart.
package polyglot
