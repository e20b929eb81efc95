// Package localectl connects the compiled locale cache and the translation
// helper to the request lifecycle.
//
// A Controller contributes:
//
//   - Detect, the middleware resolving the request language and attaching a
//     Translator;
//   - PersistUserLanguage, the middleware writing a changed language back to
//     the authenticated user under a record lock;
//   - RenderStage, which puts a view.State and a memoising view.Helper into
//     the context of every Context.Render;
//   - SocketStage, which gives socket call options a session-aware T;
//   - the routes GET /locales/{namespace}.{language}.json and
//     POST /locales/lang.
//
// Wiring:
//
//	ctl := localectl.New(helper, localectl.NewSessionLanguages(nil),
//	    localectl.WithConfig(cfg),
//	    localectl.WithLocaleFiles(store),
//	    localectl.WithUserResolver(currentUser),
//	)
//
//	app := polyglot.New(
//	    polyglot.WithMiddleware(ctl.Detect(), ctl.PersistUserLanguage()),
//	    polyglot.WithRenderStages(ctl.RenderStage()),
//	    polyglot.WithHandlers(ctl),
//	)
//
// The render path resolves the language from the request only. The socket
// path consults the session registry first.
package localectl
