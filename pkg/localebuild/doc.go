// Package localebuild compiles per-namespace locale fragments into the
// deployable locale cache.
//
// Fragments are JSON (or YAML) files matched by glob patterns. The file name
// carries the namespace and language: "common.de.json" belongs to namespace
// "common" and language "de", while "de.json" belongs to the default
// namespace. Fragments of the same pair are deep-merged in sorted path order
// and written as "{namespace}.{language}.json" into the output directory.
//
// A run either replaces the whole cache or leaves it untouched:
//
//	c := localebuild.New(cfg,
//		localebuild.WithLogger(log),
//		localebuild.WithRestarter(localebuild.PIDFileRestarter("server.pid")),
//	)
//	res, err := c.Run(ctx)
//
// After the swap the manifest ({"locales": [...], "namespaces": [...]}) is
// persisted under the key "locale" and the configured Restarter is invoked so
// the server reloads its translation engine.
//
// Watcher re-runs the compiler whenever a file matching the watch patterns
// changes.
package localebuild
