// Package i18n is the translation engine behind the locale helper: an
// immutable, thread-safe store of flattened translations with CLDR-style
// plural rules, {{placeholder}} interpolation and an optional fmt-style
// post-processor.
//
// # Basic Usage
//
//	inst, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithTranslations("en", "app", map[string]any{
//			"goodbye": "Goodbye, {{name}}!",
//			"cart":    "%d items",
//		}),
//	)
//
//	inst.T("de", "app", "goodbye", i18n.M{"name": "Jan"}) // "Goodbye, Jan!"
//	inst.Sprintf("en", "app", "cart", 3)                   // "3 items"
//
// # Compiled Cache
//
// WithCompiledDir preloads the output of the locale compiler, one
// "{namespace}.{language}.json" file per pair:
//
//	inst, err := i18n.New(
//		i18n.WithDefaultLanguage("en"),
//		i18n.WithCompiledDir(os.DirFS("data/www/locales"), []string{"en", "fr"}, []string{"default", "shop"}),
//	)
//
// # Pluralization
//
// Tn picks a plural form ("zero", "one", "few", ...) from the language's rule
// and falls back to broader forms, ending with "other". The count is available
// as the {{count}} placeholder.
//
// # Language Fallback
//
// Lookups try the exact language, then its base language ("pt" for "pt-BR"),
// then the default language. A key missing everywhere is returned unchanged.
//
// # Accept-Language Header
//
//	best := i18n.ParseAcceptLanguage("es-ES,es;q=0.9,en;q=0.8", inst.Languages())
package i18n
