package middlewares

import (
	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// I18nConfig configures the i18n middleware.
type I18nConfig struct {
	Namespace    string
	Extractor    internal.Extractor
	extractorSet bool
}

// I18nOption configures I18nConfig.
type I18nOption func(*I18nConfig)

// WithI18nNamespace sets the namespace of the request Translator.
// Defaults to the engine's first namespace.
func WithI18nNamespace(ns string) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Namespace = ns
	}
}

// WithI18nExtractor replaces the default cookie → Accept-Language chain.
func WithI18nExtractor(ext internal.Extractor) I18nOption {
	return func(cfg *I18nConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// FromAcceptLanguage returns an ExtractorSource that parses the Accept-Language
// header and matches against the available languages.
func FromAcceptLanguage(available []string) internal.ExtractorSource {
	return func(c internal.Context) (string, bool) {
		header := c.Header("Accept-Language")
		if header == "" {
			return "", false
		}
		lang := i18n.ParseAcceptLanguage(header, available)
		return lang, lang != ""
	}
}

// I18n returns middleware that resolves the request language, creates a
// Translator, and stores both in the request context.
// engine is called on every request, so a reloaded engine is picked up
// without rebuilding the middleware chain. Values that are not valid language
// tags fall back to the engine's default language.
func I18n(engine func() *i18n.I18n, opts ...I18nOption) internal.Middleware {
	cfg := &I18nConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			svc := engine()
			if svc == nil {
				return next(c)
			}

			ext := cfg.Extractor
			if !cfg.extractorSet {
				// Default extractor: cookie → accept-language
				ext = internal.NewExtractor(
					internal.FromCookie("lang"),
					FromAcceptLanguage(svc.Languages()),
				)
			}

			lang, ok := ext.Extract(c)
			if !ok || !i18n.IsValidLanguage(lang) {
				lang = svc.DefaultLanguage()
			}

			c.Set(internal.TranslatorKey{}, i18n.NewTranslator(svc, lang, cfg.Namespace))
			c.Set(internal.LanguageKey{}, lang)

			return next(c)
		}
	}
}

// GetTranslator extracts the Translator from the context.
// Returns nil if the I18n middleware is not used.
func GetTranslator(c internal.Context) *i18n.Translator {
	return internal.ContextValue[*i18n.Translator](c, internal.TranslatorKey{})
}

// GetLanguage extracts the resolved language from the context.
// Returns an empty string if the I18n middleware is not used.
func GetLanguage(c internal.Context) string {
	return internal.ContextValue[string](c, internal.LanguageKey{})
}

// LanguageExtractor returns a ContextExtractor for use with WithLogger.
// Adds "lang" to log entries written after the language is resolved.
func LanguageExtractor() logger.ContextExtractor {
	return logger.StringValue("lang", internal.LanguageKey{})
}
