package i18n

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultLang is the default language code used when no default language is specified.
const DefaultLang = "en"

// DefaultNamespace is used when translations are registered without an explicit namespace.
const DefaultNamespace = "default"

// M is a placeholder map used for interpolation.
type M = map[string]any

// I18n provides internationalization support with translations and pluralization.
// It is immutable after creation, making it safe for concurrent use.
type I18n struct {
	// Flattened translations map for O(1) lookups.
	// Key format: "lang:namespace:key.path"
	translations map[string]string

	pluralRules map[string]PluralRule

	// Called when a key is missing in every fallback language.
	missingKeyHandler func(lang, namespace, key string)

	defaultLang string
	languages   []string
	namespaces  []string
}

// Option configures the I18n instance during construction.
type Option func(*I18n) error

// New creates a new I18n instance with the given options.
// All configuration happens during construction, making the instance
// immutable and thread-safe from creation.
func New(opts ...Option) (*I18n, error) {
	i := &I18n{
		translations: make(map[string]string),
		pluralRules:  make(map[string]PluralRule),
		defaultLang:  DefaultLang,
	}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if i.defaultLang == "" {
		return nil, ErrEmptyLanguage
	}

	if len(i.languages) == 0 {
		i.languages = []string{i.defaultLang}
	}
	if len(i.namespaces) == 0 {
		i.namespaces = []string{DefaultNamespace}
	}

	return i, nil
}

// WithDefaultLanguage sets the default/fallback language.
func WithDefaultLanguage(lang string) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		i.defaultLang = lang
		return nil
	}
}

// WithLanguages sets the supported languages.
// The order is preserved, duplicates and empty values are dropped.
// The default language is prepended when missing.
func WithLanguages(langs ...string) Option {
	return func(i *I18n) error {
		if len(langs) == 0 {
			return nil
		}
		list := uniqueNonEmpty(langs)
		if !slices.Contains(list, i.defaultLang) {
			list = append([]string{i.defaultLang}, list...)
		}
		i.languages = list
		return nil
	}
}

// WithNamespaces declares the namespaces known to the instance.
func WithNamespaces(namespaces ...string) Option {
	return func(i *I18n) error {
		for _, ns := range namespaces {
			if ns == "" {
				return ErrEmptyNamespace
			}
		}
		i.namespaces = uniqueNonEmpty(namespaces)
		return nil
	}
}

// WithTranslations loads translations for a specific language and namespace.
// The translations map can be nested; it will be flattened internally.
func WithTranslations(lang, namespace string, translations map[string]any) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if namespace == "" {
			return ErrEmptyNamespace
		}
		i.add(lang, namespace, translations)
		return nil
	}
}

// WithPluralRule registers a custom plural rule for a language.
func WithPluralRule(lang string, rule PluralRule) Option {
	return func(i *I18n) error {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if rule == nil {
			return ErrNilPluralRule
		}
		i.pluralRules[lang] = rule
		return nil
	}
}

// WithMissingKeyHandler sets a handler called when a key is not found in any
// language, including the default fallback.
func WithMissingKeyHandler(handler func(lang, namespace, key string)) Option {
	return func(i *I18n) error {
		i.missingKeyHandler = handler
		return nil
	}
}

// T retrieves a translation for the given language, namespace, and key.
// Lookup order: exact language, base language ("en" for "en-US"), default language.
// Returns the key itself if no translation exists.
func (i *I18n) T(lang, namespace, key string, placeholders ...M) string {
	translation, ok := i.lookup(lang, namespace, key)
	if !ok {
		i.missing(lang, namespace, key)
		return key
	}
	return replacePlaceholdersWithMerge(translation, placeholders...)
}

// Sprintf looks up the key and formats the result with args using fmt verbs.
// Missing keys are formatted as well, so "%s items" style keys still work.
func (i *I18n) Sprintf(lang, namespace, key string, args ...any) string {
	return Format(i.T(lang, namespace, key), args...)
}

// Tn retrieves a pluralized translation for the given count.
// The plural form is chosen by the language's plural rule and the count is
// injected as the "count" placeholder.
func (i *I18n) Tn(lang, namespace, key string, n int, placeholders ...M) string {
	form := i.ruleFor(lang)(n)

	var (
		translation string
		found       bool
	)
	for _, candidate := range i.fallbackChain(lang) {
		if found, translation = i.findPluralTranslation(candidate, namespace, key, form); found {
			break
		}
	}

	if !found {
		i.missing(lang, namespace, key)
		return key
	}

	merged := M{"count": n}
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}

	return ReplacePlaceholders(translation, merged)
}

// Has reports whether the key resolves in lang or any of its fallbacks.
func (i *I18n) Has(lang, namespace, key string) bool {
	_, ok := i.lookup(lang, namespace, key)
	return ok
}

// Languages returns the list of available languages.
func (i *I18n) Languages() []string {
	return slices.Clone(i.languages)
}

// Namespaces returns the list of known namespaces.
func (i *I18n) Namespaces() []string {
	return slices.Clone(i.namespaces)
}

// DefaultLanguage returns the default/fallback language.
func (i *I18n) DefaultLanguage() string {
	return i.defaultLang
}

// Initialized reports whether the instance holds any translation.
func (i *I18n) Initialized() bool {
	return i != nil && len(i.translations) > 0
}

func (i *I18n) add(lang, namespace string, translations map[string]any) {
	if len(translations) == 0 {
		return
	}
	for key, value := range flattenTranslations(translations, "") {
		i.translations[buildKey(lang, namespace, key)] = value
	}
	if _, exists := i.pluralRules[lang]; !exists {
		i.pluralRules[lang] = GetPluralRuleForLanguage(lang)
	}
}

func (i *I18n) lookup(lang, namespace, key string) (string, bool) {
	for _, candidate := range i.fallbackChain(lang) {
		if translation, ok := i.translations[buildKey(candidate, namespace, key)]; ok {
			return translation, true
		}
	}
	return "", false
}

// fallbackChain returns lang, its base language, and the default language,
// without duplicates.
func (i *I18n) fallbackChain(lang string) []string {
	chain := make([]string, 0, 3)
	chain = append(chain, lang)
	if base := baseLanguage(lang); base != lang {
		chain = append(chain, base)
	}
	if !slices.Contains(chain, i.defaultLang) {
		chain = append(chain, i.defaultLang)
	}
	return chain
}

func (i *I18n) ruleFor(lang string) PluralRule {
	for _, candidate := range i.fallbackChain(lang) {
		if rule, ok := i.pluralRules[candidate]; ok {
			return rule
		}
	}
	return DefaultPluralRule
}

// findPluralTranslation tries the exact plural form first, then its fallback forms.
func (i *I18n) findPluralTranslation(lang, namespace, key, form string) (bool, string) {
	for _, f := range append([]string{form}, pluralFallbackForms(form)...) {
		if trans, ok := i.translations[buildKey(lang, namespace, key+"."+f)]; ok {
			return true, trans
		}
	}
	return false, ""
}

func (i *I18n) missing(lang, namespace, key string) {
	if i.missingKeyHandler != nil {
		i.missingKeyHandler(lang, namespace, key)
	}
}

func buildKey(lang, namespace, key string) string {
	return lang + ":" + namespace + ":" + key
}

func flattenTranslations(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flattenTranslations(v, fullKey))
		case map[string]string:
			for subKey, subVal := range v {
				result[fullKey+"."+subKey] = subVal
			}
		case nil:
			// null values carry no translation
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}

// baseLanguage strips the region from a language tag ("en-US" -> "en").
func baseLanguage(lang string) string {
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}

func uniqueNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
