package localectl

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/middlewares"
)

// normalize canonicalises lang and checks it against the loaded languages.
// A regional tag is accepted when its base language is loaded.
func (ctl *Controller) normalize(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "", ErrInvalidLanguage
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
	}

	canonical := tag.String()
	available := ctl.helper.Languages()
	if len(available) == 0 || slices.Contains(available, canonical) {
		return canonical, nil
	}
	if base, _ := tag.Base(); slices.Contains(available, base.String()) {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, canonical)
}

// Detect returns the language detection middleware. The language comes from
// the language cookie, then Accept-Language matched against the helper's
// current languages, then the fallback language. Only the last
// space-separated token of the cookie value is used, and only when that
// language is loaded.
func (ctl *Controller) Detect() internal.Middleware {
	return middlewares.I18n(ctl.helper.Engine,
		middlewares.WithI18nNamespace(ctl.helper.DefaultNamespace()),
		middlewares.WithI18nExtractor(internal.NewExtractor(
			ctl.fromLangCookie,
			ctl.fromAcceptLanguage,
		)),
	)
}

// fromAcceptLanguage reads the helper languages per request so a reload
// adding a language is honoured.
func (ctl *Controller) fromAcceptLanguage(c internal.Context) (string, bool) {
	return middlewares.FromAcceptLanguage(ctl.helper.Languages())(c)
}

// fromLangCookie accepts the cookie language only when it normalizes against
// the loaded languages.
func (ctl *Controller) fromLangCookie(c internal.Context) (string, bool) {
	raw, ok := internal.FromLastToken(internal.FromCookie(ctl.cfg.LangCookie))(c)
	if !ok {
		return "", false
	}
	lang, err := ctl.normalize(raw)
	if err != nil {
		return "", false
	}
	return lang, true
}
