package i18n

import "strings"

// PluralRule determines which plural form to use for a given count.
// It follows Unicode CLDR guidelines.
type PluralRule func(n int) string

// Plural categories as defined by Unicode CLDR.
const (
	PluralZero  = "zero"
	PluralOne   = "one"
	PluralTwo   = "two"
	PluralFew   = "few"
	PluralMany  = "many"
	PluralOther = "other"
)

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// DefaultPluralRule is used for languages without a dedicated rule.
var DefaultPluralRule PluralRule = func(n int) string {
	switch a := abs(n); {
	case a == 0:
		return PluralZero
	case a == 1:
		return PluralOne
	case a <= 4:
		return PluralFew
	case a < 20:
		return PluralMany
	default:
		return PluralOther
	}
}

// EnglishPluralRule: zero (0), one (1), other.
var EnglishPluralRule PluralRule = func(n int) string {
	switch abs(n) {
	case 0:
		return PluralZero
	case 1:
		return PluralOne
	default:
		return PluralOther
	}
}

// GermanicPluralRule: one (1), other. Covers de, nl, sv, no, da, is.
var GermanicPluralRule PluralRule = func(n int) string {
	if abs(n) == 1 {
		return PluralOne
	}
	return PluralOther
}

// RomancePluralRule: one (0 and 1), many (1,000,000+), other. Covers fr, it, pt.
var RomancePluralRule PluralRule = func(n int) string {
	switch a := abs(n); {
	case a <= 1:
		return PluralOne
	case a >= 1_000_000:
		return PluralMany
	default:
		return PluralOther
	}
}

// SpanishPluralRule: one (1), many (1,000,000+), other.
var SpanishPluralRule PluralRule = func(n int) string {
	switch a := abs(n); {
	case a == 1:
		return PluralOne
	case a >= 1_000_000:
		return PluralMany
	default:
		return PluralOther
	}
}

// SlavicPluralRule: zero, one, few (2-4 except 12-14), many.
var SlavicPluralRule PluralRule = func(n int) string {
	a := abs(n)
	switch {
	case a == 0:
		return PluralZero
	case a == 1:
		return PluralOne
	}
	mod10, mod100 := a%10, a%100
	if mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14) {
		return PluralFew
	}
	return PluralMany
}

// AsianPluralRule: no plural distinction.
var AsianPluralRule PluralRule = func(int) string {
	return PluralOther
}

// ArabicPluralRule: zero, one, two, few (3-10), many (11-99), other.
var ArabicPluralRule PluralRule = func(n int) string {
	a := abs(n)
	switch a {
	case 0:
		return PluralZero
	case 1:
		return PluralOne
	case 2:
		return PluralTwo
	}
	switch mod100 := a % 100; {
	case mod100 >= 3 && mod100 <= 10:
		return PluralFew
	case mod100 >= 11:
		return PluralMany
	default:
		return PluralOther
	}
}

var pluralRulesByLanguage = map[string]PluralRule{
	"en": EnglishPluralRule,
	"de": GermanicPluralRule, "nl": GermanicPluralRule, "sv": GermanicPluralRule,
	"no": GermanicPluralRule, "da": GermanicPluralRule, "is": GermanicPluralRule,
	"fr": RomancePluralRule, "it": RomancePluralRule, "pt": RomancePluralRule,
	"es": SpanishPluralRule,
	"pl": SlavicPluralRule, "ru": SlavicPluralRule, "cs": SlavicPluralRule,
	"uk": SlavicPluralRule, "hr": SlavicPluralRule, "sr": SlavicPluralRule,
	"sk": SlavicPluralRule, "sl": SlavicPluralRule, "bg": SlavicPluralRule,
	"ja": AsianPluralRule, "zh": AsianPluralRule, "ko": AsianPluralRule,
	"th": AsianPluralRule, "vi": AsianPluralRule, "id": AsianPluralRule,
	"ms": AsianPluralRule,
	"ar": ArabicPluralRule,
}

// GetPluralRuleForLanguage returns the plural rule for an ISO 639-1 code,
// ignoring any region suffix. Unknown languages get DefaultPluralRule.
func GetPluralRuleForLanguage(lang string) PluralRule {
	if rule, ok := pluralRulesByLanguage[strings.ToLower(baseLanguage(lang))]; ok {
		return rule
	}
	return DefaultPluralRule
}

func pluralFallbackForms(form string) []string {
	switch form {
	case PluralOther:
		return nil
	case PluralTwo:
		return []string{PluralFew, PluralMany, PluralOther}
	case PluralFew:
		return []string{PluralMany, PluralOther}
	default:
		return []string{PluralOther}
	}
}
