package i18n

import (
	"golang.org/x/text/language"
)

// maxAcceptLanguageLength prevents DoS attacks through oversized Accept-Language headers.
const maxAcceptLanguageLength = 4096

// ParseAcceptLanguage parses the Accept-Language header and returns the most
// applicable language from the available languages list.
// Quality values are honoured and regional variants match their base
// language ("en-US" matches "en"). If nothing matches, the first available
// language is returned.
//
// Example header: "en-US,en;q=0.9,pl;q=0.8"
// Available: ["pl", "en", "de"]
// Returns: "en"
func ParseAcceptLanguage(header string, available []string) string {
	if len(available) == 0 {
		return ""
	}
	if header == "" {
		return available[0]
	}
	if len(header) > maxAcceptLanguageLength {
		header = header[:maxAcceptLanguageLength]
	}

	requested, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(requested) == 0 {
		return available[0]
	}

	supported := make([]language.Tag, 0, len(available))
	index := make([]int, 0, len(available))
	for idx, avail := range available {
		tag, err := language.Parse(avail)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		index = append(index, idx)
	}
	if len(supported) == 0 {
		return available[0]
	}

	_, matched, confidence := language.NewMatcher(supported).Match(requested...)
	if confidence == language.No {
		return available[0]
	}
	return available[index[matched]]
}

// IsValidLanguage reports whether lang is a well-formed BCP 47 tag.
func IsValidLanguage(lang string) bool {
	if lang == "" {
		return false
	}
	_, err := language.Parse(lang)
	return err == nil
}
