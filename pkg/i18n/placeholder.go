package i18n

import (
	"fmt"
	"maps"
	"strings"
)

// ReplacePlaceholders replaces {{name}} placeholders in template with values
// from the map. Whitespace inside the braces is tolerated ("{{ name }}").
// Unknown placeholders are left unchanged.
//
// Example:
//
//	template: "Hello, {{name}}! You have {{count}} messages."
//	placeholders: M{"name": "John", "count": 5}
//	returns: "Hello, John! You have 5 messages."
func ReplacePlaceholders(template string, placeholders M) string {
	if len(placeholders) == 0 || !strings.Contains(template, "{{") {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + 2

		name := strings.TrimSpace(rest[start+2 : end])
		b.WriteString(rest[:start])
		if value, ok := placeholders[name]; ok {
			b.WriteString(fmt.Sprint(value))
		} else {
			b.WriteString(rest[start : end+2])
		}
		rest = rest[end+2:]
	}

	return b.String()
}

func replacePlaceholdersWithMerge(template string, placeholders ...M) string {
	switch len(placeholders) {
	case 0:
		return template
	case 1:
		return ReplacePlaceholders(template, placeholders[0])
	}

	merged := make(M)
	for _, p := range placeholders {
		maps.Copy(merged, p)
	}
	return ReplacePlaceholders(template, merged)
}

// Format applies fmt verbs to template. Without args the template is
// returned untouched so literal '%' survives.
func Format(template string, args ...any) string {
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
