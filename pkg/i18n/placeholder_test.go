package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

func TestReplacePlaceholders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		template     string
		placeholders i18n.M
		expected     string
	}{
		{"no placeholders", "Hello, World!", nil, "Hello, World!"},
		{"single placeholder", "Hello, {{name}}!", i18n.M{"name": "John"}, "Hello, John!"},
		{"mixed value types", "{{name}} has {{count}} items worth {{amount}}, active: {{ok}}", i18n.M{"name": "Alice", "count": 5, "amount": 12.5, "ok": true}, "Alice has 5 items worth 12.5, active: true"},
		{"missing placeholder remains unchanged", "Hello, {{name}}! Your ID is {{id}}.", i18n.M{"name": "Bob"}, "Hello, Bob! Your ID is {{id}}."},
		{"repeated placeholders", "{{name}} is here. Hello, {{name}}!", i18n.M{"name": "Charlie"}, "Charlie is here. Hello, Charlie!"},
		{"whitespace inside braces", "Hi {{ name }}", i18n.M{"name": "Dana"}, "Hi Dana"},
		{"unterminated placeholder", "Hi {{name", i18n.M{"name": "Eve"}, "Hi {{name"},
		{"nil value", "Value: {{val}}", i18n.M{"val": nil}, "Value: <nil>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, i18n.ReplacePlaceholders(tt.template, tt.placeholders))
		})
	}
}
