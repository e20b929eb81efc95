package localebuild

import "time"

// ManifestKey is the key the locale manifest is stored under.
const ManifestKey = "locale"

const manifestSuffix = ".manifest.json"

// DefaultWatchPatterns are watched when no watch patterns are configured.
var DefaultWatchPatterns = []string{"locales/*"}

// Config holds the compiler settings.
type Config struct {
	Sources          []string      `env:"LOCALES_SOURCE" envSeparator:"," envDefault:"locales/*"`
	Watch            []string      `env:"LOCALES_WATCH" envSeparator:","`
	OutputDir        string        `env:"LOCALES_OUTPUT_DIR" envDefault:"data/www/locales"`
	ManifestDir      string        `env:"LOCALES_MANIFEST_DIR" envDefault:"data/cache"`
	DefaultNamespace string        `env:"I18N_DEFAULT_NS" envDefault:"default"`
	Debounce         time.Duration `env:"LOCALES_WATCH_DEBOUNCE" envDefault:"200ms"`
}

func (c Config) withDefaults() Config {
	if len(c.Sources) == 0 {
		c.Sources = []string{"locales/*"}
	}
	if c.OutputDir == "" {
		c.OutputDir = "data/www/locales"
	}
	if c.ManifestDir == "" {
		c.ManifestDir = "data/cache"
	}
	if c.DefaultNamespace == "" {
		c.DefaultNamespace = "default"
	}
	if c.Debounce <= 0 {
		c.Debounce = 200 * time.Millisecond
	}
	return c
}
