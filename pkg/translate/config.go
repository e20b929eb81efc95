package translate

// Config holds the translation helper settings.
type Config struct {
	FallbackLanguage string `env:"I18N_FALLBACK_LNG" envDefault:"en"`
	DefaultNamespace string `env:"I18N_DEFAULT_NS" envDefault:"default"`
	// Languages restricts the preloaded languages. Empty means every locale of the manifest.
	Languages []string `env:"I18N_LNGS" envSeparator:","`
	// Version is appended to client load requests to bust caches.
	Version  string `env:"APP_VERSION" envDefault:"dev"`
	CacheDir string `env:"LOCALES_OUTPUT_DIR" envDefault:"data/www/locales"`
	// PreloadConcurrency bounds parallel file loads during initialisation.
	PreloadConcurrency int `env:"I18N_PRELOAD_CONCURRENCY" envDefault:"8"`
}

func (c Config) withDefaults() Config {
	if c.FallbackLanguage == "" {
		c.FallbackLanguage = "en"
	}
	if c.DefaultNamespace == "" {
		c.DefaultNamespace = "default"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.CacheDir == "" {
		c.CacheDir = "data/www/locales"
	}
	if c.PreloadConcurrency <= 0 {
		c.PreloadConcurrency = 8
	}
	return c
}
