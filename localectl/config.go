package localectl

import "time"

// Config holds the controller settings.
type Config struct {
	// SessionKey is the cookie carrying the session id.
	SessionKey string `env:"SESSION_KEY" envDefault:"__sid"`
	// LangCookie is the cookie carrying an explicitly chosen language.
	LangCookie string `env:"LOCALE_COOKIE" envDefault:"lang"`
	// LangCookieMaxAge is the lifetime of the language cookie.
	LangCookieMaxAge time.Duration `env:"LOCALE_COOKIE_MAX_AGE" envDefault:"8760h"`
	// LockTimeout bounds the wait for a user record lock.
	LockTimeout time.Duration `env:"LOCALE_USER_LOCK_TIMEOUT" envDefault:"5s"`
	// LoadPath is the client load path template of compiled files.
	LoadPath string `env:"LOCALES_LOAD_PATH" envDefault:"/locales/{{ns}}.{{lng}}.json"`
}

// DefaultConfig returns the settings used when no Config is given.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.SessionKey == "" {
		c.SessionKey = "__sid"
	}
	if c.LangCookie == "" {
		c.LangCookie = "lang"
	}
	if c.LangCookieMaxAge <= 0 {
		c.LangCookieMaxAge = 365 * 24 * time.Hour
	}
	if c.LockTimeout <= 0 {
		c.LockTimeout = 5 * time.Second
	}
	if c.LoadPath == "" {
		c.LoadPath = "/locales/{{ns}}.{{lng}}.json"
	}
	return c
}
