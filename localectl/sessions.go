package localectl

import (
	"context"
	"errors"

	"github.com/dmitrymomot/polyglot/pkg/cache"
)

// SessionLanguages maps session ids to the language chosen for the session.
// Entries never expire; they live as long as the backing cache keeps them.
// Safe for concurrent use.
type SessionLanguages struct {
	cache cache.Cache[string]
}

// NewSessionLanguages returns a registry backed by c. A nil c selects a
// process-local memory cache; pass a cache.Redis to share the registry
// between server instances.
func NewSessionLanguages(c cache.Cache[string]) *SessionLanguages {
	if c == nil {
		c = cache.NewMemory[string](cache.WithCleanupInterval(0))
	}
	return &SessionLanguages{cache: c}
}

// Set records lang for sessionID, replacing any previous value.
func (s *SessionLanguages) Set(ctx context.Context, sessionID, lang string) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	return s.cache.Set(ctx, sessionID, lang, cache.NoExpiration)
}

// Get returns the language recorded for sessionID.
func (s *SessionLanguages) Get(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrEmptySession
	}
	lang, err := s.cache.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrNotFound) {
		return "", ErrUnknownSession
	}
	return lang, err
}

// Lookup is Get without the error: it returns "" when nothing is recorded or
// the cache fails.
func (s *SessionLanguages) Lookup(ctx context.Context, sessionID string) string {
	lang, _ := s.Get(ctx, sessionID)
	return lang
}

// Forget removes the mapping of sessionID.
func (s *SessionLanguages) Forget(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionID)
}

// Close releases the backing cache.
func (s *SessionLanguages) Close() error {
	return s.cache.Close()
}
