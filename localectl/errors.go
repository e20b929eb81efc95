package localectl

import "errors"

var (
	ErrEmptySession    = errors.New("localectl: empty session id")
	ErrUnknownSession  = errors.New("localectl: no language recorded for session")
	ErrInvalidLanguage = errors.New("localectl: invalid language tag")
	ErrUnsupported     = errors.New("localectl: language not available")
	ErrPersistLanguage = errors.New("localectl: failed to persist user language")
	ErrResolveUser     = errors.New("localectl: failed to resolve user")
)
