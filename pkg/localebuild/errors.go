package localebuild

import "errors"

var (
	ErrInvalidFragmentName = errors.New("localebuild: invalid fragment name")
	ErrMalformedFragment   = errors.New("localebuild: malformed fragment")
	ErrInvalidPattern      = errors.New("localebuild: invalid glob pattern")
	ErrWriteFailed         = errors.New("localebuild: failed to write locale cache")
	ErrManifest            = errors.New("localebuild: failed to persist manifest")
	ErrManifestNotFound    = errors.New("localebuild: manifest not found")
	ErrPublishFailed       = errors.New("localebuild: failed to publish locale cache")
	ErrRestartFailed       = errors.New("localebuild: failed to restart server")
	ErrInvalidPID          = errors.New("localebuild: invalid pid")
)
