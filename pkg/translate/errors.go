package translate

import "errors"

var (
	ErrNilManifestReader = errors.New("translate: manifest reader is required")
	ErrLoadFailed        = errors.New("translate: failed to load translations")
	ErrManifest          = errors.New("translate: failed to read manifest")
)
