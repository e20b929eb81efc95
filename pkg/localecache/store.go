// Package localecache serves compiled locale files with an in-process (or
// Redis) cache in front of the file source.
package localecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/cache"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

var (
	ErrNotFound    = errors.New("localecache: locale file not found")
	ErrInvalidFile = errors.New("localecache: invalid locale file")
	ErrUnavailable = errors.New("localecache: source unavailable")
)

// Source reads a compiled file by name. A missing file is reported with an
// error wrapping ErrNotFound or fs.ErrNotExist.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, name string) ([]byte, error)

func (f SourceFunc) Read(ctx context.Context, name string) ([]byte, error) { return f(ctx, name) }

// Checker is implemented by sources that can report their availability.
type Checker interface {
	Check(ctx context.Context) error
}

// FSSource reads compiled files from a filesystem.
type FSSource struct {
	FS fs.FS
}

// DirSource returns a Source over the directory dir.
func DirSource(dir string) *Dir {
	return &Dir{FSSource: FSSource{FS: os.DirFS(dir)}, path: dir}
}

func (s FSSource) Read(_ context.Context, name string) ([]byte, error) {
	return fs.ReadFile(s.FS, name)
}

func (s FSSource) Check(context.Context) error {
	if _, err := fs.Stat(s.FS, "."); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// Dir is an FSSource bound to a directory on disk.
type Dir struct {
	FSSource
	path string
}

// Path returns the directory the source reads from.
func (d *Dir) Path() string { return d.path }

func (d *Dir) Check(context.Context) error {
	info, err := os.Stat(d.path)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnavailable, d.path)
	}
	return nil
}

// Store loads "{namespace}.{language}.json" on demand and keeps the raw
// bytes cached until Invalidate is called.
type Store struct {
	source Source
	cache  cache.Cache[[]byte]
	log    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithCache replaces the default in-memory cache.
func WithCache(c cache.Cache[[]byte]) Option {
	return func(s *Store) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a store reading from source.
func New(source Source, opts ...Option) *Store {
	s := &Store{
		source: source,
		cache:  cache.NewMemory[[]byte](),
		log:    logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Raw returns the compiled file for the pair verbatim.
func (s *Store) Raw(ctx context.Context, namespace, language string) ([]byte, error) {
	name := i18n.CompiledFileName(namespace, language)
	return cache.GetOrSet(ctx, s.cache, name, func(ctx context.Context) ([]byte, time.Duration, error) {
		data, err := s.source.Read(ctx, name)
		switch {
		case errors.Is(err, fs.ErrNotExist), errors.Is(err, ErrNotFound):
			return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, name)
		case err != nil:
			return nil, 0, errors.Join(ErrUnavailable, err)
		}
		if !json.Valid(data) {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidFile, name)
		}
		s.log.DebugContext(ctx, "locale file loaded", slog.String("file", name))
		return data, cache.NoExpiration, nil
	})
}

// Get returns the decoded translations of the pair.
func (s *Store) Get(ctx context.Context, namespace, language string) (map[string]any, error) {
	data, err := s.Raw(ctx, namespace, language)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Join(ErrInvalidFile, err)
	}
	return out, nil
}

// Invalidate drops every cached file. The next read goes to the source.
func (s *Store) Invalidate(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "locale cache invalidated")
	return nil
}

// Healthcheck reports whether the source is reachable.
func (s *Store) Healthcheck(ctx context.Context) error {
	if c, ok := s.source.(Checker); ok {
		return c.Check(ctx)
	}
	return nil
}

// ObjectReader is the read side of an object storage client.
// *storage.S3 satisfies it.
type ObjectReader interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Healthcheck(ctx context.Context) error
}

// Objects is a Source over object storage.
type Objects struct {
	reader   ObjectReader
	notFound error
}

// ObjectSource wraps r. notFound is the error r returns for a missing object.
func ObjectSource(r ObjectReader, notFound error) *Objects {
	return &Objects{reader: r, notFound: notFound}
}

func (o *Objects) Read(ctx context.Context, name string) ([]byte, error) {
	data, err := o.reader.Read(ctx, name)
	if err != nil && o.notFound != nil && errors.Is(err, o.notFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return data, err
}

func (o *Objects) Check(ctx context.Context) error {
	if err := o.reader.Healthcheck(ctx); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
