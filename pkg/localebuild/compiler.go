package localebuild

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// Compiler merges locale fragments into the compiled locale cache.
// Runs are serialised; a run triggered while another is in progress waits.
type Compiler struct {
	cfg        Config
	log        *slog.Logger
	manifests  ManifestWriter
	restarter  Restarter
	publishers []Publisher
	mu         sync.Mutex
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compiler logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

// WithManifestWriter replaces the default FileManifestStore.
func WithManifestWriter(w ManifestWriter) Option {
	return func(c *Compiler) {
		if w != nil {
			c.manifests = w
		}
	}
}

// WithRestarter sets the restarter invoked after a successful run.
func WithRestarter(r Restarter) Option {
	return func(c *Compiler) {
		if r != nil {
			c.restarter = r
		}
	}
}

// WithPublisher adds a publisher that runs after the cache is committed.
func WithPublisher(p Publisher) Option {
	return func(c *Compiler) {
		if p != nil {
			c.publishers = append(c.publishers, p)
		}
	}
}

// New creates a compiler. Without options the manifest is stored in
// cfg.ManifestDir and no restart is performed.
func New(cfg Config, opts ...Option) *Compiler {
	cfg = cfg.withDefaults()
	c := &Compiler{
		cfg:       cfg,
		log:       logger.NewNope(),
		manifests: NewFileManifestStore(cfg.ManifestDir),
		restarter: noopRestarter{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the effective configuration.
func (c *Compiler) Config() Config { return c.cfg }

// WatchPatterns returns the globs a Watcher should observe.
func (c *Compiler) WatchPatterns() []string {
	switch {
	case len(c.cfg.Watch) > 0:
		return slices.Clone(c.cfg.Watch)
	case len(c.cfg.Sources) > 0:
		return slices.Clone(c.cfg.Sources)
	}
	return slices.Clone(DefaultWatchPatterns)
}

// Result describes a successful run.
type Result struct {
	// Sources are the absolute fragment paths in processing order.
	Sources []string
	// Files are the compiled file names relative to the output directory.
	Files    []string
	Manifest Manifest
	Duration time.Duration
}

// Run compiles the fragments matched by patterns, or by the configured
// sources when no pattern is given.
//
// Nothing is committed when a fragment fails to parse: the previous cache
// and manifest stay in place and the restarter is not called.
func (c *Compiler) Run(ctx context.Context, patterns ...string) (*Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	if len(patterns) == 0 {
		patterns = c.cfg.Sources
	}

	sources, err := Expand(patterns...)
	if err != nil {
		return nil, err
	}

	b, err := c.collect(ctx, sources)
	if err != nil {
		return nil, err
	}

	files, err := c.commit(b)
	if err != nil {
		return nil, err
	}

	if err := c.manifests.Write(ctx, ManifestKey, b.manifest); err != nil {
		return nil, err
	}

	for _, p := range c.publishers {
		if err := p.Publish(ctx, c.cfg.OutputDir, files); err != nil {
			return nil, err
		}
	}

	if err := c.restarter.Restart(ctx); err != nil {
		return nil, err
	}

	res := &Result{
		Sources:  sources,
		Files:    files,
		Manifest: b.manifest,
		Duration: time.Since(start),
	}
	c.log.InfoContext(ctx, "locale cache compiled",
		slog.Int("sources", len(sources)),
		slog.Int("files", len(files)),
		slog.Any("locales", b.manifest.Locales),
		slog.Any("namespaces", b.manifest.Namespaces),
		slog.Duration("took", res.Duration),
	)
	return res, nil
}

type pair struct {
	namespace, language string
}

type bundle struct {
	entries  map[pair]map[string]any
	manifest Manifest
}

func (c *Compiler) collect(ctx context.Context, sources []string) (*bundle, error) {
	b := &bundle{
		entries:  make(map[pair]map[string]any),
		manifest: Manifest{Locales: []string{}, Namespaces: []string{}},
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ns, lang, err := ParseFragmentName(src, c.cfg.DefaultNamespace)
		if err != nil {
			return nil, err
		}

		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedFragment, err)
		}
		fragment, err := parseFragment(src, data)
		if err != nil {
			return nil, err
		}

		if !slices.Contains(b.manifest.Locales, lang) {
			b.manifest.Locales = append(b.manifest.Locales, lang)
		}
		if !slices.Contains(b.manifest.Namespaces, ns) {
			b.manifest.Namespaces = append(b.manifest.Namespaces, ns)
		}

		key := pair{namespace: ns, language: lang}
		b.entries[key] = Merge(b.entries[key], fragment)

		c.log.DebugContext(ctx, "locale fragment merged",
			slog.String("file", src),
			slog.String("namespace", ns),
			slog.String("language", lang),
		)
	}
	return b, nil
}

// commit writes the bundle into a staging directory next to the output
// directory and swaps it in.
func (c *Compiler) commit(b *bundle) ([]string, error) {
	out := filepath.Clean(c.cfg.OutputDir)
	parent := filepath.Dir(out)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, errors.Join(ErrWriteFailed, err)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(out)+".staging-*")
	if err != nil {
		return nil, errors.Join(ErrWriteFailed, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()
	if err := os.Chmod(staging, 0o755); err != nil {
		return nil, errors.Join(ErrWriteFailed, err)
	}

	files := make([]string, 0, len(b.entries))
	for key, entry := range b.entries {
		if len(entry) == 0 {
			continue
		}
		data, err := encodeJSON(entry)
		if err != nil {
			return nil, errors.Join(ErrWriteFailed, err)
		}
		name := i18n.CompiledFileName(key.namespace, key.language)
		if err := os.WriteFile(filepath.Join(staging, name), data, 0o644); err != nil {
			return nil, errors.Join(ErrWriteFailed, err)
		}
		files = append(files, name)
	}
	slices.Sort(files)

	if err := swapDir(staging, out); err != nil {
		return nil, errors.Join(ErrWriteFailed, err)
	}
	committed = true
	return files, nil
}

// swapDir replaces target with staging. The previous target is kept aside
// until the rename succeeds and restored otherwise.
func swapDir(staging, target string) error {
	var backup string
	switch _, err := os.Stat(target); {
	case err == nil:
		backup = target + ".old-" + strconv.FormatInt(time.Now().UnixNano(), 36)
		if err := os.Rename(target, backup); err != nil {
			return err
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	if err := os.Rename(staging, target); err != nil {
		if backup != "" {
			_ = os.Rename(backup, target)
		}
		return err
	}

	if backup != "" {
		_ = os.RemoveAll(backup)
	}
	return nil
}

// encodeJSON renders v with sorted keys and without HTML escaping, so markup
// inside translations is kept as written.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
