// Package translate initialises the translation engine from the compiled
// locale cache and resolves the effective language of a lookup.
//
// The language of a translation is chosen in this order: the explicit
// Options.Lang, the stored language of the user, the fallback language.
//
//	h, err := translate.New(ctx, cfg, localebuild.NewFileManifestStore(dir),
//		translate.WithLoader(store),
//	)
//	h.Translate(user, "shop:cart.empty", translate.Options{})
//
// Keys may carry a namespace prefix separated by ':' when the prefix is a
// known namespace.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/localebuild"
	"github.com/dmitrymomot/polyglot/pkg/localecache"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// User is the part of a user record the helper reads.
type User interface {
	Language() string
}

// Loader returns the compiled translations of a namespace/language pair.
// *localecache.Store satisfies it.
type Loader interface {
	Get(ctx context.Context, namespace, language string) (map[string]any, error)
}

// Options tune a single translation.
type Options struct {
	// Lang forces the language.
	Lang string
	// Namespace is used when the key has no namespace prefix.
	Namespace string
	// Values fill {{name}} placeholders.
	Values i18n.M
	// Count selects a plural form and is exposed as {{count}}.
	Count *int
	// Sprintf arguments are applied to the result with fmt verbs.
	Sprintf []any
}

// Count returns a pointer to n for Options.Count.
func Count(n int) *int { return &n }

// Helper owns the translation engine. The engine is rebuilt by Reload and
// swapped atomically, so lookups never block.
type Helper struct {
	cfg       Config
	manifests localebuild.ManifestReader
	loader    Loader
	fsys      fs.FS
	log       *slog.Logger
	engineOps []i18n.Option
	engine    atomic.Pointer[i18n.I18n]
	manifest  atomic.Pointer[localebuild.Manifest]
}

// Option configures a Helper.
type Option func(*Helper)

// WithLoader preloads translations through l instead of reading the cache
// directory directly.
func WithLoader(l Loader) Option {
	return func(h *Helper) { h.loader = l }
}

// WithFS reads compiled files from fsys instead of Config.CacheDir.
func WithFS(fsys fs.FS) Option {
	return func(h *Helper) { h.fsys = fsys }
}

// WithLogger sets the helper logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Helper) {
		if l != nil {
			h.log = l
		}
	}
}

// WithEngineOptions passes extra options (plural rules, for example) to
// every engine the helper builds.
func WithEngineOptions(opts ...i18n.Option) Option {
	return func(h *Helper) { h.engineOps = append(h.engineOps, opts...) }
}

// New reads the manifest and builds the engine, preloading every language.
// A missing manifest is not an error: the helper starts with no translations
// and keys are returned as-is until the next Reload.
func New(ctx context.Context, cfg Config, manifests localebuild.ManifestReader, opts ...Option) (*Helper, error) {
	if manifests == nil {
		return nil, ErrNilManifestReader
	}
	h := &Helper{
		cfg:       cfg.withDefaults(),
		manifests: manifests,
		log:       logger.NewNope(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Reload rebuilds the engine from the current manifest. On failure the
// previous engine stays in use.
func (h *Helper) Reload(ctx context.Context) error {
	var m localebuild.Manifest
	if err := h.manifests.Read(ctx, localebuild.ManifestKey, &m); err != nil {
		if !errors.Is(err, localebuild.ErrManifestNotFound) {
			return errors.Join(ErrManifest, err)
		}
		h.log.WarnContext(ctx, "locale manifest not found, translations disabled")
	}

	langs := h.languages(m)
	namespaces := h.namespaces(m)

	opts := []i18n.Option{
		i18n.WithDefaultLanguage(h.cfg.FallbackLanguage),
		i18n.WithMissingKeyHandler(func(lang, ns, key string) {
			h.log.Debug("translation missing", slog.String("lang", lang), slog.String("namespace", ns), slog.String("key", key))
		}),
	}
	opts = append(opts, h.engineOps...)

	if h.loader != nil {
		loaded, err := h.preload(ctx, langs, namespaces)
		if err != nil {
			return err
		}
		opts = append(opts, loaded...)
		opts = append(opts, i18n.WithNamespaces(namespaces...), i18n.WithLanguages(langs...))
	} else {
		fsys := h.fsys
		if fsys == nil {
			fsys = os.DirFS(h.cfg.CacheDir)
		}
		opts = append(opts, i18n.WithCompiledDir(fsys, langs, namespaces))
	}

	engine, err := i18n.New(opts...)
	if err != nil {
		return errors.Join(ErrLoadFailed, err)
	}

	h.engine.Store(engine)
	h.manifest.Store(&m)
	h.log.InfoContext(ctx, "translations loaded",
		slog.Any("languages", engine.Languages()),
		slog.Any("namespaces", engine.Namespaces()),
	)
	return nil
}

// preload fetches every pair in parallel. Missing pairs are skipped.
func (h *Helper) preload(ctx context.Context, langs, namespaces []string) ([]i18n.Option, error) {
	type job struct{ lang, ns string }
	jobs := make([]job, 0, len(langs)*len(namespaces))
	for _, ns := range namespaces {
		for _, lang := range langs {
			jobs = append(jobs, job{lang: lang, ns: ns})
		}
	}

	results := make([]map[string]any, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.PreloadConcurrency)
	for i, j := range jobs {
		g.Go(func() error {
			data, err := h.loader.Get(gctx, j.ns, j.lang)
			switch {
			case errors.Is(err, localecache.ErrNotFound), errors.Is(err, fs.ErrNotExist):
				return nil
			case err != nil:
				return fmt.Errorf("%w: %s.%s: %w", ErrLoadFailed, j.ns, j.lang, err)
			}
			results[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	opts := make([]i18n.Option, 0, len(jobs))
	for i, data := range results {
		if data != nil {
			opts = append(opts, i18n.WithTranslations(jobs[i].lang, jobs[i].ns, data))
		}
	}
	return opts, nil
}

func (h *Helper) languages(m localebuild.Manifest) []string {
	langs := m.Locales
	if len(h.cfg.Languages) > 0 {
		langs = h.cfg.Languages
	}
	out := []string{h.cfg.FallbackLanguage}
	for _, l := range langs {
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}

func (h *Helper) namespaces(m localebuild.Manifest) []string {
	out := []string{h.cfg.DefaultNamespace}
	for _, ns := range m.Namespaces {
		if ns != "" && !slices.Contains(out, ns) {
			out = append(out, ns)
		}
	}
	return out
}

// Translate returns the translation of key for user. A missing translation
// yields the key itself.
func (h *Helper) Translate(user User, key string, opts Options) string {
	engine := h.engine.Load()
	lang := h.ResolveLanguage(user, opts.Lang)
	ns, key := h.splitKey(engine, key, opts.Namespace)

	var out string
	switch {
	case opts.Count != nil:
		out = engine.Tn(lang, ns, key, *opts.Count, opts.Values)
	case len(opts.Values) == 0:
		return engine.Sprintf(lang, ns, key, opts.Sprintf...)
	default:
		out = engine.T(lang, ns, key, opts.Values)
	}
	return i18n.Format(out, opts.Sprintf...)
}

// ResolveLanguage applies the language precedence: explicit, user, fallback.
func (h *Helper) ResolveLanguage(user User, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if user != nil {
		if lang := user.Language(); lang != "" {
			return lang
		}
	}
	return h.cfg.FallbackLanguage
}

func (h *Helper) splitKey(engine *i18n.I18n, key, namespace string) (string, string) {
	if ns, rest, ok := strings.Cut(key, ":"); ok && slices.Contains(engine.Namespaces(), ns) {
		return ns, rest
	}
	if namespace != "" {
		return namespace, key
	}
	return h.cfg.DefaultNamespace, key
}

// Translator returns a translator bound to lang and namespace.
func (h *Helper) Translator(lang, namespace string) *i18n.Translator {
	if namespace == "" {
		namespace = h.cfg.DefaultNamespace
	}
	return i18n.NewTranslator(h.engine.Load(), lang, namespace)
}

// Engine returns the current engine.
func (h *Helper) Engine() *i18n.I18n { return h.engine.Load() }

// Initialized reports whether any translation is loaded.
func (h *Helper) Initialized() bool { return h.engine.Load().Initialized() }

// Languages returns the loaded languages, fallback first.
func (h *Helper) Languages() []string { return h.engine.Load().Languages() }

// Namespaces returns the loaded namespaces, default first.
func (h *Helper) Namespaces() []string { return h.engine.Load().Namespaces() }

// Manifest returns the manifest of the last successful load.
func (h *Helper) Manifest() localebuild.Manifest {
	if m := h.manifest.Load(); m != nil {
		return *m
	}
	return localebuild.Manifest{}
}

func (h *Helper) FallbackLanguage() string { return h.cfg.FallbackLanguage }

func (h *Helper) DefaultNamespace() string { return h.cfg.DefaultNamespace }

func (h *Helper) Version() string { return h.cfg.Version }

// CacheVersions maps every language to the cache-busting version used by
// clients when loading compiled files.
func (h *Helper) CacheVersions() map[string]string {
	langs := h.Languages()
	out := make(map[string]string, len(langs))
	for _, l := range langs {
		out[l] = h.cfg.Version
	}
	return out
}
