package view

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// Store is a ClientStore bootstrapped from a server State. It loads the
// namespaces of the active language through a Backend and notifies
// subscribers on every change.
type Store struct {
	backend Backend
	state   *State

	mu          sync.RWMutex
	engine      *i18n.I18n
	lang        string
	initialized bool

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewStore returns an uninitialised store. Call Init before relying on T.
func NewStore(backend Backend, state *State) *Store {
	if state == nil {
		state = &State{}
	}
	return &Store{
		backend: backend,
		state:   state,
		lang:    state.Lang,
		subs:    make(map[int]func()),
	}
}

// Init loads the bootstrapped language.
func (s *Store) Init(ctx context.Context) error {
	lang := s.state.Lang
	if lang == "" {
		lang = s.state.FallbackLng
	}
	return s.ChangeLanguage(ctx, lang)
}

// ChangeLanguage loads lang and swaps the engine. Subscribers are notified
// after the swap.
func (s *Store) ChangeLanguage(ctx context.Context, lang string) error {
	langs := []string{lang}
	if s.state.Load != LoadCurrentOnly && s.state.FallbackLng != "" && s.state.FallbackLng != lang {
		langs = append(langs, s.state.FallbackLng)
	}
	namespaces := s.namespaces()

	type pair struct{ lang, ns string }
	pairs := make([]pair, 0, len(langs)*len(namespaces))
	for _, l := range langs {
		for _, ns := range namespaces {
			pairs = append(pairs, pair{lang: l, ns: ns})
		}
	}

	loaded := make([]map[string]any, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range pairs {
		g.Go(func() error {
			data, err := s.backend.Load(gctx, p.lang, p.ns)
			if err != nil {
				return err
			}
			loaded[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fallback := s.state.FallbackLng
	if fallback == "" {
		fallback = lang
	}
	opts := []i18n.Option{
		i18n.WithDefaultLanguage(fallback),
		i18n.WithNamespaces(namespaces...),
		i18n.WithLanguages(langs...),
	}
	for i, p := range pairs {
		opts = append(opts, i18n.WithTranslations(p.lang, p.ns, loaded[i]))
	}
	engine, err := i18n.New(opts...)
	if err != nil {
		return errors.Join(ErrLoadFailed, err)
	}

	s.mu.Lock()
	s.engine = engine
	s.lang = lang
	s.initialized = true
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) namespaces() []string {
	namespaces := slices.Clone(s.state.Namespaces)
	if s.state.DefaultNamespace != "" && !slices.Contains(namespaces, s.state.DefaultNamespace) {
		namespaces = append([]string{s.state.DefaultNamespace}, namespaces...)
	}
	if len(namespaces) == 0 {
		namespaces = []string{i18n.DefaultNamespace}
	}
	return namespaces
}

func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// T translates args with the loaded engine. Keys may carry a "ns:" prefix.
// Before Init the key is returned.
func (s *Store) T(args ...any) string {
	key, values, count := SplitArgs(args)

	s.mu.RLock()
	engine, lang := s.engine, s.lang
	s.mu.RUnlock()
	if engine == nil {
		return key
	}

	ns := engine.Namespaces()[0]
	if prefix, rest, ok := strings.Cut(key, ":"); ok && slices.Contains(engine.Namespaces(), prefix) {
		ns, key = prefix, rest
	}

	if count != nil {
		return engine.Tn(lang, ns, key, *count, values)
	}
	return engine.T(lang, ns, key, values)
}

// Subscribe registers fn for update notifications.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
		})
	}
}

// Subscribers reports the number of active subscriptions.
func (s *Store) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
