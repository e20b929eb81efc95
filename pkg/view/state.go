// Package view exposes translations to server-rendered components and to
// standalone client stores.
//
// During a server render the Locale Controller stores a State and a Helper
// in the render context. Components attach a Mixin and call T and Lang:
//
//	var m view.Mixin
//	m.Attach(ctx)
//	defer m.Detach()
//	title := m.T("shop:cart.empty")
//
// Outside a render the Mixin binds to a ClientStore and follows its
// language changes until Detach.
package view

import (
	"context"
	"maps"
	"sync"
)

// LoadCurrentOnly loads only the active language.
const LoadCurrentOnly = "currentOnly"

// DefaultLoadPath is the route serving compiled locale files.
const DefaultLoadPath = "/locales/{{ns}}.{{lng}}.json"

// BackendOptions tell a client where compiled locale files live.
type BackendOptions struct {
	LoadPath          string            `json:"loadPath"`
	QueryStringParams map[string]string `json:"queryStringParams,omitempty"`
	AllowMultiLoading bool              `json:"allowMultiLoading"`
}

// State is the translation context of one render. It is serialised into the
// page so a client store can start where the server stopped.
type State struct {
	Lang             string            `json:"lang"`
	Load             string            `json:"load"`
	Defaults         map[string]string `json:"defaults"`
	Backend          BackendOptions    `json:"backend"`
	Namespaces       []string          `json:"ns"`
	DefaultNamespace string            `json:"defaultNS"`
	FallbackLng      string            `json:"fallbackLng"`

	mu sync.RWMutex
}

// Default returns the memoised translation for memoKey.
func (s *State) Default(memoKey string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Defaults[memoKey]
	return v, ok
}

func (s *State) setDefault(memoKey, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Defaults == nil {
		s.Defaults = make(map[string]string)
	}
	s.Defaults[memoKey] = value
}

// Snapshot returns a copy safe to serialise while renders continue.
func (s *State) Snapshot() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &State{
		Lang:             s.Lang,
		Load:             s.Load,
		Defaults:         maps.Clone(s.Defaults),
		Backend:          s.Backend,
		Namespaces:       s.Namespaces,
		DefaultNamespace: s.DefaultNamespace,
		FallbackLng:      s.FallbackLng,
	}
}

// StateKey is the context key of the render State. Frameworks storing
// request values by key (Context.Set) use it directly.
type StateKey struct{}

// HelperKey is the context key of the render Helper.
type HelperKey struct{}

// WithState stores s in ctx.
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, StateKey{}, s)
}

// StateFromContext returns the State stored by WithState.
func StateFromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(StateKey{}).(*State)
	return s, ok && s != nil
}

// WithHelper stores h in ctx.
func WithHelper(ctx context.Context, h *Helper) context.Context {
	return context.WithValue(ctx, HelperKey{}, h)
}

// HelperFromContext returns the Helper stored by WithHelper.
func HelperFromContext(ctx context.Context) (*Helper, bool) {
	h, ok := ctx.Value(HelperKey{}).(*Helper)
	return h, ok && h != nil
}
