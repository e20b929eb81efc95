package view

import "context"

// ClientStore is a translation store living outside a server render.
type ClientStore interface {
	Initialized() bool
	Language() string
	T(args ...any) string
	// Subscribe registers fn for update notifications and returns the
	// function removing it.
	Subscribe(fn func()) (unsubscribe func())
}

// Mixin gives a component T and Lang.
type Mixin struct {
	state       *State
	helper      *Helper
	store       ClientStore
	unsubscribe func()
}

// Attach binds the mixin to the render context. It reports whether a
// server render context was found.
func (m *Mixin) Attach(ctx context.Context) bool {
	state, ok := StateFromContext(ctx)
	if !ok {
		return false
	}
	m.state = state
	if h, ok := HelperFromContext(ctx); ok {
		m.helper = h
	}
	return true
}

// AttachStore binds the mixin to a client store. onUpdate runs on every store
// update until the returned teardown (or Detach) is called.
func (m *Mixin) AttachStore(store ClientStore, onUpdate func()) func() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.store = store
	if onUpdate == nil {
		onUpdate = func() {}
	}
	m.unsubscribe = store.Subscribe(onUpdate)
	return m.Detach
}

// Detach drops every binding and unsubscribes from the store.
func (m *Mixin) Detach() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.store = nil
	m.state = nil
	m.helper = nil
}

// T translates args. The render helper answers first, then the defaults
// computed during the server render while the store is not initialised,
// then the store. Without any source the key is returned.
func (m *Mixin) T(args ...any) string {
	if m.helper != nil {
		return m.helper.T(args...)
	}
	if m.state != nil && (m.store == nil || !m.store.Initialized()) {
		if v, ok := m.state.Default(MemoKey(args...)); ok {
			return v
		}
	}
	if m.store != nil {
		return m.store.T(args...)
	}
	key, _, _ := SplitArgs(args)
	return key
}

// Lang returns the active language.
func (m *Mixin) Lang() string {
	switch {
	case m.store != nil && m.store.Initialized():
		return m.store.Language()
	case m.state != nil:
		return m.state.Lang
	case m.store != nil:
		return m.store.Language()
	}
	return ""
}

// WithState seeds the defaults used before a client store is initialised.
func (m *Mixin) WithState(s *State) *Mixin {
	m.state = s
	return m
}
