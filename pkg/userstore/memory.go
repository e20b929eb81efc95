package userstore

import (
	"context"
	"errors"
	"sync"
)

// Memory keeps users in process memory. Each user has a one-slot lock that
// honours context cancellation.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*memoryRecord
}

type memoryRecord struct {
	lang string
	lock chan struct{}
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]*memoryRecord)}
}

// Put creates or replaces a user.
func (m *Memory) Put(id, lang string) error {
	if id == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec, ok := m.users[id]; ok {
		rec.lang = lang
		return nil
	}
	m.users[id] = &memoryRecord{lang: lang, lock: make(chan struct{}, 1)}
	return nil
}

// Get returns a handle with a snapshot of the stored language.
func (m *Memory) Get(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &MemoryUser{store: m, rec: rec, id: id, lang: rec.lang}, nil
}

// Language returns the stored language of id.
func (m *Memory) Language(id string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.users[id]
	if !ok {
		return "", ErrNotFound
	}
	return rec.lang, nil
}

// MemoryUser is a handle returned by Memory. It is not safe for concurrent use.
type MemoryUser struct {
	store  *Memory
	rec    *memoryRecord
	id     string
	lang   string
	locked bool
}

func (u *MemoryUser) ID() string { return u.id }

func (u *MemoryUser) Language() string { return u.lang }

func (u *MemoryUser) SetLanguage(lang string) { u.lang = lang }

// Lock waits for the record lock and refreshes the language snapshot.
func (u *MemoryUser) Lock(ctx context.Context) error {
	select {
	case u.rec.lock <- struct{}{}:
	case <-ctx.Done():
		return errors.Join(ErrLockTimeout, ctx.Err())
	}
	u.locked = true

	u.store.mu.RLock()
	u.lang = u.rec.lang
	u.store.mu.RUnlock()
	return nil
}

func (u *MemoryUser) Unlock(context.Context) error {
	if !u.locked {
		return ErrNotLocked
	}
	u.locked = false
	<-u.rec.lock
	return nil
}

func (u *MemoryUser) Save(context.Context) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()
	u.rec.lang = u.lang
	return nil
}
