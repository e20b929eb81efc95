// Package userstore persists the language preference of users.
//
// Updates follow a lock, modify, save, unlock sequence. Lock blocks until the
// record is free or ctx is done; Unlock must run on every exit path:
//
//	if err := u.Lock(ctx); err != nil {
//		return err
//	}
//	defer u.Unlock(context.WithoutCancel(ctx))
//	u.SetLanguage("en")
//	return u.Save(ctx)
package userstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("userstore: user not found")
	ErrEmptyID     = errors.New("userstore: empty user id")
	ErrLockTimeout = errors.New("userstore: lock not acquired")
	ErrNotLocked   = errors.New("userstore: user is not locked")
	ErrSaveFailed  = errors.New("userstore: failed to save user")
)

// User is a user record handle.
type User interface {
	ID() string
	Language() string
	SetLanguage(lang string)
	Save(ctx context.Context) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// Store loads user handles.
type Store interface {
	Get(ctx context.Context, id string) (User, error)
}
