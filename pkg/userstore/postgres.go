package userstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema migrations for db.Migrate.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DefaultLockTimeout bounds the wait for a row lock.
const DefaultLockTimeout = 5 * time.Second

// Postgres stores users in the "users" table. Lock holds a row lock inside
// a transaction until Unlock.
type Postgres struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// PostgresOption configures Postgres.
type PostgresOption func(*Postgres)

// WithLockTimeout sets the database lock_timeout used by Lock.
func WithLockTimeout(d time.Duration) PostgresOption {
	return func(p *Postgres) {
		if d > 0 {
			p.lockTimeout = d
		}
	}
}

// NewPostgres returns a store backed by pool.
func NewPostgres(pool *pgxpool.Pool, opts ...PostgresOption) *Postgres {
	p := &Postgres{pool: pool, lockTimeout: DefaultLockTimeout}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Put creates or replaces a user.
func (p *Postgres) Put(ctx context.Context, id, lang string) error {
	if id == "" {
		return ErrEmptyID
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, lang) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET lang = EXCLUDED.lang, updated_at = now()`,
		id, lang)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, id string) (User, error) {
	u := &PostgresUser{store: p, id: id}
	err := p.pool.QueryRow(ctx, `SELECT lang FROM users WHERE id = $1`, id).Scan(&u.lang)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// PostgresUser is a handle returned by Postgres. It is not safe for
// concurrent use.
type PostgresUser struct {
	store *Postgres
	id    string
	lang  string
	tx    pgx.Tx
	saved bool
}

func (u *PostgresUser) ID() string { return u.id }

func (u *PostgresUser) Language() string { return u.lang }

func (u *PostgresUser) SetLanguage(lang string) { u.lang = lang }

// Lock begins a transaction and takes the row lock. The stored language is
// re-read under the lock.
func (u *PostgresUser) Lock(ctx context.Context) error {
	tx, err := u.store.pool.Begin(ctx)
	if err != nil {
		return errors.Join(ErrLockTimeout, err)
	}

	ms := u.store.lockTimeout.Milliseconds()
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)); err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		return errors.Join(ErrLockTimeout, err)
	}

	err = tx.QueryRow(ctx, `SELECT lang FROM users WHERE id = $1 FOR UPDATE`, u.id).Scan(&u.lang)
	if err != nil {
		_ = tx.Rollback(context.WithoutCancel(ctx))
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case isLockNotAvailable(err), errors.Is(err, context.DeadlineExceeded):
			return errors.Join(ErrLockTimeout, err)
		}
		return err
	}

	u.tx = tx
	u.saved = false
	return nil
}

// Save writes the language. Inside a lock the write joins the transaction.
func (u *PostgresUser) Save(ctx context.Context) error {
	const q = `UPDATE users SET lang = $2, updated_at = now() WHERE id = $1`

	var (
		tag pgconn.CommandTag
		err error
	)
	if u.tx != nil {
		tag, err = u.tx.Exec(ctx, q, u.id, u.lang)
	} else {
		tag, err = u.store.pool.Exec(ctx, q, u.id, u.lang)
	}
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	u.saved = true
	return nil
}

// Unlock commits when Save succeeded under the lock and rolls back otherwise.
func (u *PostgresUser) Unlock(ctx context.Context) error {
	if u.tx == nil {
		return ErrNotLocked
	}
	tx := u.tx
	u.tx = nil

	if u.saved {
		if err := tx.Commit(ctx); err != nil {
			return errors.Join(ErrSaveFailed, err)
		}
		return nil
	}
	return tx.Rollback(ctx)
}

// 55P03 is lock_not_available.
func isLockNotAvailable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}
