package localectl

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/userstore"
)

// PersistUserLanguage returns middleware that stores the request language
// on the authenticated user when it differs from the stored one. The write
// runs under the user record lock; lock and save failures abort the request.
// Without a UserResolver the middleware does nothing.
func (ctl *Controller) PersistUserLanguage() internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if ctl.users == nil {
				return next(c)
			}
			user, err := ctl.users(c)
			if err != nil {
				return errors.Join(ErrResolveUser, err)
			}
			if user == nil {
				return next(c)
			}

			if lang := ctl.RequestLanguage(c); user.Language() != lang {
				if err := ctl.persist(c, user, lang); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}

// persist runs lock, update, save, unlock. Unlock runs on every path once the
// lock is held and does not inherit the request cancellation.
func (ctl *Controller) persist(ctx context.Context, user userstore.User, lang string) (err error) {
	lockCtx, cancel := context.WithTimeout(ctx, ctl.cfg.LockTimeout)
	defer cancel()

	if err := user.Lock(lockCtx); err != nil {
		return errors.Join(ErrPersistLanguage, err)
	}
	defer func() {
		if uerr := user.Unlock(context.WithoutCancel(ctx)); uerr != nil {
			err = errors.Join(err, ErrPersistLanguage, uerr)
		}
	}()

	previous := user.Language()
	user.SetLanguage(lang)
	if err := user.Save(ctx); err != nil {
		return errors.Join(ErrPersistLanguage, err)
	}

	ctl.log.InfoContext(ctx, "user language updated",
		slog.String("user_id", user.ID()),
		slog.String("from", previous),
		slog.String("to", lang),
	)
	return nil
}
