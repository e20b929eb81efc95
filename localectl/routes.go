package localectl

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/pkg/localecache"
)

// VersionHeader carries the locale cache version on locale file responses.
const VersionHeader = "X-Locale-Version"

var emptyObject = []byte("{}")

// Routes implements internal.Handler.
func (ctl *Controller) Routes(r internal.Router) {
	r.GET("/locales/{namespace}.{language}.json", ctl.serveLocale)
	r.POST("/locales/lang", ctl.changeLanguage)
}

// serveLocale answers with the compiled file verbatim. A missing or
// unreadable file yields 200 {}.
func (ctl *Controller) serveLocale(c internal.Context) error {
	ns, lang := c.Param("namespace"), c.Param("language")
	c.SetHeader(VersionHeader, ctl.helper.Version())

	if ctl.files == nil {
		return c.Blob(http.StatusOK, "application/json", emptyObject)
	}

	data, err := ctl.files.Raw(c, ns, lang)
	if err != nil {
		if !errors.Is(err, localecache.ErrNotFound) {
			c.LogWarn("locale file unavailable", "namespace", ns, "language", lang, "error", err)
		}
		data = emptyObject
	}
	return c.Blob(http.StatusOK, "application/json", data)
}

// changeLanguage records the form value "lang" for the caller's session,
// issuing a session cookie when there is none, and sets the language cookie.
func (ctl *Controller) changeLanguage(c internal.Context) error {
	lang, err := ctl.normalize(c.Form("lang"))
	switch {
	case errors.Is(err, ErrUnsupported):
		return internal.ErrUnprocessable("language not available",
			internal.WithErrorCode("locale.unsupported_language"),
			internal.WithError(err),
		)
	case err != nil:
		return internal.ErrBadRequest("invalid language",
			internal.WithErrorCode("locale.invalid_language"),
			internal.WithError(err),
		)
	}

	sid := ctl.sessionID(c.Request())
	if sid == "" {
		if sid, err = ctl.issueSession(c.Response()); err != nil {
			return internal.ErrInternal("failed to issue session", internal.WithError(err))
		}
	}

	if err := ctl.SetLanguage(c, lang, sid); err != nil {
		return internal.ErrInternal("failed to record language", internal.WithError(err))
	}

	c.SetCookie(ctl.cfg.LangCookie, lang, int(ctl.cfg.LangCookieMaxAge/time.Second))
	return c.NoContent(http.StatusNoContent)
}

// sessionID reads the session cookie, verifying its signature when the
// cookie manager signs.
func (ctl *Controller) sessionID(r *http.Request) string {
	if r == nil {
		return ""
	}
	var (
		sid string
		err error
	)
	if ctl.cookies.CanSign() {
		sid, err = ctl.cookies.GetSigned(r, ctl.cfg.SessionKey)
	} else {
		sid, err = ctl.cookies.Get(r, ctl.cfg.SessionKey)
	}
	if err != nil {
		return ""
	}
	return sid
}

// issueSession sets a fresh session cookie and returns its id.
func (ctl *Controller) issueSession(w http.ResponseWriter) (string, error) {
	sid := uuid.NewString()
	if !ctl.cookies.CanSign() {
		ctl.cookies.Set(w, ctl.cfg.SessionKey, sid, 0)
		return sid, nil
	}
	if err := ctl.cookies.SetSigned(w, ctl.cfg.SessionKey, sid, 0); err != nil {
		return "", err
	}
	return sid, nil
}
