package localectl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/localectl"
	"github.com/dmitrymomot/polyglot/pkg/cookie"
	"github.com/dmitrymomot/polyglot/pkg/localebuild"
	"github.com/dmitrymomot/polyglot/pkg/localecache"
	"github.com/dmitrymomot/polyglot/pkg/translate"
	"github.com/dmitrymomot/polyglot/pkg/userstore"
)

type staticManifest localebuild.Manifest

func (s staticManifest) Read(_ context.Context, _ string, v any) error {
	*(v.(*localebuild.Manifest)) = localebuild.Manifest(s)
	return nil
}

var compiled = fstest.MapFS{
	"default.en.json": {Data: []byte(`{"greeting":"Hi","hello":"Hello {{name}}"}`)},
	"default.de.json": {Data: []byte(`{"greeting":"Servus","hello":"Hallo {{name}}"}`)},
	"default.fr.json": {Data: []byte(`{"greeting":"Salut"}`)},
	"shop.en.json":    {Data: []byte(`{"cart":{"empty":"Empty"}}`)},
}

func newHelper(t *testing.T) *translate.Helper {
	t.Helper()
	h, err := translate.New(context.Background(),
		translate.Config{FallbackLanguage: "en", DefaultNamespace: "default", Version: "v1"},
		staticManifest{Locales: []string{"en", "de", "fr"}, Namespaces: []string{"default", "shop"}},
		translate.WithFS(compiled),
	)
	require.NoError(t, err)
	return h
}

func newFiles() *localecache.Store {
	return localecache.New(localecache.FSSource{FS: compiled})
}

// newApp serves ctl with detection, persistence, and the render stage, plus
// the extra routes of handlers.
func newApp(ctl *localectl.Controller, handlers ...internal.Handler) *internal.App {
	return internal.New(
		internal.WithMiddleware(ctl.Detect(), ctl.PersistUserLanguage()),
		internal.WithRenderStages(ctl.RenderStage()),
		internal.WithHandlers(append([]internal.Handler{ctl}, handlers...)...),
	)
}

const cookieSecret = "0123456789abcdef0123456789abcdef"

// signedCookie encodes value the way a controller with cookieSecret does.
func signedCookie(t *testing.T, name, value string) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, cookie.New(cookie.WithSecret(cookieSecret)).SetSigned(rec, name, value, 0))
	return responseCookie(rec, name)
}

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postLang(t *testing.T, h http.Handler, lang string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"lang": {lang}}
	req := httptest.NewRequest(http.MethodPost, "/locales/lang", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// countingUser records every step of the persistence sequence.
type countingUser struct {
	userstore.User
	locks, unlocks, saves int
	setTo                 []string
	saveErr               error
}

func (u *countingUser) Lock(ctx context.Context) error {
	u.locks++
	return u.User.Lock(ctx)
}

func (u *countingUser) Unlock(ctx context.Context) error {
	u.unlocks++
	return u.User.Unlock(ctx)
}

func (u *countingUser) SetLanguage(lang string) {
	u.setTo = append(u.setTo, lang)
	u.User.SetLanguage(lang)
}

func (u *countingUser) Save(ctx context.Context) error {
	u.saves++
	if u.saveErr != nil {
		return u.saveErr
	}
	return u.User.Save(ctx)
}

type socketUser string

func (u socketUser) Language() string { return string(u) }
