package localectl

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/polyglot/internal"
	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/cookie"
	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/translate"
	"github.com/dmitrymomot/polyglot/pkg/userstore"
)

// Helper is the part of translate.Helper the controller uses.
type Helper interface {
	Engine() *i18n.I18n
	Languages() []string
	Namespaces() []string
	FallbackLanguage() string
	DefaultNamespace() string
	Version() string
	Translate(user translate.User, key string, opts translate.Options) string
}

// LocaleFiles returns compiled locale files verbatim.
// *localecache.Store satisfies it.
type LocaleFiles interface {
	Raw(ctx context.Context, namespace, language string) ([]byte, error)
}

// UserResolver returns the authenticated user of a request, or nil for
// anonymous requests.
type UserResolver func(c internal.Context) (userstore.User, error)

// Controller wires locale resolution, user language persistence, render
// translation state, and the locale routes.
type Controller struct {
	helper   Helper
	sessions *SessionLanguages
	files    LocaleFiles
	users    UserResolver
	cookies  *cookie.Manager
	cfg      Config
	log      *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfig replaces the default settings. Zero fields keep their defaults.
func WithConfig(cfg Config) Option {
	return func(ctl *Controller) { ctl.cfg = cfg.withDefaults() }
}

// WithLocaleFiles sets the source of GET /locales/{namespace}.{language}.json.
// Without it the route answers {} for every pair.
func WithLocaleFiles(files LocaleFiles) Option {
	return func(ctl *Controller) { ctl.files = files }
}

// WithUserResolver enables PersistUserLanguage and gives socket calls a
// user when none is set on the call options.
func WithUserResolver(fn UserResolver) Option {
	return func(ctl *Controller) { ctl.users = fn }
}

// WithCookies configures the session cookie manager. With a secret the
// session id cookie is signed and unsigned or tampered values are ignored.
// Pass the options the app's cookie manager uses.
func WithCookies(opts ...cookie.Option) Option {
	return func(ctl *Controller) { ctl.cookies = cookie.New(opts...) }
}

// WithLogger sets the controller logger.
func WithLogger(l *slog.Logger) Option {
	return func(ctl *Controller) {
		if l != nil {
			ctl.log = l
		}
	}
}

// New returns a Controller. A nil sessions registry gets a memory-backed one.
func New(helper Helper, sessions *SessionLanguages, opts ...Option) *Controller {
	if sessions == nil {
		sessions = NewSessionLanguages(nil)
	}
	ctl := &Controller{
		helper:   helper,
		sessions: sessions,
		cookies:  cookie.New(),
		cfg:      DefaultConfig(),
		log:      logger.NewNope(),
	}
	for _, opt := range opts {
		opt(ctl)
	}
	return ctl
}

// Sessions returns the session language registry.
func (ctl *Controller) Sessions() *SessionLanguages { return ctl.sessions }

// Config returns the effective settings.
func (ctl *Controller) Config() Config { return ctl.cfg }

// SetLanguage records lang for sessionID. It backs POST /locales/lang and
// the socket "lang" call of clients that cannot send per-request language
// headers.
func (ctl *Controller) SetLanguage(ctx context.Context, lang, sessionID string) error {
	if sessionID == "" {
		return ErrEmptySession
	}
	tag, err := ctl.normalize(lang)
	if err != nil {
		return err
	}
	if err := ctl.sessions.Set(ctx, sessionID, tag); err != nil {
		return err
	}
	ctl.log.DebugContext(ctx, "session language recorded",
		slog.String("session_id", sessionID),
		slog.String("lang", tag),
	)
	return nil
}

// RequestLanguage returns the language resolved by Detect, reduced to its
// last space-separated token, or the fallback language when nothing was
// resolved.
func (ctl *Controller) RequestLanguage(c internal.Context) string {
	if lang := lastToken(middlewares.GetLanguage(c)); lang != "" {
		return lang
	}
	return ctl.helper.FallbackLanguage()
}

func lastToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
