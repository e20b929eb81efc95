// Command server serves the compiled locale cache, the language switch
// endpoint, and server-rendered pages translated per request.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/polyglot"
	"github.com/dmitrymomot/polyglot/localectl"
	"github.com/dmitrymomot/polyglot/middlewares"
	"github.com/dmitrymomot/polyglot/pkg/cache"
	"github.com/dmitrymomot/polyglot/pkg/db"
	"github.com/dmitrymomot/polyglot/pkg/localebuild"
	"github.com/dmitrymomot/polyglot/pkg/localecache"
	"github.com/dmitrymomot/polyglot/pkg/logger"
	"github.com/dmitrymomot/polyglot/pkg/redis"
	"github.com/dmitrymomot/polyglot/pkg/storage"
	"github.com/dmitrymomot/polyglot/pkg/translate"
	"github.com/dmitrymomot/polyglot/pkg/userstore"
)

type config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	PIDFile         string        `env:"PID_FILE" envDefault:"data/server.pid"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ManifestDir     string        `env:"LOCALES_MANIFEST_DIR" envDefault:"data/cache"`
	UserHeader      string        `env:"USER_ID_HEADER" envDefault:"X-User-ID"`
	CORSOrigins     []string      `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
	CookieSecret    string        `env:"COOKIE_SECRET"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`

	Log     logger.Config
	DB      db.Config
	Redis   redis.Config
	Storage storage.Config
	I18n    translate.Config
	Locale  localectl.Config
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return err
	}

	log := logger.NewWithConfig(cfg.Log,
		middlewares.RequestIDExtractor(),
		middlewares.LanguageExtractor(),
	)

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}

	store := localecache.New(deps.source,
		localecache.WithCache(deps.files),
		localecache.WithLogger(log),
	)

	helper, err := translate.New(ctx, cfg.I18n, deps.manifests,
		translate.WithLoader(store),
		translate.WithLogger(log),
	)
	if err != nil {
		return errors.Join(deps.close(ctx), err)
	}

	cookies := []polyglot.CookieOption{
		polyglot.WithCookieSecret(cfg.CookieSecret),
		polyglot.WithCookieSecure(cfg.CookieSecure),
	}
	ctl := localectl.New(helper, localectl.NewSessionLanguages(deps.sessions),
		localectl.WithConfig(cfg.Locale),
		localectl.WithLocaleFiles(store),
		localectl.WithUserResolver(userFromHeader(deps.users, cfg.UserHeader)),
		localectl.WithCookies(cookies...),
		localectl.WithLogger(log),
	)

	checks := []polyglot.HealthOption{
		polyglot.WithReadinessCheck("locales", store.Healthcheck),
	}
	if deps.pool != nil {
		checks = append(checks, polyglot.WithReadinessCheck("postgres", db.Healthcheck(deps.pool)))
	}
	if deps.redis != nil {
		checks = append(checks, polyglot.WithReadinessCheck("redis", redis.Healthcheck(deps.redis)))
	}

	app := polyglot.New(
		polyglot.WithCustomLogger(log),
		polyglot.WithCookieOptions(cookies...),
		polyglot.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Timeout(cfg.RequestTimeout, middlewares.WithTimeoutSkipper(isHealthCheck)),
			middlewares.CORS(middlewares.WithAllowOrigins(cfg.CORSOrigins...)),
			ctl.Detect(),
			ctl.PersistUserLanguage(),
		),
		polyglot.WithRenderStages(ctl.RenderStage()),
		polyglot.WithHandlers(ctl, newPages(helper)),
		polyglot.WithErrorHandler(middlewares.JSONErrors),
		polyglot.WithHealthChecks(checks...),
	)

	return app.Run(cfg.Address,
		polyglot.Logger(log),
		polyglot.PIDFile(cfg.PIDFile),
		polyglot.ShutdownTimeout(cfg.ShutdownTimeout),
		polyglot.ReloadHook(store.Invalidate),
		polyglot.ReloadHook(helper.Reload),
		polyglot.ShutdownHook(func(context.Context) error { return ctl.Sessions().Close() }),
		polyglot.ShutdownHook(deps.close),
		polyglot.ShutdownHook(logger.Flush(2*time.Second)),
	)
}

func isHealthCheck(c polyglot.Context) bool {
	p := c.Request().URL.Path
	return p == "/health/live" || p == "/health/ready"
}

// userFromHeader resolves the signed-in user from a header set by the
// upstream auth proxy. Unknown ids are treated as anonymous.
func userFromHeader(users userstore.Store, header string) localectl.UserResolver {
	return func(c polyglot.Context) (userstore.User, error) {
		id := c.Header(header)
		if id == "" {
			return nil, nil
		}
		u, err := users.Get(c, id)
		if errors.Is(err, userstore.ErrNotFound) {
			return nil, nil
		}
		return u, err
	}
}

// deps are the optional backends. Each falls back to a local implementation
// when it is not configured.
type deps struct {
	pool      *pgxpool.Pool
	redis     goredis.UniversalClient
	users     userstore.Store
	sessions  cache.Cache[string]
	files     cache.Cache[[]byte]
	source    localecache.Source
	manifests localebuild.ManifestReader
	closers   []func(context.Context) error
}

func connect(ctx context.Context, cfg config, log *slog.Logger) (*deps, error) {
	d := &deps{
		users:     userstore.NewMemory(),
		source:    localecache.DirSource(cfg.I18n.CacheDir),
		manifests: localebuild.NewFileManifestStore(cfg.ManifestDir),
	}

	if cfg.DB.Enabled() {
		pool, err := db.Connect(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, db.Shutdown(pool))
		if err := db.Migrate(ctx, pool, userstore.Migrations(), cfg.DB.MigrationsTable, log); err != nil {
			return nil, errors.Join(d.close(ctx), err)
		}
		d.pool = pool
		d.users = userstore.NewPostgres(pool, userstore.WithLockTimeout(cfg.Locale.LockTimeout))
		log.Info("user store: postgres")
	}

	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(d.close(ctx), err)
		}
		d.closers = append(d.closers, redis.Shutdown(client))
		d.redis = client
		d.sessions = cache.NewRedis[string](client, nil, cache.WithPrefix("polyglot:session-lang"))
		d.files = cache.NewRedis[[]byte](client, cache.Raw{}, cache.WithPrefix("polyglot:locales"))
		log.Info("session languages: redis")
	}

	if cfg.Storage.Enabled() {
		s3, err := storage.New(cfg.Storage)
		if err != nil {
			return nil, errors.Join(d.close(ctx), err)
		}
		d.source = localecache.ObjectSource(s3, storage.ErrNotFound)
		d.manifests = localebuild.NewObjectManifestStore(s3, storage.ErrNotFound)
		log.Info("locale cache: object storage", slog.String("bucket", cfg.Storage.Bucket))
	}

	return d, nil
}

func (d *deps) close(ctx context.Context) error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i](ctx))
	}
	return errors.Join(errs...)
}
