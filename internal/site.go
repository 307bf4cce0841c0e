package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/lingua/pkg/cache"
	"github.com/dmitrymomot/lingua/pkg/catalog"
	"github.com/dmitrymomot/lingua/pkg/config"
	"github.com/dmitrymomot/lingua/pkg/db"
	"github.com/dmitrymomot/lingua/pkg/draft"
	"github.com/dmitrymomot/lingua/pkg/health"
	"github.com/dmitrymomot/lingua/pkg/l10n"
	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/redis"
	"github.com/dmitrymomot/lingua/pkg/storage"
	"github.com/dmitrymomot/lingua/pkg/store"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
	"github.com/dmitrymomot/lingua/pkg/xslt"
)

const (
	// DefaultRenderTTL bounds how long a rendered document is reused.
	DefaultRenderTTL = 10 * time.Minute

	renderCachePrefix  = "lingua:render:"
	includeCachePrefix = "lingua:include:"
	renderCacheEntries = 1024
)

// Site is one configured site: its languages, content types, store,
// catalogs and render pipeline. A Site is built once by New and is safe for
// concurrent use afterwards.
type Site struct {
	transformer  xslt.Transformer
	store        store.Store
	drafts       draft.Source
	cfg          *config.Site
	log          *slog.Logger
	client       *http.Client
	resolver     *langcode.Resolver
	registry     *model.Registry
	catalog      *catalog.Live
	localizer    *l10n.Localizer
	serializer   *xmltree.Serializer
	renderer     *xslt.Renderer
	writer       *catalog.Writer
	memory       *store.Memory
	pool         *pgxpool.Pool
	redis        goredis.UniversalClient
	storage      *storage.S3
	includeCache cache.Cache[string]
	renderCache  cache.Cache[[]byte]
	checks       health.Checks
	closers      []func(context.Context) error
	renderTTL    time.Duration
	offline      bool
}

// New builds the site described by cfg. Services named in the
// configuration are connected before New returns; on error everything
// opened so far is closed again.
func New(ctx context.Context, cfg *config.Site, opts ...Option) (_ *Site, err error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	s := &Site{
		cfg:       cfg,
		log:       logger.NewNope(),
		renderTTL: DefaultRenderTTL,
		checks:    make(health.Checks),
	}
	for _, opt := range opts {
		opt(s)
	}
	defer func() {
		if err != nil {
			_ = s.Close(context.WithoutCancel(ctx))
		}
	}()

	if s.resolver, err = cfg.Resolver(); err != nil {
		return nil, err
	}
	if err = s.connect(ctx); err != nil {
		return nil, err
	}

	c, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	if s.catalog, err = catalog.NewLive(c); err != nil {
		return nil, err
	}
	if s.localizer, err = l10n.NewLocalizer(s.resolver,
		l10n.WithCatalog(s.catalog),
		l10n.WithLogger(s.log),
	); err != nil {
		return nil, err
	}

	s.setupCaches()
	if err = s.buildTypes(); err != nil {
		return nil, err
	}

	s.serializer = xmltree.New(
		xmltree.WithLogger(s.log),
		xmltree.WithMaxDepth(cfg.MaxDepth),
	)
	if err = s.setupRenderer(); err != nil {
		return nil, err
	}
	if err = s.setupStore(); err != nil {
		return nil, err
	}
	if err = s.bindRelations(); err != nil {
		return nil, err
	}

	if s.memory != nil && cfg.Fixtures != "" {
		if err = s.loadFixtures(ctx, cfg.Fixtures); err != nil {
			return nil, err
		}
	}
	if s.drafts == nil {
		s.drafts = draft.NewMemorySource()
	}

	s.log.InfoContext(ctx, "site ready",
		slog.Any("languages", s.resolver.Languages()),
		slog.Int("types", len(s.registry.Types())),
		slog.Bool("master", s.resolver.IsMasterSite()),
		slog.Bool("postgres", s.pool != nil),
		slog.Bool("redis", s.redis != nil),
	)
	return s, nil
}

func (s *Site) connect(ctx context.Context) error {
	if s.cfg.Storage.Enabled() {
		st, err := storage.New(s.cfg.Storage)
		if err != nil {
			return err
		}
		s.storage = st
		s.checks["storage"] = st.Healthcheck()
	}
	if s.offline {
		return nil
	}

	if s.cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, db.DefaultConfig(s.cfg.DatabaseURL))
		if err != nil {
			return err
		}
		s.pool = pool
		s.closers = append(s.closers, db.Shutdown(pool))
		s.checks["postgres"] = db.Healthcheck(pool)
		if err := catalog.Migrate(ctx, pool, s.log); err != nil {
			return err
		}
	}

	if s.cfg.RedisURL != "" {
		client, err := redis.Open(ctx, s.cfg.RedisURL)
		if err != nil {
			return err
		}
		s.redis = client
		s.closers = append(s.closers, redis.Shutdown(client))
		s.checks["redis"] = redis.Healthcheck(client)
	}
	return nil
}

// loadCatalog merges the PO files of the locale directory with the entries
// kept in PostgreSQL and Redis. Later sources win.
func (s *Site) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	opts := []catalog.Option{
		catalog.WithMissingHandler(func(lang, msgid string) {
			s.log.DebugContext(ctx, "missing translation",
				slog.String("language", lang),
				slog.String("msgid", msgid),
			)
		}),
	}
	if info, err := os.Stat(s.cfg.LocaleDir); err == nil && info.IsDir() {
		opts = append(opts, catalog.WithPODir(os.DirFS(s.cfg.LocaleDir)))
	}

	langs := s.resolver.Languages()
	if s.pool != nil {
		entries, err := catalog.LoadPostgres(ctx, s.pool, langs...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithEntries(entries...))
	}
	if s.redis != nil {
		entries, err := catalog.LoadRedis(ctx, s.redis, catalog.DefaultRedisPrefix, langs...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, catalog.WithEntries(entries...))
	}
	return catalog.New(opts...)
}

func (s *Site) setupCaches() {
	if s.redis != nil {
		s.includeCache = cache.NewRedis[string](s.redis, nil, cache.WithPrefix(includeCachePrefix))
		s.renderCache = cache.NewRedis[[]byte](s.redis, cache.Raw{}, cache.WithPrefix(renderCachePrefix))
		return
	}
	s.includeCache = cache.NewMemory[string](cache.WithDefaultTTL(xmltree.DefaultIncludeInterval))
	s.renderCache = cache.NewMemory[[]byte](
		cache.WithDefaultTTL(DefaultRenderTTL),
		cache.WithMaxEntries(renderCacheEntries),
	)
	s.closers = append(s.closers, closeCache(s.includeCache), closeCache(s.renderCache))
}

func closeCache[V any](c cache.Cache[V]) func(context.Context) error {
	return func(context.Context) error { return c.Close() }
}

func (s *Site) setupRenderer() error {
	if s.transformer == nil {
		exec := xslt.NewExec(xslt.WithExecLogger(s.log))
		s.transformer = exec
		s.checks["xsltproc"] = func(context.Context) error {
			if !exec.Available() {
				return xslt.ErrUnavailable
			}
			return nil
		}
	}
	opts := []xslt.RendererOption{
		xslt.WithSerializer(s.serializer),
		xslt.WithStylesheetDirs(s.cfg.StylesheetDirs...),
		xslt.WithLogger(s.log),
	}
	if s.renderTTL > 0 {
		opts = append(opts, xslt.WithRenderCache(s.renderCache, s.renderTTL))
	}
	r, err := xslt.NewRenderer(s.transformer, opts...)
	if err != nil {
		return err
	}
	s.renderer = r
	return nil
}

// saveHooks keeps catalogs and rendered documents in step with saved
// instances.
func (s *Site) saveHooks() []store.SaveHook {
	var hooks []store.SaveHook
	if s.cfg.AutoCatalog && s.resolver.IsMasterSite() {
		s.writer = catalog.NewWriter(s.cfg.LocaleDir, s.resolver,
			catalog.WithDomain(s.cfg.CatalogDomain),
			catalog.WithWriterLogger(s.log),
		)
		for _, t := range s.registry.Types() {
			if len(t.LocalizedFields()) > 0 {
				s.writer.Register(t)
			}
		}
		hooks = append(hooks, s.writer.HandleSave, s.reloadCatalog)
	}
	return append(hooks, s.renderer.HandleSave)
}

func (s *Site) reloadCatalog(ctx context.Context, _ *model.Instance) error {
	return s.ReloadCatalog(ctx)
}

func (s *Site) setupStore() error {
	opts := []store.Option{
		store.WithSaveHook(s.saveHooks()...),
		store.WithLogger(s.log),
	}
	if s.pool == nil {
		s.memory = store.NewMemory(opts...)
		s.store = s.memory
		return nil
	}
	pg := store.NewPostgres(s.pool, opts...)
	for _, t := range s.registry.Types() {
		if err := pg.Register(t, ""); err != nil {
			return err
		}
	}
	s.store = pg
	return nil
}

// ReloadCatalog rebuilds the translation catalog from its sources and
// swaps it in. Lookups in flight keep using the previous catalog.
func (s *Site) ReloadCatalog(ctx context.Context) error {
	if err := s.catalog.Reload(ctx, s.loadCatalog); err != nil {
		return err
	}
	s.log.DebugContext(ctx, "catalog reloaded", slog.Int("messages", s.catalog.Current().Len()))
	return nil
}

// Close releases every connection and cache opened by New.
func (s *Site) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Type returns the type with the given "app.name" label.
func (s *Site) Type(label string) (*model.Type, error) {
	t, ok := s.registry.Lookup(label)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, label)
	}
	return t, nil
}

func (s *Site) Config() *config.Site            { return s.cfg }
func (s *Site) Logger() *slog.Logger            { return s.log }
func (s *Site) Resolver() *langcode.Resolver    { return s.resolver }
func (s *Site) Registry() *model.Registry       { return s.registry }
func (s *Site) Catalog() *catalog.Live          { return s.catalog }
func (s *Site) Localizer() *l10n.Localizer      { return s.localizer }
func (s *Site) Store() store.Store              { return s.store }
func (s *Site) Serializer() *xmltree.Serializer { return s.serializer }
func (s *Site) Renderer() *xslt.Renderer        { return s.renderer }
func (s *Site) Drafts() draft.Source            { return s.drafts }
func (s *Site) Pool() *pgxpool.Pool             { return s.pool }
func (s *Site) Redis() goredis.UniversalClient  { return s.redis }
func (s *Site) Checks() health.Checks           { return s.checks }

// CatalogWriter returns the PO writer, or nil unless automatic catalogs are
// enabled on the master site.
func (s *Site) CatalogWriter() *catalog.Writer { return s.writer }

// Storage returns the object storage, or nil when none is configured.
func (s *Site) Storage() *storage.S3 { return s.storage }
