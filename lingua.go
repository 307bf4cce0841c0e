package lingua

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/lingua/internal"
	"github.com/dmitrymomot/lingua/pkg/config"
	"github.com/dmitrymomot/lingua/pkg/draft"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/xslt"
)

// Type aliases - public API
type (
	// Site is one configured site: languages, types, store, catalogs and
	// render pipeline.
	Site = internal.Site

	// Config is the site configuration read from YAML.
	Config = config.Site

	// Option configures a Site.
	Option = internal.Option

	// RenderOptions selects draft or published rendering.
	RenderOptions = internal.RenderOptions

	// Fixtures is the decoded content of a fixture file.
	Fixtures = internal.Fixtures

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor
)

// Errors
var (
	ErrNilConfig      = internal.ErrNilConfig
	ErrUnknownType    = internal.ErrUnknownType
	ErrInvalidFixture = internal.ErrInvalidFixture
)

// New builds the site described by cfg.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Site, error) {
	return internal.New(ctx, cfg, opts...)
}

// Open loads the site file at path and builds the site.
//
// Example:
//
//	site, err := lingua.Open(ctx, "site.yaml",
//	    lingua.WithLogger(logger.New(logger.DefaultExtractors()...)),
//	)
//	if err != nil {
//	    return err
//	}
//	return site.Serve(ctx)
func Open(ctx context.Context, path string, opts ...Option) (*Site, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return internal.New(ctx, cfg, opts...)
}

// Handler builds the site at path and returns its HTTP handler together with
// a function releasing the site.
func Handler(ctx context.Context, path string, opts ...Option) (http.Handler, func(context.Context) error, error) {
	site, err := Open(ctx, path, opts...)
	if err != nil {
		return nil, nil, err
	}
	return site.Handler(), site.Close, nil
}

// WithLogger sets the logger shared by every component of the site.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithTransformer replaces the xsltproc transformer.
func WithTransformer(t xslt.Transformer) Option {
	return internal.WithTransformer(t)
}

// WithDraftSource sets where draft snapshots are read from.
func WithDraftSource(src draft.Source) Option {
	return internal.WithDraftSource(src)
}

// WithIncludeClient sets the HTTP client used by remote include fields.
func WithIncludeClient(c *http.Client) Option {
	return internal.WithIncludeClient(c)
}

// WithRenderTTL sets how long rendered documents are cached.
// Zero disables the render cache.
func WithRenderTTL(d time.Duration) Option {
	return internal.WithRenderTTL(d)
}

// WithoutServices skips PostgreSQL and Redis even when configured.
func WithoutServices() Option {
	return internal.WithoutServices()
}
