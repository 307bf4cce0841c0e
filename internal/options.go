package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/lingua/pkg/draft"
	"github.com/dmitrymomot/lingua/pkg/xslt"
)

// Option configures a Site.
type Option func(*Site)

// WithLogger sets the logger shared by every component of the site.
func WithLogger(l *slog.Logger) Option {
	return func(s *Site) {
		if l != nil {
			s.log = l
		}
	}
}

// WithTransformer replaces the xsltproc transformer.
func WithTransformer(t xslt.Transformer) Option {
	return func(s *Site) {
		if t != nil {
			s.transformer = t
		}
	}
}

// WithDraftSource sets where draft snapshots are read from.
// Defaults to the revisions found in the fixtures.
func WithDraftSource(src draft.Source) Option {
	return func(s *Site) {
		if src != nil {
			s.drafts = src
		}
	}
}

// WithIncludeClient sets the HTTP client used by remote include fields.
func WithIncludeClient(c *http.Client) Option {
	return func(s *Site) {
		if c != nil {
			s.client = c
		}
	}
}

// WithRenderTTL sets how long rendered documents are cached.
// Zero disables the render cache.
func WithRenderTTL(d time.Duration) Option {
	return func(s *Site) {
		s.renderTTL = d
	}
}

// WithoutServices skips PostgreSQL and Redis even when they are configured.
// Commands that only touch files use it.
func WithoutServices() Option {
	return func(s *Site) {
		s.offline = true
	}
}
