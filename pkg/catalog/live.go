package catalog

import (
	"context"
	"sync/atomic"
)

// Live is a Gateway whose catalog can be replaced while it is being read.
// Readers never block: a lookup concurrent with Store sees either the old or
// the new catalog.
type Live struct {
	current atomic.Pointer[Catalog]
}

// NewLive creates a Live gateway serving c.
func NewLive(c *Catalog) (*Live, error) {
	if c == nil {
		return nil, ErrNilCatalog
	}
	l := &Live{}
	l.current.Store(c)
	return l, nil
}

// Lookup delegates to the current catalog.
func (l *Live) Lookup(msgid, lang string) string {
	return l.current.Load().Lookup(msgid, lang)
}

// Current returns the catalog being served.
func (l *Live) Current() *Catalog {
	return l.current.Load()
}

// Store replaces the served catalog.
func (l *Live) Store(c *Catalog) error {
	if c == nil {
		return ErrNilCatalog
	}
	l.current.Store(c)
	return nil
}

// Reload builds a new catalog with load and serves it. On error the previous
// catalog stays in place.
func (l *Live) Reload(ctx context.Context, load func(ctx context.Context) (*Catalog, error)) error {
	c, err := load(ctx)
	if err != nil {
		return err
	}
	return l.Store(c)
}
