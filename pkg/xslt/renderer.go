package xslt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/dmitrymomot/lingua/pkg/cache"
	"github.com/dmitrymomot/lingua/pkg/draft"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
)

// Renderer serializes instances and transforms the document with a
// stylesheet found in its search directories.
type Renderer struct {
	transformer Transformer
	serializer  *xmltree.Serializer
	cache       cache.Cache[[]byte]
	log         *slog.Logger
	dirs        []string
	cacheTTL    time.Duration
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithSerializer sets the serializer used for instances.
func WithSerializer(s *xmltree.Serializer) RendererOption {
	return func(r *Renderer) {
		if s != nil {
			r.serializer = s
		}
	}
}

// WithStylesheetDirs sets the directories searched for stylesheets, in
// order.
func WithStylesheetDirs(dirs ...string) RendererOption {
	return func(r *Renderer) {
		r.dirs = slices.Clone(dirs)
	}
}

// WithRenderCache caches transformation results keyed by stylesheet,
// document and parameters.
func WithRenderCache(c cache.Cache[[]byte], ttl time.Duration) RendererOption {
	return func(r *Renderer) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) RendererOption {
	return func(r *Renderer) {
		if log != nil {
			r.log = log
		}
	}
}

// NewRenderer creates a Renderer around t.
func NewRenderer(t Transformer, opts ...RendererOption) (*Renderer, error) {
	if t == nil {
		return nil, ErrNoTransformer
	}
	r := &Renderer{
		transformer: t,
		log:         logger.NewNope(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.serializer == nil {
		r.serializer = xmltree.New(xmltree.WithLogger(r.log))
	}
	return r, nil
}

// Find returns the path of the first stylesheet called name in the search
// directories. Absolute names are checked as they are.
func (r *Renderer) Find(name string) (string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		candidates = candidates[:0]
		for _, dir := range r.dirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrStylesheetNotFound, name)
}

// RenderXML transforms an already serialized document.
func (r *Renderer) RenderXML(ctx context.Context, stylesheet string, doc []byte, params Params) ([]byte, error) {
	path, err := r.Find(stylesheet)
	if err != nil {
		return nil, err
	}
	if r.cache == nil {
		return r.transformer.Transform(ctx, doc, path, params)
	}
	return cache.GetOrSet(ctx, r.cache, cacheKey(path, doc, params), func(ctx context.Context) ([]byte, time.Duration, error) {
		out, err := r.transformer.Transform(ctx, doc, path, params)
		return out, r.cacheTTL, err
	})
}

// RenderInstances serializes insts and transforms the document.
func (r *Renderer) RenderInstances(ctx context.Context, stylesheet string, insts []*model.Instance, params Params) ([]byte, error) {
	doc, err := r.serializer.Serialize(ctx, insts)
	if err != nil {
		return nil, err
	}
	return r.RenderXML(ctx, stylesheet, doc, params)
}

// RenderDraft renders insts with the objects of a revision swapped in.
func (r *Renderer) RenderDraft(ctx context.Context, stylesheet string, insts []*model.Instance, revisionID string, src draft.Source, params Params) ([]byte, error) {
	doc, err := r.serializer.Serialize(ctx, insts)
	if err != nil {
		return nil, err
	}
	doc, err = draft.InsertDraft(ctx, doc, revisionID, src, r.serializer)
	if err != nil {
		return nil, err
	}
	return r.transform(ctx, stylesheet, doc, params)
}

// RenderPublished renders insts without the objects marked unpublished.
func (r *Renderer) RenderPublished(ctx context.Context, stylesheet string, insts []*model.Instance, params Params) ([]byte, error) {
	doc, err := r.serializer.Serialize(ctx, insts)
	if err != nil {
		return nil, err
	}
	doc, err = draft.FilterUnpublished(doc)
	if err != nil {
		return nil, err
	}
	return r.RenderXML(ctx, stylesheet, doc, params)
}

// Serializer returns the serializer used for instances.
func (r *Renderer) Serializer() *xmltree.Serializer { return r.serializer }

// Invalidate drops every cached render. Keys hash the document, so stale
// entries are never served; clearing only frees the space they hold.
func (r *Renderer) Invalidate(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.Clear(ctx)
}

// HandleSave matches store.SaveHook and clears the render cache after an
// instance is saved.
func (r *Renderer) HandleSave(ctx context.Context, inst *model.Instance) error {
	if err := r.Invalidate(ctx); err != nil {
		r.log.WarnContext(ctx, "render cache not cleared",
			slog.String("instance", inst.String()),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// transform skips the render cache. Draft previews change with every edit.
func (r *Renderer) transform(ctx context.Context, stylesheet string, doc []byte, params Params) ([]byte, error) {
	path, err := r.Find(stylesheet)
	if err != nil {
		return nil, err
	}
	return r.transformer.Transform(ctx, doc, path, params)
}

func cacheKey(path string, doc []byte, params Params) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(doc)
	for _, k := range slices.Sorted(maps.Keys(params)) {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(params[k]))
	}
	return "xslt:" + hex.EncodeToString(h.Sum(nil))
}
