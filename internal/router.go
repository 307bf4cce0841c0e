package internal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/lingua/middlewares"
	"github.com/dmitrymomot/lingua/pkg/health"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/store"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
	"github.com/dmitrymomot/lingua/pkg/xslt"
)

const xmlContentType = "application/xml; charset=utf-8"

// Handler returns the HTTP interface of the site:
//
//	GET /health/live
//	GET /health/ready
//	GET [/{lang}]/xml/{type}                        every instance of a type
//	GET [/{lang}]/xml/{type}/{pk}                   one instance
//	GET [/{lang}]/render/{stylesheet}/{type}/{pk}   one instance through XSLT
//
// The language comes from the optional path prefix, the language cookie or
// Accept-Language. XML routes accept ?fields=a,b; the render route accepts
// ?revision=id to overlay a draft and ?published=1 to drop unpublished
// objects.
func (s *Site) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middlewares.RequestID(),
		middlewares.Recover(middlewares.WithRecoverLogger(s.log)),
		middlewares.Timeout(defaultRequestTimeout, middlewares.WithTimeoutLogger(s.log)),
		middlewares.Locale(s.resolver, middlewares.WithLocaleStripPrefix()),
	)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.checks, health.WithLogger(s.log)))

	r.Route("/xml", func(r chi.Router) {
		r.Use(middlewares.CORS())
		r.Get("/{type}", s.handleList)
		r.Get("/{type}/{pk}", s.handleObject)
	})
	r.Get("/render/{stylesheet}/{type}/{pk}", s.handleRender)
	return r
}

func (s *Site) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.Type(chi.URLParam(r, "type"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	insts, err := s.store.All(ctx, t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeXML(w, r, insts)
}

func (s *Site) handleObject(w http.ResponseWriter, r *http.Request) {
	inst, err := s.Instance(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "pk"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeXML(w, r, []*model.Instance{inst})
}

func (s *Site) writeXML(w http.ResponseWriter, r *http.Request, insts []*model.Instance) {
	ser := s.serializer
	if fields := r.URL.Query().Get("fields"); fields != "" {
		ser = xmltree.New(
			xmltree.WithLogger(s.log),
			xmltree.WithMaxDepth(s.cfg.MaxDepth),
			xmltree.WithFields(strings.Split(fields, ",")...),
		)
	}
	doc, err := ser.Serialize(r.Context(), insts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xmlContentType)
	_, _ = w.Write(doc)
}

func (s *Site) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inst, err := s.Instance(ctx, chi.URLParam(r, "type"), chi.URLParam(r, "pk"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := s.Render(ctx, chi.URLParam(r, "stylesheet"), []*model.Instance{inst}, RenderOptions{
		Revision:  r.URL.Query().Get("revision"),
		Published: r.URL.Query().Get("published") != "",
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(out))
	_, _ = w.Write(out)
}

// RenderOptions selects the render variant.
type RenderOptions struct {
	Params    xslt.Params
	Revision  string
	Published bool
}

// Render transforms insts with stylesheet in the language active in ctx.
// The stylesheet receives the language as the "language" parameter.
func (s *Site) Render(ctx context.Context, stylesheet string, insts []*model.Instance, opts RenderOptions) ([]byte, error) {
	params := xslt.Params{"language": xslt.PrepareStringParam(s.resolver.Active(ctx))}
	for k, v := range opts.Params {
		params[k] = v
	}
	switch {
	case opts.Revision != "":
		return s.renderer.RenderDraft(ctx, stylesheet, insts, opts.Revision, s.drafts, params)
	case opts.Published:
		return s.renderer.RenderPublished(ctx, stylesheet, insts, params)
	default:
		return s.renderer.RenderInstances(ctx, stylesheet, insts, params)
	}
}

// Instance returns the instance of the labelled type with primary key pk.
// Numeric keys are passed to the store as integers.
func (s *Site) Instance(ctx context.Context, label, pk string) (*model.Instance, error) {
	t, err := s.Type(label)
	if err != nil {
		return nil, err
	}
	var key any = pk
	if n, err := strconv.Atoi(pk); err == nil {
		key = n
	}
	return s.store.Get(ctx, t, key)
}

func (s *Site) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownType),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, xslt.ErrStylesheetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		// the timeout middleware answers
		return
	}

	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	http.Error(w, http.StatusText(status), status)
}
