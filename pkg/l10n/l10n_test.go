package l10n_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/catalog"
	"github.com/dmitrymomot/lingua/pkg/l10n"
	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/model"
)

func newResolver(t *testing.T, cfg langcode.Config) *langcode.Resolver {
	t.Helper()
	r, err := langcode.New(cfg)
	require.NoError(t, err)
	return r
}

func newCatalog(t *testing.T, opts ...catalog.Option) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(opts...)
	require.NoError(t, err)
	return c
}

func articleType(t *testing.T) *model.Type {
	t.Helper()
	typ, err := model.NewType("news", "article",
		&model.Field{Name: "title", Kind: model.CharField, MaxLength: 20, Required: true},
		&model.Field{Name: "body", Kind: model.TextField},
		&model.Field{Name: "views", Kind: model.IntegerField},
	)
	require.NoError(t, err)
	return typ
}

func localized(t *testing.T, r *langcode.Resolver, g catalog.Gateway, fields ...string) *model.Type {
	t.Helper()
	l, err := l10n.NewLocalizer(r, l10n.WithCatalog(g))
	require.NoError(t, err)
	typ := articleType(t)
	require.NoError(t, l.Localize(typ, fields...))
	return typ
}

func inLang(lang string) context.Context {
	return langcode.WithContext(context.Background(), lang)
}

func TestLocalize(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de"}, MsgidLanguage: "nl"})

	t.Run("creates one slot per language", func(t *testing.T) {
		t.Parallel()

		typ := localized(t, r, nil, "title")

		names := make([]string, 0)
		for _, a := range typ.Attributes() {
			names = append(names, a.Name())
		}
		assert.Equal(t, []string{"title", "body", "views", "title_nl", "title_en", "title_de"}, names)
		assert.Equal(t, []string{"title"}, typ.LocalizedFields())

		_, ok := typ.Field("title")
		assert.False(t, ok, "original storage field is removed")

		d, ok := l10n.Lookup(typ, "title")
		require.True(t, ok)
		assert.Equal(t, model.CharField, d.DeclaredType())
	})

	t.Run("slot constraints", func(t *testing.T) {
		t.Parallel()

		typ := localized(t, r, nil, "title")

		msgid, _ := typ.Field("title_nl")
		assert.True(t, msgid.Required)
		assert.True(t, msgid.Nullable)
		assert.True(t, msgid.ExcludeFromXML)
		assert.Equal(t, 20, msgid.MaxLength)
		assert.Equal(t, "title (nl)", msgid.VerboseName)
		assert.Equal(t, "title", msgid.Origin)
		assert.Equal(t, "nl", msgid.Language)

		de, _ := typ.Field("title_de")
		assert.False(t, de.Required)
		assert.True(t, de.Nullable)
		assert.Equal(t, 20, de.MaxLength)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		t.Parallel()

		l, err := l10n.NewLocalizer(r)
		require.NoError(t, err)
		typ := articleType(t)
		require.NoError(t, l.Localize(typ, "title", "body"))
		once := typ.Attributes()

		require.NoError(t, l.Localize(typ, "title", "body"))
		require.NoError(t, l.Localize(typ, "title"))
		assert.Equal(t, once, typ.Attributes())
		assert.Equal(t, []string{"title", "body"}, typ.LocalizedFields())
	})

	t.Run("unknown field fails before any change", func(t *testing.T) {
		t.Parallel()

		l, err := l10n.NewLocalizer(r)
		require.NoError(t, err)
		typ := articleType(t)
		before := typ.Attributes()

		err = l.Localize(typ, "title", "subtitle")
		require.ErrorIs(t, err, l10n.ErrUnknownField)

		var cfgErr *l10n.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "news.article", cfgErr.Type)
		assert.Equal(t, "subtitle", cfgErr.Field)
		assert.Equal(t, before, typ.Attributes())
		assert.Empty(t, typ.LocalizedFields())
	})

	t.Run("rejects foreign keys", func(t *testing.T) {
		t.Parallel()

		l, err := l10n.NewLocalizer(r)
		require.NoError(t, err)
		typ := model.MustType("news", "comment", &model.Field{Name: "article", Kind: model.ForeignKey, To: "news.article"})
		require.ErrorIs(t, l.Localize(typ, "article"), l10n.ErrNotLocalizable)
	})

	t.Run("rejects conflicting slot", func(t *testing.T) {
		t.Parallel()

		l, err := l10n.NewLocalizer(r)
		require.NoError(t, err)
		typ := model.MustType("news", "tag", &model.Field{Name: "name"}, &model.Field{Name: "name_de"})
		require.ErrorIs(t, l.Localize(typ, "name"), l10n.ErrSlotConflict)
	})

	t.Run("nil resolver", func(t *testing.T) {
		t.Parallel()

		_, err := l10n.NewLocalizer(nil)
		require.ErrorIs(t, err, l10n.ErrNilResolver)
	})
}

func TestDescriptor_RoundTrip(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de", "fr"}})
	typ := localized(t, r, newCatalog(t, catalog.WithMessages("de", map[string]any{"x": "y"})), "title")

	for _, lang := range []string{"en", "de", "fr"} {
		inst := model.NewInstance(typ, 1)
		ctx := inLang(lang)
		require.NoError(t, inst.Set(ctx, "title", "value-"+lang))

		v, err := inst.Get(ctx, "title")
		require.NoError(t, err)
		assert.Equal(t, "value-"+lang, v)
		assert.Equal(t, "value-"+lang, inst.Attr("title_"+lang))
	}
}

func TestDescriptor_Resolve(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de"}})
	cat := newCatalog(t, catalog.WithMessages("de", map[string]any{"Hello": "Hallo"}))
	typ := localized(t, r, cat, "title", "views")
	d, _ := l10n.Lookup(typ, "title")

	t.Run("catalog translation", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))

		res := d.Resolve(inLang("de"), inst)
		assert.True(t, res.Equal("Hallo"))
		require.NotNil(t, res.Provenance)
		assert.Equal(t, l10n.OriginCatalog, res.Provenance.Origin)
		assert.Equal(t, "Hello", res.Provenance.Msgid)
		assert.Equal(t, "Hallo", res.Provenance.Msg)
		assert.False(t, res.Provenance.FromDatabase)

		res = d.Resolve(inLang("en"), inst)
		assert.True(t, res.Equal("Hello"))
		assert.Equal(t, l10n.OriginDatabase, res.Provenance.Origin)
	})

	t.Run("message id pass-through", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Goodbye"))

		res := d.Resolve(inLang("de"), inst)
		assert.True(t, res.Equal("Goodbye"))
		require.NotNil(t, res.Provenance)
		assert.Equal(t, l10n.OriginMessageID, res.Provenance.Origin)
	})

	t.Run("database wins over catalog", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))
		require.NoError(t, inst.SetAttr("title_de", "Servus"))

		res := d.Resolve(inLang("de"), inst)
		assert.True(t, res.Equal("Servus"))
		assert.True(t, res.Provenance.FromDatabase)
		assert.Equal(t, "Servus", res.Provenance.Stored)
		assert.Equal(t, "Hallo", res.Provenance.Msg)
	})

	t.Run("stored value without message id has no provenance", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_de", "Nur Deutsch"))

		res := d.Resolve(inLang("de"), inst)
		assert.Equal(t, "Nur Deutsch", res.Value)
		assert.Nil(t, res.Provenance)
	})

	t.Run("nothing stored", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		res := d.Resolve(inLang("de"), inst)
		assert.Nil(t, res.Value)
		assert.Nil(t, res.Provenance)
		assert.False(t, res.Valid())
	})

	t.Run("empty message id is passed through", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", ""))
		res := d.Resolve(inLang("de"), inst)
		assert.Nil(t, res.Value)
	})

	t.Run("catalog strings are converted to the field kind", func(t *testing.T) {
		t.Parallel()

		c := newCatalog(t, catalog.WithMessages("de", map[string]any{"3": "4"}))
		ityp := localized(t, r, c, "views")
		inst := model.NewInstance(ityp, 1)
		require.NoError(t, inst.SetAttr("views_en", 3))

		v, err := inst.Get(inLang("de"), "views")
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	})

	t.Run("unparsable translation is discarded", func(t *testing.T) {
		t.Parallel()

		c := newCatalog(t, catalog.WithMessages("de", map[string]any{"3": "drei"}))
		ityp := localized(t, r, c, "views")
		inst := model.NewInstance(ityp, 1)
		require.NoError(t, inst.SetAttr("views_en", 3))

		v, err := inst.Get(inLang("de"), "views")
		require.NoError(t, err)
		assert.Equal(t, 3, v)
	})

	t.Run("language defaults to the site default", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))
		assert.Equal(t, "Hello", d.Value(context.Background(), inst))
	})
}

func TestDescriptor_Fallbacks(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{
		Languages: []string{"en", "de", "de-at", "fr"},
		Fallbacks: map[string][]string{"de": {"en"}, "fr": {"de", "en"}},
	})
	cat := newCatalog(t,
		catalog.WithMessages("de", map[string]any{"Hello": "Hallo"}),
	)
	typ := localized(t, r, cat, "title")
	d, _ := l10n.Lookup(typ, "title")

	t.Run("fallback catalog", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))

		res := d.Resolve(inLang("fr"), inst)
		assert.True(t, res.Equal("Hallo"))
		require.NotNil(t, res.Provenance)
		assert.Equal(t, l10n.OriginFallback, res.Provenance.Origin)
		assert.Equal(t, "Hallo", res.Provenance.Fallback)
	})

	t.Run("fallback slot before fallback catalog", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))
		require.NoError(t, inst.SetAttr("title_de", "Guten Tag"))

		res := d.Resolve(inLang("fr"), inst)
		assert.True(t, res.Equal("Guten Tag"))
		assert.Equal(t, l10n.OriginFallback, res.Provenance.Origin)
	})

	t.Run("regional code uses primary subtag catalog", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))

		res := d.Resolve(inLang("de-at"), inst)
		assert.True(t, res.Equal("Hallo"))
		assert.Equal(t, l10n.OriginCatalog, res.Provenance.Origin)
		assert.Equal(t, []string{"en"}, d.Fallbacks("de-at"))
	})

	t.Run("message id from fallback slot", func(t *testing.T) {
		t.Parallel()

		c := newCatalog(t, catalog.WithMessages("fr", map[string]any{"Hallo": "Bonjour"}))
		ftyp := localized(t, r, c, "title")
		inst := model.NewInstance(ftyp, 1)
		require.NoError(t, inst.SetAttr("title_de", "Hallo"))

		v, err := inst.Get(inLang("fr"), "title")
		require.NoError(t, err)
		assert.Equal(t, "Bonjour", v)
	})

	t.Run("fallback languages without values", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.SetAttr("title_fr", "Bonjour"))

		res := d.Resolve(inLang("de"), inst)
		assert.Nil(t, res.Value)
		assert.Nil(t, res.Provenance)
	})

	t.Run("field level fallbacks override site map", func(t *testing.T) {
		t.Parallel()

		l, err := l10n.NewLocalizer(r, l10n.WithCatalog(cat))
		require.NoError(t, err)
		ftyp := model.MustType("news", "page", &model.Field{Name: "title", Fallbacks: []string{}})
		require.NoError(t, l.Localize(ftyp, "title"))

		inst := model.NewInstance(ftyp, 1)
		require.NoError(t, inst.SetAttr("title_en", "Hello"))
		require.NoError(t, inst.SetAttr("title_de", "Guten Tag"))

		fd, _ := l10n.Lookup(ftyp, "title")
		assert.Empty(t, fd.Fallbacks("fr"))
		res := fd.Resolve(inLang("fr"), inst)
		assert.True(t, res.Equal("Hello"))
		assert.Equal(t, l10n.OriginMessageID, res.Provenance.Origin)
	})
}

func TestDescriptor_NoFallbackConfiguration(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de", "fr"}})
	cat := newCatalog(t, catalog.WithMessages("de", map[string]any{"Hello": "Hallo"}))
	typ := localized(t, r, cat, "title")
	d, _ := l10n.Lookup(typ, "title")

	inst := model.NewInstance(typ, 1)
	require.NoError(t, inst.SetAttr("title_en", "Hello"))
	require.NoError(t, inst.SetAttr("title_de", "Guten Tag"))

	res := d.Resolve(inLang("fr"), inst)
	assert.True(t, res.Equal("Hello"))
	assert.Nil(t, res.Provenance.Fallback)
}

func TestDescriptor_BooleansHaveNoProvenance(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de"}})
	l, err := l10n.NewLocalizer(r)
	require.NoError(t, err)
	typ := model.MustType("news", "flag", &model.Field{Name: "visible", Kind: model.BooleanField})
	require.NoError(t, l.Localize(typ, "visible"))

	inst := model.NewInstance(typ, 1)
	require.NoError(t, inst.SetAttr("visible_en", true))

	d, _ := l10n.Lookup(typ, "visible")
	res := d.Resolve(inLang("de"), inst)
	assert.Equal(t, true, res.Value)
	assert.Nil(t, res.Provenance)
}

func TestDescriptor_WriteOrder(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de"}})
	typ := localized(t, r, nil, "title")

	t.Run("regional code writes primary subtag slot", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.Set(inLang("de-ch"), "title", "Grüezi"))
		assert.Equal(t, "Grüezi", inst.Attr("title_de"))
	})

	t.Run("unknown language writes default slot", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.Set(inLang("ja"), "title", "Hello"))
		assert.Equal(t, "Hello", inst.Attr("title_en"))
	})

	t.Run("resolution values are unwrapped", func(t *testing.T) {
		t.Parallel()

		inst := model.NewInstance(typ, 1)
		require.NoError(t, inst.Set(inLang("de"), "title", l10n.Resolution{Value: "Hallo"}))
		assert.Equal(t, "Hallo", inst.Attr("title_de"))
	})
}

func TestArticleExample(t *testing.T) {
	t.Parallel()

	r := newResolver(t, langcode.Config{Languages: []string{"en", "de"}})
	cat := newCatalog(t, catalog.WithMessages("de", map[string]any{"Hello": "Hallo"}))
	typ := localized(t, r, cat, "title")

	inst := model.NewInstance(typ, 1)
	require.NoError(t, inst.SetAttr("title_en", "Hello"))
	require.NoError(t, inst.SetAttr("body", "text"))

	v, err := inst.Get(inLang("de"), "title")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", v)

	v, err = inst.Get(inLang("en"), "title")
	require.NoError(t, err)
	assert.Equal(t, "Hello", v)

	all := l10n.Resolve(inLang("de"), inst)
	assert.True(t, all["title"].Equal("Hallo"))
}

func TestResolution_Equal(t *testing.T) {
	t.Parallel()

	a := l10n.Resolution{Value: "x", Provenance: &l10n.Provenance{Origin: l10n.OriginCatalog}}
	b := l10n.Resolution{Value: "x", Provenance: &l10n.Provenance{Origin: l10n.OriginDatabase}}

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal("x"))
	assert.False(t, a.Equal("y"))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "x", a.String())
}
