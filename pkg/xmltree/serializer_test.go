package xmltree_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/lingua/pkg/l10n"
	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/xmltree"
)

const prolog = `<?xml version="1.0" encoding="utf-8"?><collection version="1.0">`

func related(insts ...*model.Instance) model.FetcherFunc {
	return func(context.Context, *model.Instance) ([]*model.Instance, error) {
		return insts, nil
	}
}

func newInstance(t *testing.T, typ *model.Type, pk any, values map[string]any) *model.Instance {
	t.Helper()
	inst := model.NewInstance(typ, pk)
	for k, v := range values {
		require.NoError(t, inst.SetAttr(k, v))
	}
	return inst
}

func TestSerializer_Serialize(t *testing.T) {
	t.Parallel()

	t.Run("one object with one field", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article", &model.Field{Name: "title"})
		inst := newInstance(t, typ, 1, map[string]any{"title": "Hello"})

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		assert.Equal(t, prolog+
			`<object pk="1" model="news.article"><field name="title" type="CharField">Hello</field></object>`+
			"</collection>\n", string(out))
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		out, err := xmltree.New().Serialize(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, prolog+"</collection>\n", string(out))
	})

	t.Run("field kinds", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article",
			&model.Field{Name: "title"},
			&model.Field{Name: "published", Kind: model.BooleanField},
			&model.Field{Name: "views", Kind: model.IntegerField},
			&model.Field{Name: "secret", SkipSerialize: true},
		)
		inst := newInstance(t, typ, 3, map[string]any{
			"title":     "a < b & c",
			"published": true,
			"views":     42,
			"secret":    "hidden",
		})

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `<field name="title" type="CharField">a &lt; b &amp; c</field>`)
		assert.Contains(t, doc, `<field name="published" type="BooleanField">True</field>`)
		assert.Contains(t, doc, `<field name="views" type="IntegerField">42</field>`)
		assert.NotContains(t, doc, "secret")
	})

	t.Run("missing value is None", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article", &model.Field{Name: "subtitle"})
		inst := newInstance(t, typ, 1, nil)

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		assert.Contains(t, string(out), `<field name="subtitle" type="CharField"><None/></field>`)
	})

	t.Run("foreign key", func(t *testing.T) {
		t.Parallel()

		user := model.MustType("auth", "user", &model.Field{Name: "name"})
		typ := model.MustType("news", "article",
			&model.Field{Name: "author", Kind: model.ForeignKey, To: "auth.user"},
			&model.Field{Name: "editor", Kind: model.ForeignKey, To: "auth.user"},
		)
		inst := newInstance(t, typ, 1, map[string]any{
			"author": newInstance(t, user, 9, nil),
			"editor": nil,
		})

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `<field name="author" type="ForeignKey" rel="ManyToOneRel" to="auth.user">9</field>`)
		assert.Contains(t, doc, `<field name="editor" type="ForeignKey" rel="ManyToOneRel" to="auth.user"><None/></field>`)
	})

	t.Run("extra attributes use dotted names", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article", &model.Field{
			Name:       "meta_title",
			ExtraAttrs: map[string]string{"widget": "short", "help": "seo"},
		})
		inst := newInstance(t, typ, 1, map[string]any{"meta_title": "x"})

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		assert.Contains(t, string(out), `<field name="meta.title" type="CharField" help="seo" widget="short">x</field>`)
	})

	t.Run("extra attributes cannot rename the field", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article", &model.Field{
			Name:       "meta_title",
			ExtraAttrs: map[string]string{"name": "headline", "type": "TitleField"},
		})
		inst := newInstance(t, typ, 1, map[string]any{"meta_title": "x"})

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		assert.Contains(t, string(out), `<field name="meta.title" type="TitleField">x</field>`)
		assert.NotContains(t, string(out), "headline")
	})

	t.Run("reverse foreign key children nest in order", func(t *testing.T) {
		t.Parallel()

		para := model.MustType("news", "paragraph", &model.Field{Name: "text"})
		p1 := newInstance(t, para, 10, map[string]any{"text": "first"})
		p2 := newInstance(t, para, 11, map[string]any{"text": "second"})

		typ := model.MustType("news", "article", &model.Field{Name: "title"})
		require.NoError(t, typ.AddRelation(&model.Relation{
			Name:   "paragraphs",
			Target: "news.paragraph",
			Kind:   model.ReverseForeignKey,
			Fetch:  related(p1, p2),
		}))
		inst := newInstance(t, typ, 1, map[string]any{"title": "Hello"})

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		assert.Equal(t, prolog+
			`<object pk="1" model="news.article">`+
			`<field name="title" type="CharField">Hello</field>`+
			`<object pk="10" model="news.paragraph"><field name="text" type="CharField">first</field></object>`+
			`<object pk="11" model="news.paragraph"><field name="text" type="CharField">second</field></object>`+
			`</object></collection>`+"\n", string(out))
	})

	t.Run("skipped reverse relation is not followed", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article")
		require.NoError(t, typ.AddRelation(&model.Relation{
			Name:          "revisions",
			Kind:          model.ReverseForeignKey,
			SkipSerialize: true,
			Fetch: model.FetcherFunc(func(context.Context, *model.Instance) ([]*model.Instance, error) {
				return nil, errors.New("must not be called")
			}),
		}))

		_, err := xmltree.New().Serialize(context.Background(), []*model.Instance{model.NewInstance(typ, 1)})
		require.NoError(t, err)
	})

	t.Run("many to many wraps related objects", func(t *testing.T) {
		t.Parallel()

		tag := model.MustType("news", "tag", &model.Field{Name: "label"})
		typ := model.MustType("news", "article")
		require.NoError(t, typ.AddRelation(&model.Relation{
			Name:   "tags",
			Target: "news.tag",
			Kind:   model.ManyToMany,
			Fetch:  related(newInstance(t, tag, 5, map[string]any{"label": "go"})),
		}))

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{model.NewInstance(typ, 1)})
		require.NoError(t, err)
		assert.Contains(t, string(out),
			`<field name="tags" rel="ManyToManyRel" to="news.tag"><object pk="5" model="news.tag">`+
				`<field name="label" type="CharField">go</field></object></field>`)
	})

	t.Run("selected fields", func(t *testing.T) {
		t.Parallel()

		tag := model.MustType("news", "tag")
		typ := model.MustType("news", "article", &model.Field{Name: "title"}, &model.Field{Name: "body"})
		require.NoError(t, typ.AddRelation(&model.Relation{
			Name: "tags", Target: "news.tag", Kind: model.ManyToMany, Fetch: related(model.NewInstance(tag, 5)),
		}))
		inst := newInstance(t, typ, 1, map[string]any{"title": "t", "body": "b"})

		out, err := xmltree.New(xmltree.WithFields("body")).Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `name="body"`)
		assert.NotContains(t, doc, `name="title"`)
		assert.NotContains(t, doc, `name="tags"`)
	})

	t.Run("indent", func(t *testing.T) {
		t.Parallel()

		typ := model.MustType("news", "article", &model.Field{Name: "title"})
		inst := newInstance(t, typ, 1, map[string]any{"title": "Hello"})

		out, err := xmltree.New(xmltree.WithIndent("  ")).Serialize(context.Background(), []*model.Instance{inst})
		require.NoError(t, err)
		assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?>`+"\n"+
			`<collection version="1.0">`+"\n"+
			`  <object pk="1" model="news.article">`+"\n"+
			`    <field name="title" type="CharField">Hello</field>`+"\n"+
			`  </object>`+"\n"+
			`</collection>`+"\n", string(out))
	})

	t.Run("custom root element", func(t *testing.T) {
		t.Parallel()

		out, err := xmltree.New(xmltree.WithRootElement("django-objects")).Serialize(context.Background(), nil)
		require.NoError(t, err)
		assert.Contains(t, string(out), `<django-objects version="1.0"></django-objects>`)
	})

	t.Run("nil instance", func(t *testing.T) {
		t.Parallel()

		_, err := xmltree.New().Serialize(context.Background(), []*model.Instance{nil})
		require.ErrorIs(t, err, xmltree.ErrNilInstance)
	})
}

func TestSerializer_Relations(t *testing.T) {
	t.Parallel()

	t.Run("fetch errors abort", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		typ := model.MustType("news", "article")
		require.NoError(t, typ.AddRelation(&model.Relation{
			Name: "paragraphs",
			Kind: model.ReverseForeignKey,
			Fetch: model.FetcherFunc(func(context.Context, *model.Instance) ([]*model.Instance, error) {
				return nil, boom
			}),
		}))

		var buf bytes.Buffer
		err := xmltree.New().Encode(context.Background(), &buf, []*model.Instance{model.NewInstance(typ, 1)})
		require.ErrorIs(t, err, xmltree.ErrRelation)
		require.ErrorIs(t, err, boom)
		assert.Zero(t, buf.Len())
	})

	t.Run("generic relations are always followed", func(t *testing.T) {
		t.Parallel()

		block := model.MustType("pages", "block")
		typ := model.MustType("pages", "page")
		require.NoError(t, typ.AddRelation(&model.Relation{
			Name:          "blocks",
			Kind:          model.Generic,
			SkipSerialize: true,
			Fetch:         related(model.NewInstance(block, 2)),
		}))

		out, err := xmltree.New().Serialize(context.Background(), []*model.Instance{model.NewInstance(typ, 1)})
		require.NoError(t, err)
		assert.Contains(t, string(out), `<object pk="2" model="pages.block"></object>`)
	})

	t.Run("many to many cycle trips the guard", func(t *testing.T) {
		t.Parallel()

		tag := model.MustType("news", "tag")
		self := model.NewInstance(tag, 1)
		require.NoError(t, tag.AddRelation(&model.Relation{
			Name:   "similar",
			Target: "news.tag",
			Kind:   model.ManyToMany,
			Fetch:  related(self),
		}))

		var buf bytes.Buffer
		err := xmltree.New(xmltree.WithMaxDepth(3)).Encode(context.Background(), &buf, []*model.Instance{self})
		require.Error(t, err)
		assert.True(t, xmltree.IsRecursionLimit(err))
		assert.Zero(t, buf.Len())

		var limit *xmltree.RecursionLimitError
		require.ErrorAs(t, err, &limit)
		assert.Equal(t, "similar", limit.Relation)
		assert.Equal(t, "news.tag", limit.From)
		assert.Equal(t, "news.tag", limit.To)
		assert.Equal(t, 3, limit.Depth)
	})

	t.Run("guard is per call", func(t *testing.T) {
		t.Parallel()

		// a chain two levels deep fits exactly under a ceiling of two
		leaf := model.MustType("news", "leaf")
		mid := model.MustType("news", "mid")
		root := model.MustType("news", "root")
		require.NoError(t, mid.AddRelation(&model.Relation{
			Name: "leaves", Target: "news.leaf", Kind: model.ManyToMany, Fetch: related(model.NewInstance(leaf, 3)),
		}))
		require.NoError(t, root.AddRelation(&model.Relation{
			Name: "mids", Target: "news.mid", Kind: model.ManyToMany, Fetch: related(model.NewInstance(mid, 2)),
		}))

		s := xmltree.New(xmltree.WithMaxDepth(2))
		insts := []*model.Instance{model.NewInstance(root, 1), model.NewInstance(root, 2)}

		var g errgroup.Group
		for range 32 {
			g.Go(func() error {
				_, err := s.Serialize(context.Background(), insts)
				return err
			})
		}
		require.NoError(t, g.Wait())
	})
}

func TestSerializer_Localized(t *testing.T) {
	t.Parallel()

	r, err := langcode.New(langcode.Config{Languages: []string{"en", "de"}})
	require.NoError(t, err)
	l, err := l10n.NewLocalizer(r)
	require.NoError(t, err)

	typ := model.MustType("news", "article", &model.Field{Name: "title"}, &model.Field{Name: "slug"})
	require.NoError(t, l.Localize(typ, "title"))

	inst := newInstance(t, typ, 1, map[string]any{"title_en": "Hello", "title_de": "Hallo", "slug": "hello"})

	t.Run("active language value", func(t *testing.T) {
		t.Parallel()

		ctx := langcode.WithContext(context.Background(), "de")
		out, err := xmltree.New().Serialize(ctx, []*model.Instance{inst})
		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `<field name="title" type="CharField">Hallo</field>`)
		assert.NotContains(t, doc, "title_en")
		assert.NotContains(t, doc, "title_de")
	})

	t.Run("localized only", func(t *testing.T) {
		t.Parallel()

		ctx := langcode.WithContext(context.Background(), "en")
		out, err := xmltree.New(xmltree.WithLocalizedOnly()).Serialize(ctx, []*model.Instance{inst})
		require.NoError(t, err)
		doc := string(out)
		assert.Contains(t, doc, `<field name="title" type="CharField">Hello</field>`)
		assert.NotContains(t, doc, `name="slug"`)
	})
}

func TestChain(t *testing.T) {
	t.Parallel()

	typ := model.MustType("news", "article")
	a, b, c := model.NewInstance(typ, 1), model.NewInstance(typ, 2), model.NewInstance(typ, 3)

	got := xmltree.Chain([]*model.Instance{a}, nil, []*model.Instance{b, c})
	assert.Equal(t, []*model.Instance{a, b, c}, got)

	out, err := xmltree.New().Serialize(context.Background(), got)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(out), "<object "))
}
