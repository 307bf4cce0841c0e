package model_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/model"
)

func TestNewType(t *testing.T) {
	t.Parallel()

	t.Run("label and order", func(t *testing.T) {
		t.Parallel()
		typ, err := model.NewType("news", "article",
			&model.Field{Name: "title", Kind: model.CharField},
			&model.Field{Name: "body", Kind: model.TextField},
		)
		require.NoError(t, err)
		assert.Equal(t, "news.article", typ.Label())

		names := make([]string, 0, 2)
		for _, f := range typ.Fields() {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"title", "body"}, names)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()
		_, err := model.NewType("news", "article", &model.Field{Name: "a"}, &model.Field{Name: "a"})
		require.ErrorIs(t, err, model.ErrDuplicateField)
	})

	t.Run("rejects empty names", func(t *testing.T) {
		t.Parallel()
		_, err := model.NewType("", "article")
		require.ErrorIs(t, err, model.ErrEmptyName)
	})
}

func TestInstance(t *testing.T) {
	t.Parallel()

	typ := model.MustType("news", "article",
		&model.Field{Name: "title", Required: true, MaxLength: 5},
		&model.Field{Name: "views", Kind: model.IntegerField, HasDefault: true, Default: 0},
	)

	inst := model.NewInstance(typ, 1)
	assert.Equal(t, 0, inst.Attr("views"))
	assert.Equal(t, "news.article(1)", inst.String())

	require.ErrorIs(t, inst.Validate(), model.ErrRequired)
	require.NoError(t, inst.Set(context.Background(), "title", "toolong"))
	require.ErrorIs(t, inst.Validate(), model.ErrTooLong)
	require.NoError(t, inst.SetAttr("title", "ok"))
	require.NoError(t, inst.Validate())

	v, err := inst.Get(context.Background(), "title")
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	require.ErrorIs(t, inst.SetAttr("missing", 1), model.ErrUnknownField)
	_, err = inst.Get(context.Background(), "missing")
	require.ErrorIs(t, err, model.ErrUnknownField)
}

func TestFieldParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind model.Kind
		text string
		want any
	}{
		{model.CharField, "hello", "hello"},
		{model.IntegerField, "42", 42},
		{model.FloatField, "1.5", 1.5},
		{model.BooleanField, "true", true},
		{model.DateField, "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			f := &model.Field{Name: "f", Kind: tt.kind}
			got, err := f.Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&model.Field{Name: "n", Kind: model.IntegerField}).Parse("x")
	require.ErrorIs(t, err, model.ErrInvalidValue)

	assert.Equal(t, "True", model.FormatValue(model.BooleanField, true))
	assert.Equal(t, "False", model.FormatValue(model.BooleanField, false))
	assert.Equal(t, "2024-02-29", model.FormatValue(model.DateField, time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "7", model.FormatValue(model.IntegerField, 7))
	assert.Empty(t, model.FormatValue(model.CharField, nil))
}

func TestFieldClone(t *testing.T) {
	t.Parallel()

	t.Run("empty fallbacks stay empty", func(t *testing.T) {
		t.Parallel()

		f := &model.Field{Name: "title", Fallbacks: []string{}}
		c := f.Clone()
		assert.NotNil(t, c.Fallbacks)
		assert.Empty(t, c.Fallbacks)
	})

	t.Run("unset fallbacks stay unset", func(t *testing.T) {
		t.Parallel()

		c := (&model.Field{Name: "title"}).Clone()
		assert.Nil(t, c.Fallbacks)
		assert.Nil(t, c.ExtraAttrs)
	})

	t.Run("copies are independent", func(t *testing.T) {
		t.Parallel()

		f := &model.Field{
			Name:       "title",
			Fallbacks:  []string{"de"},
			ExtraAttrs: map[string]string{"role": "heading"},
		}
		c := f.Clone()
		c.Fallbacks[0] = "fr"
		c.ExtraAttrs["role"] = "lead"
		assert.Equal(t, []string{"de"}, f.Fallbacks)
		assert.Equal(t, "heading", f.ExtraAttrs["role"])
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	a := model.MustType("app", "b")
	b := model.MustType("app", "a")
	reg, err := model.NewRegistry(a, b)
	require.NoError(t, err)

	got, ok := reg.Lookup("app.b")
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, []*model.Type{b, a}, reg.Types())
	require.ErrorIs(t, reg.Register(a), model.ErrTypeRegistered)
}
