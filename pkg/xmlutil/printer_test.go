package xmlutil_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/xmlutil"
)

func TestPrinter(t *testing.T) {
	t.Parallel()

	t.Run("writes escaped elements", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		p := xmlutil.NewPrinter(&buf)

		require.NoError(t, p.StartDocument())
		require.NoError(t, p.StartDocument())
		require.NoError(t, p.StartElement("field", xmlutil.Attr{Name: "name", Value: `a"b`}))
		require.NoError(t, p.Characters("1 < 2 & 3"))
		require.NoError(t, p.EndElement("field"))
		require.NoError(t, p.EndDocument())

		assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?><field name="a&#34;b">1 &lt; 2 &amp; 3</field>`+"\n", buf.String())
	})

	t.Run("empty element", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		p := xmlutil.NewPrinter(&buf)
		require.NoError(t, p.AddEmptyElement("None"))
		assert.Equal(t, "<None/>", buf.String())
	})

	t.Run("indents nested elements", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		p := xmlutil.NewPrinter(&buf, xmlutil.WithIndent("  "))
		require.NoError(t, p.StartElement("object"))
		require.NoError(t, p.StartElement("field"))
		require.NoError(t, p.Characters("x"))
		require.NoError(t, p.EndElement("field"))
		require.NoError(t, p.EndElement("object"))
		assert.Equal(t, "<object>\n  <field>x</field>\n</object>", buf.String())
	})

	t.Run("rejects mismatched end", func(t *testing.T) {
		t.Parallel()
		p := xmlutil.NewPrinter(&bytes.Buffer{})
		require.NoError(t, p.StartElement("a"))
		require.ErrorIs(t, p.EndElement("b"), xmlutil.ErrUnbalanced)
		require.ErrorIs(t, p.EndDocument(), xmlutil.ErrDocumentNotFinished)
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		t.Parallel()
		p := xmlutil.NewPrinter(&bytes.Buffer{})
		require.ErrorIs(t, p.StartElement("1abc"), xmlutil.ErrInvalidName)
		require.ErrorIs(t, p.StartElement("a", xmlutil.Attr{Name: "bad name"}), xmlutil.ErrInvalidName)
	})
}
