package catalog_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/catalog"
)

const samplePO = `# Translations
msgid ""
msgstr ""
"Language: de\n"
"Content-Type: text/plain; charset=UTF-8\n"

#. news.article.title
#: news.article:1 news.article:2
msgid "Hello"
msgstr "Hallo"

#, fuzzy, python-format
msgctxt "menu"
msgid ""
"Multi\n"
"line"
msgstr "Mehr\nzeilig"

msgid "apple"
msgid_plural "apples"
msgstr[0] "Apfel"
msgstr[1] "Äpfel"

#~ msgid "old"
#~ msgstr "alt"
`

func TestParsePO(t *testing.T) {
	t.Parallel()

	po, err := catalog.ParsePO(strings.NewReader(samplePO))
	require.NoError(t, err)

	assert.Equal(t, "Language: de\nContent-Type: text/plain; charset=UTF-8\n", po.Header)
	require.Len(t, po.Entries, 3)

	hello := po.Entries[0]
	assert.Equal(t, "Hello", hello.Msgid)
	assert.Equal(t, "Hallo", hello.Msgstr)
	assert.Equal(t, []string{"news.article:1", "news.article:2"}, hello.References)
	assert.Equal(t, []string{"news.article.title"}, hello.Comments)
	assert.False(t, hello.Fuzzy())

	multi := po.Entries[1]
	assert.Equal(t, "menu", multi.Context)
	assert.Equal(t, "Multi\nline", multi.Msgid)
	assert.Equal(t, "Mehr\nzeilig", multi.Msgstr)
	assert.True(t, multi.Fuzzy())

	apple := po.Entries[2]
	assert.Equal(t, "apples", apple.MsgidPlural)
	assert.Equal(t, "Apfel", apple.Msgstr)
	assert.Equal(t, []string{"Äpfel"}, apple.MsgstrPlural)

	_, ok := po.Find("old", "")
	assert.False(t, ok)
	require.Len(t, po.Obsolete, 1)
	assert.Equal(t, []string{`#~ msgid "old"`, `#~ msgstr "alt"`}, po.Obsolete[0])
}

const translatedPO = `# German translation.
msgid ""
msgstr ""
"Language: de\n"

# Reviewed by the editors.
#. news.article.title
#: news.article:1
#, fuzzy
#| msgid "Helo"
msgid "Hello"
msgstr "Hallo"

msgid "apple"
msgid_plural "apples"
msgstr[0] "Apfel"
msgstr[1] "Äpfel"

#, fuzzy
#~ msgid "old"
#~ msgstr "alt"
`

func TestPOKeepsTranslatorWork(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, po *catalog.POFile) string {
		t.Helper()
		var b strings.Builder
		_, err := po.WriteTo(&b)
		require.NoError(t, err)
		return b.String()
	}

	t.Run("unchanged file is written as read", func(t *testing.T) {
		t.Parallel()

		po, err := catalog.ParsePO(strings.NewReader(translatedPO))
		require.NoError(t, err)
		assert.Equal(t, translatedPO, write(t, po))
	})

	t.Run("merge keeps plural and obsolete entries", func(t *testing.T) {
		t.Parallel()

		po, err := catalog.ParsePO(strings.NewReader(translatedPO))
		require.NoError(t, err)
		added := po.Merge(
			catalog.POEntry{Msgid: "Hello", References: []string{"news.article:2"}},
			catalog.POEntry{Msgid: "World", References: []string{"news.article:2"}},
		)
		assert.Equal(t, 1, added)

		out := write(t, po)
		assert.Contains(t, out, "# German translation.\nmsgid \"\"\n")
		assert.Contains(t, out, "# Reviewed by the editors.\n#. news.article.title\n#: news.article:1 news.article:2\n#, fuzzy\n#| msgid \"Helo\"\nmsgid \"Hello\"\nmsgstr \"Hallo\"\n")
		assert.Contains(t, out, "msgid \"apple\"\nmsgid_plural \"apples\"\nmsgstr[0] \"Apfel\"\nmsgstr[1] \"Äpfel\"\n")
		assert.Contains(t, out, "#, fuzzy\n#~ msgid \"old\"\n#~ msgstr \"alt\"\n")
		assert.Contains(t, out, "#: news.article:2\nmsgid \"World\"\nmsgstr \"\"\n")

		back, err := catalog.ParsePO(strings.NewReader(out))
		require.NoError(t, err)
		require.Len(t, back.Entries, 3)
		assert.Equal(t, []string{"Reviewed by the editors."}, back.Entries[0].TranslatorComments)
		assert.Equal(t, []string{`msgid "Helo"`}, back.Entries[0].Previous)
		assert.Equal(t, []string{"Äpfel"}, back.Entries[1].MsgstrPlural)
		require.Len(t, back.Obsolete, 1)
	})

	t.Run("plural entries render from fields", func(t *testing.T) {
		t.Parallel()

		po := &catalog.POFile{Header: "Language: de\n"}
		po.Merge(catalog.POEntry{
			TranslatorComments: []string{"checked"},
			Msgid:              "day",
			MsgidPlural:        "days",
			Msgstr:             "Tag",
			MsgstrPlural:       []string{"Tage"},
		})
		assert.Contains(t, write(t, po), "# checked\nmsgid \"day\"\nmsgid_plural \"days\"\nmsgstr[0] \"Tag\"\nmsgstr[1] \"Tage\"\n")
	})
}

func TestParsePOErrors(t *testing.T) {
	t.Parallel()

	_, err := catalog.ParsePO(strings.NewReader("msgid \"a\nmsgstr \"b\"\n"))
	require.ErrorIs(t, err, catalog.ErrInvalidPO)

	_, err = catalog.ParsePO(strings.NewReader("msgfoo \"a\"\n"))
	require.ErrorIs(t, err, catalog.ErrInvalidPO)
}

func TestPOWriteAndMerge(t *testing.T) {
	t.Parallel()

	po := &catalog.POFile{Header: "Language: nl\n"}
	added := po.Merge(
		catalog.POEntry{Msgid: "Hello", References: []string{"a:1"}},
		catalog.POEntry{Msgid: "Hello", References: []string{"a:2"}},
		catalog.POEntry{Msgid: "Say \"hi\"\nnow"},
		catalog.POEntry{Msgid: ""},
	)
	assert.Equal(t, 2, added)

	var b strings.Builder
	_, err := po.WriteTo(&b)
	require.NoError(t, err)

	out := b.String()
	assert.Contains(t, out, "#: a:1 a:2\nmsgid \"Hello\"\nmsgstr \"\"\n")
	assert.Contains(t, out, "msgid \"\"\n\"Say \\\"hi\\\"\\n\"\n\"now\"\n")

	back, err := catalog.ParsePO(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "Language: nl\n", back.Header)
	require.Len(t, back.Entries, 2)
	assert.Equal(t, "Say \"hi\"\nnow", back.Entries[1].Msgid)
}
