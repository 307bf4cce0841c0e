package cmd_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua"
	"github.com/dmitrymomot/lingua/cmd/lingua/cmd"
	"github.com/dmitrymomot/lingua/pkg/xslt"
)

const siteFile = "../../../internal/testdata/site.yaml"

var echo = xslt.TransformerFunc(func(_ context.Context, doc []byte, _ string, params xslt.Params) ([]byte, error) {
	return append([]byte(params["language"]+"|"), doc...), nil
})

func run(t *testing.T, config, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCommand(lingua.WithTransformer(echo), lingua.WithoutServices())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSerialize(t *testing.T) {
	t.Parallel()

	t.Run("one instance", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, siteFile, "", "serialize", "news.tag", "1", "--lang", "de")
		require.NoError(t, err)
		assert.Contains(t, out, `<object pk="1" model="news.tag">`)
		assert.Contains(t, out, "Sport<")
	})

	t.Run("every instance with selected fields", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, siteFile, "", "serialize", "news.article", "--fields", "title")
		require.NoError(t, err)
		assert.Contains(t, out, `<object pk="2" model="news.article">`)
		assert.NotContains(t, out, `name="body"`)
	})

	t.Run("unknown language", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, siteFile, "", "serialize", "news.tag", "--lang", "fr")
		require.ErrorIs(t, err, cmd.ErrUnknownLanguage)
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, siteFile, "", "serialize", "news.video")
		require.ErrorIs(t, err, lingua.ErrUnknownType)
	})
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("to stdout", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, siteFile, "", "render", "article.xsl", "news.article", "1", "--lang", "de")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "'de'|"))
		assert.Contains(t, out, "Hallo Welt")
	})

	t.Run("draft revision to a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "preview.html")
		out, err := run(t, siteFile, "", "render", "article.xsl", "news.article", "1", "--revision", "r1", "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Hello draft")
	})

	t.Run("upload needs storage", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, siteFile, "", "render", "article.xsl", "news.article", "1", "--upload")
		require.ErrorIs(t, err, cmd.ErrNoStorage)
	})

	t.Run("revision and published exclude each other", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, siteFile, "", "render", "article.xsl", "news.article", "1", "--revision", "r1", "--published")
		require.Error(t, err)
	})
}

func TestCopyLanguage(t *testing.T) {
	t.Parallel()

	t.Run("dry run lists changes", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, siteFile, "", "copy-language", "en", "de", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "title_de")
		assert.Contains(t, out, "name_de")
		assert.NotContains(t, out, "updated")
	})

	t.Run("declined", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, siteFile, "n\n", "copy-language", "en", "de", "--type", "news.tag")
		require.NoError(t, err)
		assert.Contains(t, out, "aborted")
	})

	t.Run("confirmed", func(t *testing.T) {
		t.Parallel()

		out, err := run(t, siteFile, "y\n", "copy-language", "en", "de", "--type", "news.tag")
		require.NoError(t, err)
		assert.Contains(t, out, "1 instances updated")
	})

	t.Run("unknown language", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, siteFile, "", "copy-language", "en", "fr", "--yes")
		require.ErrorIs(t, err, cmd.ErrUnknownLanguage)
	})
}

func TestResetLanguage(t *testing.T) {
	t.Parallel()

	out, err := run(t, siteFile, "", "reset-language", "en", "--type", "news.tag", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "name_en")
	assert.Contains(t, out, "1 instances updated")

	out, err = run(t, siteFile, "", "reset-language", "de", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to change")
}

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tags.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- {model: news.tag, pk: 7, fields: {name: Culture}}\n"), 0o644))

	out, err := run(t, siteFile, "", "load-fixtures", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 objects loaded")

	_, err = run(t, siteFile, "", "load-fixtures", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMakeMessages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	site := `languages: [en, de]
msgid_language: en
locale_dir: locale
fixtures: fixtures.yaml
types:
  - app: news
    name: tag
    localized: [name]
    fields:
      - name: name
`
	fixtures := "- {model: news.tag, pk: 1, fields: {name: Sports}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte(site), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fixtures.yaml"), []byte(fixtures), 0o644))

	out, err := run(t, filepath.Join(dir, "site.yaml"), "", "make-messages")
	require.NoError(t, err)
	assert.Contains(t, out, "1 messages written")

	for _, lang := range []string{"en", "de"} {
		data, err := os.ReadFile(filepath.Join(dir, "locale", lang, "LC_MESSAGES", "django.po"))
		require.NoError(t, err, lang)
		assert.Contains(t, string(data), `msgid "Sports"`)
	}
}

func TestPublishCatalog(t *testing.T) {
	t.Parallel()

	_, err := run(t, siteFile, "", "publish-catalog")
	require.ErrorIs(t, err, cmd.ErrNoCatalogTarget)
}

func TestMissingSiteFile(t *testing.T) {
	t.Parallel()

	_, err := run(t, filepath.Join(t.TempDir(), "site.yaml"), "", "serialize", "news.tag")
	require.Error(t, err)
}
