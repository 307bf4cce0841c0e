package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSite_Handler(t *testing.T) {
	t.Parallel()

	h := newSite(t, nil).Handler()

	get := func(t *testing.T, target string, headers ...string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("object in the language of the path prefix", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/de/xml/news.article/1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "de", rec.Header().Get("Content-Language"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		body := rec.Body.String()
		assert.Contains(t, body, `<object pk="1" model="news.article">`)
		assert.Contains(t, body, `<field name="title" type="CharField">Hallo Welt</field>`)
		assert.Contains(t, body, "<b>bold</b>")
		assert.Contains(t, body, "<sidebar>")
		assert.Contains(t, body, `<object pk="10" model="news.paragraph">`)
		assert.Contains(t, body, `<object pk="1" model="news.tag">`)
		assert.Contains(t, body, "Sport<")
	})

	t.Run("language from Accept-Language", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/xml/news.article/1", "Accept-Language", "de-CH, en;q=0.5")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Hallo Welt")
	})

	t.Run("default language", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/xml/news.article/1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "en", rec.Header().Get("Content-Language"))
		assert.Contains(t, rec.Body.String(), "Hello world")
	})

	t.Run("every instance of a type", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/xml/news.article")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<object pk="1" model="news.article">`)
		assert.Contains(t, rec.Body.String(), `<object pk="2" model="news.article">`)
	})

	t.Run("selected fields", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/xml/news.article/1?fields=title")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="title"`)
		assert.NotContains(t, rec.Body.String(), `name="body"`)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		for _, target := range []string{
			"/xml/news.video",
			"/xml/news.article/99",
			"/render/missing.xsl/news.article/1",
		} {
			assert.Equal(t, http.StatusNotFound, get(t, target).Code, target)
		}
	})

	t.Run("render", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/de/render/article.xsl/news.article/1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "'de'|")
		assert.Contains(t, rec.Body.String(), "Hallo Welt")
	})

	t.Run("render draft revision", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/render/article.xsl/news.article/1?revision=r1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Hello draft")
	})

	t.Run("render published only", func(t *testing.T) {
		t.Parallel()

		rec := get(t, "/render/article.xsl/news.article/2?published=1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "Unfinished")

		rec = get(t, "/render/article.xsl/news.article/2")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Unfinished")
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, http.StatusOK, get(t, "/health/live").Code)
		assert.Equal(t, http.StatusOK, get(t, "/health/ready").Code)
	})

	t.Run("feed preflight", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/xml/news.article", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
