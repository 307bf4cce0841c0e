package xmltree

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/dmitrymomot/lingua/pkg/cache"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
	"github.com/dmitrymomot/lingua/pkg/sanitizer"
	"github.com/dmitrymomot/lingua/pkg/xmlutil"
)

// NotFoundDocument replaces included content that cannot be read.
const NotFoundDocument = "<root>file not found</root>"

// DefaultIncludeInterval is how long remote includes are cached.
const DefaultIncludeInterval = 10 * time.Minute

// DefaultMaxIncludeSize caps the bytes read for one remote or stored include.
const DefaultMaxIncludeSize = 4 << 20

// Getter reads objects from a storage backend. storage.Storage satisfies it.
type Getter interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type fieldConfig struct {
	log      *slog.Logger
	policy   *bluemonday.Policy
	client   *http.Client
	cache    cache.Cache[string]
	markdown goldmark.Markdown
	interval time.Duration
	maxSize  int64
}

// FieldOption configures a custom field serializer.
type FieldOption func(*fieldConfig)

// WithFieldLogger sets the logger of a field serializer.
func WithFieldLogger(log *slog.Logger) FieldOption {
	return func(c *fieldConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPolicy replaces the rich text sanitizer policy.
func WithPolicy(p *bluemonday.Policy) FieldOption {
	return func(c *fieldConfig) {
		c.policy = p
	}
}

// WithHTTPClient sets the client used by RemoteInclude.
func WithHTTPClient(client *http.Client) FieldOption {
	return func(c *fieldConfig) {
		if client != nil {
			c.client = client
		}
	}
}

// WithIncludeCache sets the cache used by RemoteInclude.
func WithIncludeCache(ch cache.Cache[string]) FieldOption {
	return func(c *fieldConfig) {
		if ch != nil {
			c.cache = ch
		}
	}
}

// WithIncludeInterval sets how long a remote include is cached.
// Default: 10 minutes
func WithIncludeInterval(d time.Duration) FieldOption {
	return func(c *fieldConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithMaxIncludeSize caps the bytes read for one include. Larger documents
// are replaced by NotFoundDocument.
func WithMaxIncludeSize(n int64) FieldOption {
	return func(c *fieldConfig) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithMarkdown replaces the goldmark converter used by Markdown.
func WithMarkdown(md goldmark.Markdown) FieldOption {
	return func(c *fieldConfig) {
		if md != nil {
			c.markdown = md
		}
	}
}

func newFieldConfig(opts []FieldOption) *fieldConfig {
	c := &fieldConfig{
		log:      logger.NewNope(),
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: DefaultIncludeInterval,
		maxSize:  DefaultMaxIncludeSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.markdown == nil {
		c.markdown = goldmark.New()
	}
	return c
}

// fieldText reads the field through its descriptor when one is installed.
func fieldText(ctx context.Context, inst *model.Instance, f *model.Field) (string, error) {
	v, err := inst.Get(ctx, f.Name)
	if err != nil {
		return "", err
	}
	return f.Format(v), nil
}

// RawXML copies the value of the field into the document as markup
// instead of escaped text. A value that is not well-formed aborts the
// serialization.
func RawXML() model.FieldSerializer {
	return model.FieldSerializerFunc(func(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer) error {
		text, err := fieldText(ctx, inst, f)
		if err != nil {
			return err
		}
		return xmlutil.CopyFragment(w, text)
	})
}

// RichText sanitizes the HTML value of the field and embeds it wrapped in a
// richtext element. Markup that is still not well-formed after cleaning is
// logged and left out.
func RichText(opts ...FieldOption) model.FieldSerializer {
	cfg := newFieldConfig(opts)
	return model.FieldSerializerFunc(func(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer) error {
		text, err := fieldText(ctx, inst, f)
		if err != nil {
			return err
		}
		return cfg.richText(ctx, inst, f, w, text)
	})
}

// Markdown converts the value of the field with goldmark and embeds the
// result like RichText.
func Markdown(opts ...FieldOption) model.FieldSerializer {
	cfg := newFieldConfig(opts)
	return model.FieldSerializerFunc(func(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer) error {
		text, err := fieldText(ctx, inst, f)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := cfg.markdown.Convert([]byte(text), &buf); err != nil {
			cfg.log.ErrorContext(ctx, "invalid markdown",
				slog.String("instance", inst.String()),
				slog.String("field", f.Name),
				slog.Any("error", err),
			)
			return nil
		}
		return cfg.richText(ctx, inst, f, w, buf.String())
	})
}

func (c *fieldConfig) richText(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer, text string) error {
	clean := sanitizer.SanitizeRichText(text)
	if c.policy != nil {
		clean = sanitizer.SanitizeHTMLCustom(text, c.policy)
	}
	markup, err := sanitizer.XHTML(clean)
	if err == nil {
		markup = "<richtext>" + markup + "</richtext>"
	}
	if err != nil || !xmlutil.IsValid(markup) {
		c.log.ErrorContext(ctx, "invalid xml in rich text",
			slog.String("instance", inst.String()),
			slog.String("field", f.Name),
			slog.String("value", markup),
		)
		return nil
	}
	return xmlutil.CopyFragment(w, markup)
}

// IncludeFile embeds the XML file of fsys named by the field value.
// Missing or malformed files are replaced with NotFoundDocument.
func IncludeFile(fsys fs.FS, opts ...FieldOption) model.FieldSerializer {
	cfg := newFieldConfig(opts)
	return model.FieldSerializerFunc(func(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer) error {
		name, err := fieldText(ctx, inst, f)
		if err != nil {
			return err
		}
		data, err := fs.ReadFile(fsys, strings.TrimPrefix(name, "/"))
		if err != nil {
			cfg.log.WarnContext(ctx, "include file not readable",
				slog.String("field", f.Name),
				slog.String("path", name),
				slog.Any("error", err),
			)
			return xmlutil.CopyFragment(w, NotFoundDocument)
		}
		return cfg.include(ctx, f, w, name, string(data))
	})
}

// RemoteInclude embeds the XML document found at the URL held by the field.
// Responses are cached for the include interval; failed requests are not
// cached and produce NotFoundDocument.
func RemoteInclude(opts ...FieldOption) model.FieldSerializer {
	cfg := newFieldConfig(opts)
	if cfg.cache == nil {
		cfg.cache = cache.NewMemory[string](cache.WithDefaultTTL(cfg.interval))
	}
	return model.FieldSerializerFunc(func(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer) error {
		url, err := fieldText(ctx, inst, f)
		if err != nil {
			return err
		}
		if url == "" {
			return xmlutil.CopyFragment(w, NotFoundDocument)
		}
		body, err := cache.GetOrSet(ctx, cfg.cache, url, func(ctx context.Context) (string, time.Duration, error) {
			data, err := cfg.fetch(ctx, url)
			return data, cfg.interval, err
		})
		if err != nil {
			cfg.log.WarnContext(ctx, "remote include failed",
				slog.String("field", f.Name),
				slog.String("url", url),
				slog.Any("error", err),
			)
			return xmlutil.CopyFragment(w, NotFoundDocument)
		}
		return cfg.include(ctx, f, w, url, body)
	})
}

func (c *fieldConfig) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return readLimited(resp.Body, c.maxSize)
}

func readLimited(r io.Reader, limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrIncludeTooLarge, limit)
	}
	return string(data), nil
}

// StoredInclude embeds the XML object stored under the key held by the
// field, for example an upload kept in S3.
func StoredInclude(store Getter, opts ...FieldOption) model.FieldSerializer {
	cfg := newFieldConfig(opts)
	return model.FieldSerializerFunc(func(ctx context.Context, inst *model.Instance, f *model.Field, w xmlutil.Writer) error {
		key, err := fieldText(ctx, inst, f)
		if err != nil {
			return err
		}
		data, err := readObject(ctx, store, key, cfg.maxSize)
		if err != nil {
			cfg.log.WarnContext(ctx, "stored include not readable",
				slog.String("field", f.Name),
				slog.String("key", key),
				slog.Any("error", err),
			)
			return xmlutil.CopyFragment(w, NotFoundDocument)
		}
		return cfg.include(ctx, f, w, key, data)
	})
}

func readObject(ctx context.Context, store Getter, key string, limit int64) (string, error) {
	if key == "" {
		return "", fs.ErrNotExist
	}
	rc, err := store.Get(ctx, key)
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	return readLimited(rc, limit)
}

func (c *fieldConfig) include(ctx context.Context, f *model.Field, w xmlutil.Writer, source, doc string) error {
	doc = stripDeclaration(doc)
	if !xmlutil.IsValid(doc) {
		c.log.WarnContext(ctx, "included document is not well-formed",
			slog.String("field", f.Name),
			slog.String("source", source),
		)
		doc = NotFoundDocument
	}
	return xmlutil.CopyFragment(w, doc)
}

func stripDeclaration(doc string) string {
	doc = strings.TrimSpace(doc)
	if strings.HasPrefix(doc, "<?xml") {
		if end := strings.Index(doc, "?>"); end >= 0 {
			doc = strings.TrimSpace(doc[end+2:])
		}
	}
	return doc
}
