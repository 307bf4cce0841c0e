package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/lingua/pkg/langcode"
	"github.com/dmitrymomot/lingua/pkg/logger"
	"github.com/dmitrymomot/lingua/pkg/model"
)

const (
	// DefaultDomain is the PO file name without extension.
	DefaultDomain = "messages"

	// DefaultLockWait bounds how long a writer waits for another process to
	// release a catalog file.
	DefaultLockWait = 30 * time.Second

	lockRetryDelay = 50 * time.Millisecond
)

// Writer keeps gettext PO files in sync with the message ids stored in
// localized fields. One file per language is written to
// {dir}/{locale}/LC_MESSAGES/{domain}.po. Each file is guarded by an
// exclusive file lock so several processes can save concurrently.
type Writer struct {
	resolver *langcode.Resolver
	log      *slog.Logger
	now      func() time.Time
	types    map[string]bool
	dir      string
	domain   string
	lockWait time.Duration
	mu       sync.RWMutex
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithDomain sets the PO file name.
func WithDomain(domain string) WriterOption {
	return func(w *Writer) {
		if domain != "" {
			w.domain = domain
		}
	}
}

// WithLockWait bounds the wait for a locked catalog file.
func WithLockWait(d time.Duration) WriterOption {
	return func(w *Writer) {
		if d > 0 {
			w.lockWait = d
		}
	}
}

// WithWriterLogger sets the logger.
func WithWriterLogger(log *slog.Logger) WriterOption {
	return func(w *Writer) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, resolver *langcode.Resolver, opts ...WriterOption) *Writer {
	w := &Writer{
		resolver: resolver,
		log:      logger.NewNope(),
		now:      time.Now,
		types:    make(map[string]bool),
		dir:      dir,
		domain:   DefaultDomain,
		lockWait: DefaultLockWait,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register enables catalog generation for saves of the given types.
func (w *Writer) Register(types ...*model.Type) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range types {
		w.types[t.Label()] = true
	}
}

// Unregister disables catalog generation for the given types.
func (w *Writer) Unregister(types ...*model.Type) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range types {
		delete(w.types, t.Label())
	}
}

// Registered reports whether saves of t update the catalogs.
func (w *Writer) Registered(t *model.Type) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return t != nil && w.types[t.Label()]
}

// Path returns the PO file of lang.
func (w *Writer) Path(lang string) string {
	return filepath.Join(w.dir, LocaleFromLanguage(lang), "LC_MESSAGES", w.domain+".po")
}

// HandleSave is a save hook. It adds the message ids of inst to every
// catalog, but only on the master site, only for registered types and only
// while the default language is active. Instances carrying a "language"
// attribute in another language are skipped.
func (w *Writer) HandleSave(ctx context.Context, inst *model.Instance) error {
	if !w.resolver.IsMasterSite() || !w.Registered(inst.Type) {
		return nil
	}
	def := w.resolver.DefaultLanguage()
	if w.resolver.Active(ctx) != def {
		return nil
	}
	if inst.HasAttr("language") {
		if lang, ok := inst.Attr("language").(string); ok && lang != "" && lang != def {
			return nil
		}
	}

	entries := Messages(inst, w.resolver.MsgidLanguage())
	if len(entries) == 0 {
		return nil
	}
	return w.Write(ctx, entries)
}

// Write merges entries into the catalog of every site language.
func (w *Writer) Write(ctx context.Context, entries []POEntry) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, lang := range w.resolver.Languages() {
		g.Go(func() error {
			return w.writeLanguage(ctx, lang, entries)
		})
	}
	return g.Wait()
}

func (w *Writer) writeLanguage(ctx context.Context, lang string, entries []POEntry) error {
	path := w.Path(lang)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating locale dir: %w", err)
	}

	lock := flock.New(path + ".lock")
	lockCtx, cancel := context.WithTimeout(ctx, w.lockWait)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil || !locked {
		if ctx.Err() == nil && (err == nil || errors.Is(err, context.DeadlineExceeded)) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}
		return fmt.Errorf("locking %s: %w", path, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			w.log.WarnContext(ctx, "failed to release catalog lock", slog.String("path", path), slog.String("error", err.Error()))
		}
	}()

	po, err := w.read(path, lang)
	if err != nil {
		return err
	}
	added := po.Merge(entries...)

	if err := writeAtomic(path, po); err != nil {
		return err
	}

	w.log.InfoContext(ctx, "catalog updated",
		slog.String("language", lang),
		slog.String("path", path),
		slog.Int("added", added),
	)
	return nil
}

func (w *Writer) read(path, lang string) (*POFile, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &POFile{Header: w.header(lang)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	po, err := ParsePO(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return po, nil
}

func (w *Writer) header(lang string) string {
	now := w.now().Format("2006-01-02 15:04-0700")
	return "Project-Id-Version: lingua\n" +
		"POT-Creation-Date: " + now + "\n" +
		"PO-Revision-Date: " + now + "\n" +
		"Last-Translator: anonymous <anonymous@example.com>\n" +
		"Language-Team: anonymous <anonymous@example.com>\n" +
		"Language: " + LocaleFromLanguage(lang) + "\n" +
		"MIME-Version: 1.0\n" +
		"Content-Type: text/plain; charset=UTF-8\n" +
		"Content-Transfer-Encoding: 8bit\n"
}

func writeAtomic(path string, po *POFile) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".po-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := po.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}

// Messages returns one PO entry per valid message id stored in the localized
// fields of inst. The reference points at the instance ("news.article:1").
func Messages(inst *model.Instance, msgidLang string) []POEntry {
	if inst == nil || inst.Type == nil {
		return nil
	}
	ref := fmt.Sprintf("%s:%v", inst.Type.Label(), inst.PK)

	var out []POEntry
	for _, name := range inst.Type.LocalizedFields() {
		v := inst.Attr(langcode.RealFieldName(name, msgidLang))
		if model.IsEmpty(v) {
			continue
		}
		f, _ := inst.Type.Field(langcode.RealFieldName(name, msgidLang))
		msgid := model.FormatValue(kindOf(f), v)
		if !Translatable(msgid) {
			continue
		}
		out = append(out, POEntry{
			Msgid:      msgid,
			References: []string{ref},
			Comments:   []string{inst.Type.Label() + "." + name},
		})
	}
	return out
}

func kindOf(f *model.Field) model.Kind {
	if f == nil {
		return model.CharField
	}
	return f.DeclaredType()
}
