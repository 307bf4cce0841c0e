package xslt

import (
	"bytes"
	"context"
	"log/slog"
	"maps"
	"os/exec"
	"slices"
	"time"

	"github.com/dmitrymomot/lingua/pkg/logger"
)

// DefaultBinary is the processor Exec runs.
const DefaultBinary = "xsltproc"

// Exec runs xsltproc for every transformation. The document is passed on
// stdin and the result read from stdout.
type Exec struct {
	log     *slog.Logger
	binary  string
	timeout time.Duration
	nonet   bool
}

// ExecOption configures Exec.
type ExecOption func(*Exec)

// WithBinary sets the processor executable.
// Default: "xsltproc"
func WithBinary(path string) ExecOption {
	return func(e *Exec) {
		if path != "" {
			e.binary = path
		}
	}
}

// WithTimeout bounds a single transformation.
// Default: 30 seconds
func WithTimeout(d time.Duration) ExecOption {
	return func(e *Exec) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithNetwork allows stylesheets to fetch DTDs and documents over the
// network.
func WithNetwork() ExecOption {
	return func(e *Exec) {
		e.nonet = false
	}
}

// WithExecLogger sets the logger.
func WithExecLogger(log *slog.Logger) ExecOption {
	return func(e *Exec) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExec creates an Exec transformer.
func NewExec(opts ...ExecOption) *Exec {
	e := &Exec{
		log:     logger.NewNope(),
		binary:  DefaultBinary,
		timeout: 30 * time.Second,
		nonet:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Available reports whether the processor executable can be found.
func (e *Exec) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

func (e *Exec) Transform(ctx context.Context, xml []byte, stylesheet string, params Params) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := make([]string, 0, 2*len(params)+3)
	if e.nonet {
		args = append(args, "--nonet")
	}
	for _, name := range slices.Sorted(maps.Keys(params)) {
		args = append(args, "--param", name, params[name])
	}
	args = append(args, stylesheet, "-")

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = bytes.NewReader(xml)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, &TransformError{Err: err, Stylesheet: stylesheet, Output: stderr.String()}
	}
	if stderr.Len() > 0 {
		e.log.WarnContext(ctx, "xslt processor reported messages",
			slog.String("stylesheet", stylesheet),
			slog.String("output", stderr.String()),
		)
	}
	e.log.DebugContext(ctx, "transformed document",
		slog.String("stylesheet", stylesheet),
		slog.Duration("duration", time.Since(start)),
	)
	return stdout.Bytes(), nil
}
