package xslt

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrStylesheetNotFound = errors.New("xslt: stylesheet not found")
	ErrTransform          = errors.New("xslt: transformation failed")
	ErrNoTransformer      = errors.New("xslt: no transformer configured")
	ErrUnavailable        = errors.New("xslt: processor not installed")
)

// TransformError carries the diagnostics written by the XSLT processor.
type TransformError struct {
	Err        error
	Stylesheet string
	Output     string
}

func (e *TransformError) Error() string {
	msg := fmt.Sprintf("xslt: transform with %s: %v", e.Stylesheet, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *TransformError) Unwrap() []error { return []error{ErrTransform, e.Err} }
