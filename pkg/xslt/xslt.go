package xslt

import (
	"context"
	"strings"
)

// Params are stylesheet parameters. Values are XPath expressions; wrap
// literal strings with PrepareStringParam.
type Params map[string]string

// Transformer applies an XSLT stylesheet to an XML document.
type Transformer interface {
	Transform(ctx context.Context, xml []byte, stylesheet string, params Params) ([]byte, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(ctx context.Context, xml []byte, stylesheet string, params Params) ([]byte, error)

func (fn TransformerFunc) Transform(ctx context.Context, xml []byte, stylesheet string, params Params) ([]byte, error) {
	return fn(ctx, xml, stylesheet, params)
}

// PrepareStringParam quotes s so the processor reads it as a string
// literal instead of an XPath expression.
func PrepareStringParam(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "&apos;") + "'"
}
