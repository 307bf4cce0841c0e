package xmlutil

import "errors"

var (
	ErrInvalidName         = errors.New("xmlutil: invalid element name")
	ErrUnbalanced          = errors.New("xmlutil: unbalanced element")
	ErrMalformedFragment   = errors.New("xmlutil: malformed xml fragment")
	ErrDocumentNotFinished = errors.New("xmlutil: document has open elements")
)
