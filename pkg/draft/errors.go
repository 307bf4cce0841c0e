package draft

import "errors"

var (
	ErrRevisionNotFound  = errors.New("draft: revision not found")
	ErrMalformedDocument = errors.New("draft: malformed document")
)
