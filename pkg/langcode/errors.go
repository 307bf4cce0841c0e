package langcode

import "errors"

var (
	ErrNoLanguages      = errors.New("langcode: at least one language must be configured")
	ErrInvalidLanguage  = errors.New("langcode: invalid language code")
	ErrUnknownLanguage  = errors.New("langcode: language is not configured")
	ErrInvalidFallbacks = errors.New("langcode: invalid fallback configuration")
)
