package config

import "errors"

var (
	ErrRead          = errors.New("config: failed to read site file")
	ErrParse         = errors.New("config: failed to parse site file")
	ErrInvalid       = errors.New("config: invalid site configuration")
	ErrUnknownKind   = errors.New("config: unknown field kind")
	ErrUnknownTarget = errors.New("config: unknown relation target")
)
