package model

import "errors"

var (
	ErrEmptyName         = errors.New("model: name cannot be empty")
	ErrDuplicateField    = errors.New("model: duplicate field")
	ErrUnknownField      = errors.New("model: unknown field")
	ErrDuplicateRelation = errors.New("model: duplicate relation")
	ErrTypeRegistered    = errors.New("model: type already registered")
	ErrInvalidValue      = errors.New("model: invalid value")
	ErrRequired          = errors.New("model: value is required")
	ErrTooLong           = errors.New("model: value exceeds max length")
	ErrNoFetcher         = errors.New("model: relation has no fetcher")
	ErrNilType           = errors.New("model: instance has no type")
)
