package store

import "errors"

var (
	ErrNotFound     = errors.New("store: instance not found")
	ErrNilInstance  = errors.New("store: nil instance")
	ErrUnknownType  = errors.New("store: unknown type")
	ErrNotRelation  = errors.New("store: field is not a relation")
	ErrHookFailed   = errors.New("store: save hook failed")
	ErrInvalidTable = errors.New("store: invalid table mapping")
)
