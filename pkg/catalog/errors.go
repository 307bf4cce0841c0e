package catalog

import "errors"

var (
	ErrEmptyLanguage = errors.New("catalog: language cannot be empty")
	ErrInvalidFile   = errors.New("catalog: invalid translation file")
	ErrInvalidPO     = errors.New("catalog: invalid po file")
	ErrLockTimeout   = errors.New("catalog: timed out waiting for catalog lock")
	ErrNilCatalog    = errors.New("catalog: catalog cannot be nil")
	ErrLoadFailed    = errors.New("catalog: failed to load messages")
	ErrSaveFailed    = errors.New("catalog: failed to save messages")
)
