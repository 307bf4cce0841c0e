package internal

import "errors"

var (
	ErrNilConfig      = errors.New("lingua: nil site configuration")
	ErrUnknownType    = errors.New("lingua: unknown type")
	ErrNoIncludeDir   = errors.New("lingua: include serializer needs include_dirs")
	ErrNoStorage      = errors.New("lingua: stored serializer needs storage")
	ErrInvalidFixture = errors.New("lingua: invalid fixture")
)
