package db

import "errors"

var (
	ErrNoURL       = errors.New("db: database url is not set")
	ErrInvalidURL  = errors.New("db: invalid database url")
	ErrUnreachable = errors.New("db: database did not answer")
	ErrUnhealthy   = errors.New("db: ping failed")
	ErrMigrate     = errors.New("db: migration failed")
)
