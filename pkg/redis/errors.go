package redis

import "errors"

var (
	ErrNoURL       = errors.New("redis: url is not set")
	ErrInvalidURL  = errors.New("redis: invalid url, want redis:// or rediss://")
	ErrUnreachable = errors.New("redis: server did not answer")
	ErrUnhealthy   = errors.New("redis: ping failed")
)
