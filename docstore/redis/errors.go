package redis

import (
	"errors"
)

// Errors returned while setting up a Redis store
var (
	// ErrInvalidRedisOptions is returned when the configuration has no address
	ErrInvalidRedisOptions = errors.New("invalid Redis options")

	// ErrNilClient is returned when New is given no client
	ErrNilClient = errors.New("redis client cannot be nil")

	// ErrRedisCommandFailed wraps failing Redis commands
	ErrRedisCommandFailed = errors.New("redis command failed")
)
