package redis

import "errors"

// Connection and health faults surfaced by this package.
var (
	ErrEmptyConnectionURL = errors.New("redis: connection URL is empty")
	ErrFailedToParseURL   = errors.New("redis: cannot parse connection URL")
	ErrConnectionFailed   = errors.New("redis: connection failed")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
