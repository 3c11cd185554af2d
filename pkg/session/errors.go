package session

import "errors"

var (
	ErrNotConfigured  = errors.New("session: not configured")
	ErrNotStarted     = errors.New("session: not started for this request")
	ErrAlreadyStarted = errors.New("session: already started for this request")
	ErrUnknownDriver  = errors.New("session: unknown driver")
	ErrMissingKey     = errors.New("session: application key required by driver")
	ErrMissingDB      = errors.New("session: database pool required by driver")
	ErrMissingRedis   = errors.New("session: redis client required by driver")
	ErrMissingServers = errors.New("session: memcache servers required by driver")
	ErrMissingPath    = errors.New("session: storage path required by driver")
	ErrNotFound       = errors.New("session: record not found")
	ErrExpired        = errors.New("session: record expired")
	ErrEncode         = errors.New("session: failed to encode record")
	ErrDecode         = errors.New("session: failed to decode record")
)
