package db

import "errors"

// Connection, migration, and transaction faults surfaced by this package.
var (
	ErrEmptyConnectionString = errors.New("db: connection string is empty")
	ErrFailedToParseConfig   = errors.New("db: cannot parse pool config")
	ErrConnectionFailed      = errors.New("db: connection failed")
	ErrHealthcheckFailed     = errors.New("db: healthcheck failed")
	ErrMigrationFailed       = errors.New("db: migration failed")
	ErrNilPool               = errors.New("db: connection pool is nil")
	ErrBeginTx               = errors.New("db: cannot begin transaction")
	ErrCommitTx              = errors.New("db: cannot commit transaction")
)
