package db

import "errors"

var (
	ErrParseConfig       = errors.New("db: failed to parse connection config")
	ErrOpenConnection    = errors.New("db: failed to open connection")
	ErrSetDialect        = errors.New("db migrator: failed to set dialect")
	ErrApplyMigrations   = errors.New("db migrator: failed to apply migrations")
	ErrHealthcheckFailed = errors.New("db: healthcheck failed")
)
