package grammar

import "errors"

var (
	ErrEmptyBatch          = errors.New("insert batch has no rows")
	ErrInconsistentColumns = errors.New("insert rows have different columns")
	ErrInvalidRange        = errors.New("limit and offset must be non-negative")
	ErrUnsupportedLock     = errors.New("lock mode not supported by dialect")
	ErrUnknownDialect      = errors.New("unknown dialect")
)
