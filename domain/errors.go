package domain

import "errors"

var (
	UnexpectedDatabaseError = errors.New("unexpected-database-error")
	ErrNoWords              = errors.New("no-words")
)
