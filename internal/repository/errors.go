package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the database.
var ErrNotFound = errors.New("not found")

// ErrLocked is returned when a transactional write finds the version row
// locked under its row lock. Services map it to a governance rejection.
var ErrLocked = errors.New("version is locked")
