package entity

import "errors"

// Sentinels returned by repositories and the lock; use cases translate them.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrLocked        = errors.New("locked by another operation")
)
