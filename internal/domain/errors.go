package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("session record not found")
	ErrInvalidRecord  = errors.New("session record is invalid")
	ErrNoCredential   = errors.New("no credential available")
	ErrCacheMiss      = errors.New("content not cached")
)
