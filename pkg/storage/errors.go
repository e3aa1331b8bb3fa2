package storage

import "errors"

// since these errors are allocated at init time, it is better to leave them as
// normal errors instead of errors that have stack encoded.
var (
	// ErrNotFound if the record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCollision if an item already exists within the store.
	ErrCollision = errors.New("item already exists")

	// ErrInvalidContinuationToken if the pagination cursor does not identify
	// a record in the listing it was issued for.
	ErrInvalidContinuationToken = errors.New("invalid continuation token")

	// ErrCancelled if the request context was cancelled mid-operation.
	ErrCancelled = errors.New("request has been cancelled")
)
