package repository

import "errors"

// Sentinel kinds for report store errors.
var (
	ErrNotFound    = errors.New("analysis not found")
	ErrInvalidID   = errors.New("invalid analysis id")
	ErrStoreClosed = errors.New("report store closed")
)
