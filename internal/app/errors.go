package service

import (
	"errors"

	"github.com/okian/possession/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrBackpressure = errors.New("analysis queue is full")
	ErrPending      = errors.New("analysis pending")
	ErrFailed       = errors.New("analysis failed")
	ErrNotFound     = repository.ErrNotFound
)
