// Package repository keeps analysis reports and job states.
package repository

import (
	"context"

	"github.com/okian/possession/internal/domain/model"
)

// State is the tracked state of one analysis.
type State struct {
	ID     string
	Status model.JobStatus
	Error  string
}

// Store provides read/write access to analysis results.
type Store interface {
	// Track registers a pending analysis.
	Track(ctx context.Context, id string) error

	// Put stores a finished report under its ID and marks it done.
	Put(ctx context.Context, r model.Report) error

	// Fail marks an analysis as failed with the given cause.
	Fail(ctx context.Context, id string, cause error) error

	// Get returns the report of a finished analysis.
	// Returns ErrNotFound if the analysis is unknown or not done.
	Get(ctx context.Context, id string) (model.Report, error)

	// State returns the current state of an analysis.
	// Returns ErrNotFound if the analysis is unknown.
	State(ctx context.Context, id string) (State, error)

	// Count returns the number of tracked analyses.
	Count(ctx context.Context) int
}
