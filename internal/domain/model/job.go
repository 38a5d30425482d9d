package model

import "time"

// JobStatus is the lifecycle state of an asynchronous analysis.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is a queued request to analyse a set of frames.
type Job struct {
	ID        string
	Frames    []Frame
	Submitted time.Time
}
