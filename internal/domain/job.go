// Package domain contains core domain types for the hiring pipeline.
package domain

import (
	"time"
)

// JobStatus indicates whether a job posting accepts new candidates.
type JobStatus string

const (
	// JobOpen means the posting accepts new candidates.
	JobOpen JobStatus = "open"
	// JobClosed means the posting no longer accepts candidates.
	JobClosed JobStatus = "closed"
)

// Job represents a job posting candidates apply against.
type Job struct {
	JobID       int64     `json:"job_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Embedding   []float64 `json:"-"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsOpen returns true if the job still accepts candidates.
func (j *Job) IsOpen() bool {
	return j.Status == JobOpen
}
