// Package jobs defines the background job model and the queue
// abstractions the API server uses to process receipts asynchronously.
package jobs

import (
	"context"
	"time"
)

// JobType identifies what a job does.
type JobType string

const (
	// JobTypeParseReceipt is a receipt image parsing job.
	JobTypeParseReceipt JobType = "parse_receipt"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// ParseReceiptJob asks a worker to run the receipt pipeline for one
// uploaded receipt.
type ParseReceiptJob struct {
	JobID     string `json:"job_id"`
	ReceiptID string `json:"receipt_id"`
	UserID    string `json:"user_id"`
	GCSURI    string `json:"gcs_uri"`

	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error holds the last failure message when Status is failed or
	// retrying.
	Error      string `json:"error,omitempty"`
	RetryCount int    `json:"retry_count"`
	MaxRetries int    `json:"max_retries"`
}

// Job is the generic view handlers receive.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *ParseReceiptJob) GetID() string        { return j.JobID }
func (j *ParseReceiptJob) GetType() JobType     { return JobTypeParseReceipt }
func (j *ParseReceiptJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues jobs. The abstraction allows swapping the
// in-memory queue for Cloud Tasks or Pub/Sub later.
type Publisher interface {
	PublishParseReceipt(ctx context.Context, job *ParseReceiptJob) error
	Close() error
}

// Consumer drains jobs from a queue and hands them to a handler.
type Consumer interface {
	// Start begins consuming. The handler is called for each job; a
	// returned error marks the job failed and eligible for retry.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs to finish.
	Stop(ctx context.Context) error
}

// JobHandler processes one job.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job state so handlers can expose it over the API.
type JobStore interface {
	SaveJob(ctx context.Context, job *ParseReceiptJob) error
	GetJob(ctx context.Context, jobID string) (*ParseReceiptJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*ParseReceiptJob, error)
}

// JobFilter narrows ListJobs results.
type JobFilter struct {
	ReceiptID string
	UserID    string
	Status    JobStatus
	Limit     int
	Offset    int
}
