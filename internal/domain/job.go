package domain

import "time"

// JobStatus represents the status of an ingest job.
// Values include JobStatusPending, JobStatusRunning, JobStatusCompleted, and JobStatusFailed.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IngestJob represents one queued video ingestion and its progress metadata.
// One job corresponds to one (user, video) ingestion; the worker binary polls
// pending jobs and records the outcome here for the task-status endpoint.
type IngestJob struct {
	ID             string     `gorm:"type:text;primaryKey" json:"id"`
	UserID         string     `gorm:"type:text;not null;index" json:"user_id"`
	YoutubeURL     string     `gorm:"type:text;not null" json:"youtube_url"`
	Status         JobStatus  `gorm:"default:pending;index" json:"status"`
	BlogID         string     `gorm:"type:text" json:"blog_id,omitempty"`
	ChunkCount     int        `gorm:"default:0" json:"chunk_count"`
	IndexedVectors int        `gorm:"default:0" json:"indexed_vectors"`
	FailedVectors  int        `gorm:"default:0" json:"failed_vectors"`
	ErrorLog       string     `json:"error_log,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the database table name for IngestJob.
func (IngestJob) TableName() string {
	return "ingest_jobs"
}
