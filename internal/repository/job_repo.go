package repository

import (
	"context"
	"time"

	"github.com/tubebrief/tubebrief/internal/domain"
	"gorm.io/gorm"
)

// JobRepository handles ingest job queue operations.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *JobRepository: repository instance bound to db.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a new ingest job in pending state.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job record to persist.
// Returns:
//   - error: non-nil if the insert fails.
func (r *JobRepository) Create(ctx context.Context, job *domain.IngestJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// GetByID retrieves an ingest job by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: job ID.
// Returns:
//   - *domain.IngestJob: job record if found.
//   - error: non-nil if lookup fails.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.IngestJob, error) {
	var job domain.IngestJob
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// GetPendingByUserAndURL retrieves a queued or running job for the pair, if any.
// Used to avoid enqueueing the same video twice while a job is in flight.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - youtubeURL: video URL.
// Returns:
//   - *domain.IngestJob: job record if found.
//   - error: non-nil if lookup fails (gorm.ErrRecordNotFound when absent).
func (r *JobRepository) GetPendingByUserAndURL(ctx context.Context, userID, youtubeURL string) (*domain.IngestJob, error) {
	var job domain.IngestJob
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND youtube_url = ? AND status IN ?",
			userID, youtubeURL, []domain.JobStatus{domain.JobStatusPending, domain.JobStatusRunning}).
		First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ClaimNextPending atomically claims the oldest pending job and marks it running.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.IngestJob: claimed job, or nil when the queue is empty.
//   - error: non-nil if the claim fails.
func (r *JobRepository) ClaimNextPending(ctx context.Context) (*domain.IngestJob, error) {
	var job domain.IngestJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ?", domain.JobStatusPending).
			Order("created_at ASC").
			First(&job).Error; err != nil {
			return err
		}

		now := time.Now()
		job.Status = domain.JobStatusRunning
		job.StartedAt = &now
		return tx.Save(&job).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &job, nil
}

// MarkCompleted records a successful ingestion outcome on the job.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job record with blog id and vector counters filled in.
// Returns:
//   - error: non-nil if the update fails.
func (r *JobRepository) MarkCompleted(ctx context.Context, job *domain.IngestJob) error {
	now := time.Now()
	job.Status = domain.JobStatusCompleted
	job.CompletedAt = &now
	return r.db.WithContext(ctx).Save(job).Error
}

// MarkFailed records a failed ingestion on the job with its error message.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job record to update.
//   - errMsg: failure description stored in the error log.
// Returns:
//   - error: non-nil if the update fails.
func (r *JobRepository) MarkFailed(ctx context.Context, job *domain.IngestJob, errMsg string) error {
	now := time.Now()
	job.Status = domain.JobStatusFailed
	job.ErrorLog = errMsg
	job.CompletedAt = &now
	return r.db.WithContext(ctx).Save(job).Error
}
