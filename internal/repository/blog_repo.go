package repository

import (
	"context"

	"github.com/tubebrief/tubebrief/internal/domain"
	"gorm.io/gorm"
)

// BlogRepository handles blog record data operations.
type BlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new BlogRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *BlogRepository: repository instance bound to db.
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts a new blog record. The composite unique index on
// (user_id, youtube_url) rejects concurrent duplicates at the store level.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - blog: blog record to persist.
// Returns:
//   - error: non-nil if the insert fails, including unique-index conflicts.
func (r *BlogRepository) Create(ctx context.Context, blog *domain.BlogRecord) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

// GetByID retrieves a blog record by its ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: blog record ID.
// Returns:
//   - *domain.BlogRecord: record if found.
//   - error: non-nil if lookup fails.
func (r *BlogRepository) GetByID(ctx context.Context, id string) (*domain.BlogRecord, error) {
	var blog domain.BlogRecord
	if err := r.db.WithContext(ctx).First(&blog, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// GetByUserAndURL retrieves a blog record by owner and video URL.
// Used for the idempotency check before queueing an ingestion.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - youtubeURL: video URL.
// Returns:
//   - *domain.BlogRecord: record if found.
//   - error: non-nil if lookup fails (gorm.ErrRecordNotFound when absent).
func (r *BlogRepository) GetByUserAndURL(ctx context.Context, userID, youtubeURL string) (*domain.BlogRecord, error) {
	var blog domain.BlogRecord
	if err := r.db.WithContext(ctx).
		First(&blog, "user_id = ? AND youtube_url = ?", userID, youtubeURL).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// GetByUserAndTitle retrieves a blog record by owner and video title.
// The query pipeline resolves blogs this way.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
//   - videoTitle: stored video title.
// Returns:
//   - *domain.BlogRecord: record if found.
//   - error: non-nil if lookup fails (gorm.ErrRecordNotFound when absent).
func (r *BlogRepository) GetByUserAndTitle(ctx context.Context, userID, videoTitle string) (*domain.BlogRecord, error) {
	var blog domain.BlogRecord
	if err := r.db.WithContext(ctx).
		First(&blog, "user_id = ? AND video_title = ?", userID, videoTitle).Error; err != nil {
		return nil, err
	}
	return &blog, nil
}

// ListByUser retrieves all blog records owned by a user, newest first.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owning user ID.
// Returns:
//   - []domain.BlogRecord: matching records.
//   - error: non-nil if the query fails.
func (r *BlogRepository) ListByUser(ctx context.Context, userID string) ([]domain.BlogRecord, error) {
	var blogs []domain.BlogRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&blogs).Error; err != nil {
		return nil, err
	}
	return blogs, nil
}
