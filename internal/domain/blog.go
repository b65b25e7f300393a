package domain

import "time"

// VectorType labels what a vector entry represents.
// Values are stored verbatim in the Qdrant payload "type" field.
type VectorType string

const (
	VectorTypeSummary         VectorType = "summary"
	VectorTypeTranscriptChunk VectorType = "transcript_chunk"
)

// TitleNotFound is the sentinel title used when video metadata resolution fails.
// Metadata enrichment is best-effort and must never abort an ingestion.
const TitleNotFound = "Title not found"

// BlogRecord represents the persisted result of ingesting one video for one user.
// Records are immutable after creation; the composite unique index on
// (user_id, youtube_url) guarantees at most one record per pair even under
// concurrent duplicate submissions.
type BlogRecord struct {
	ID                   string    `gorm:"type:text;primaryKey" json:"id"`
	UserID               string    `gorm:"type:text;not null;uniqueIndex:idx_blogs_user_url" json:"user_id"`
	YoutubeURL           string    `gorm:"type:text;not null;uniqueIndex:idx_blogs_user_url" json:"youtube_url"`
	VideoTitle           string    `gorm:"type:text;index:idx_blogs_title" json:"video_title"`
	Transcript           string    `gorm:"type:text" json:"transcript"`
	ComprehensiveSummary string    `gorm:"type:text" json:"comprehensive_summary"`
	ThumbnailURL         string    `gorm:"type:text" json:"thumbnail_url"`
	TranscriptKey        string    `gorm:"type:text" json:"transcript_key,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName returns the database table name for BlogRecord.
func (BlogRecord) TableName() string {
	return "blogs"
}
