package service

import (
	"context"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/repository"
)

// EmbeddingProvider generates fixed-dimension embeddings for text.
type EmbeddingProvider interface {
	// Embed returns the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the expected embedding length.
	Dimensions() int
}

// VectorIndex is the similarity-searchable store for embeddings.
// Upsert and Search are independent store RPCs; neither is transactional
// with blog record persistence.
type VectorIndex interface {
	Upsert(ctx context.Context, vectorID string, vector []float32, payload *repository.VectorPayload) error
	Search(ctx context.Context, vector []float32, topK int, filter *repository.SearchFilter) ([]repository.SearchResult, error)
}

// Summarizer produces a transcript and summary for a video.
type Summarizer interface {
	Summarize(ctx context.Context, youtubeURL string) (*SummaryResult, error)
}

// SummaryResult is the output of the summarization service.
type SummaryResult struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
}

// Completer generates a chat completion from a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// MetadataResolver resolves best-effort video metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, youtubeURL string) *VideoMetadata
}

// VideoMetadata holds resolved video page metadata. Title falls back to the
// sentinel value when the page fetch fails.
type VideoMetadata struct {
	Title        string
	ThumbnailURL string
}

// BlogStore is the document-store surface the pipelines need.
// *repository.BlogRepository satisfies it; tests substitute fakes.
type BlogStore interface {
	Create(ctx context.Context, blog *domain.BlogRecord) error
	GetByUserAndURL(ctx context.Context, userID, youtubeURL string) (*domain.BlogRecord, error)
	GetByUserAndTitle(ctx context.Context, userID, videoTitle string) (*domain.BlogRecord, error)
}
