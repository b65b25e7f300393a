package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tubebrief/tubebrief/internal/chunker"
	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/logger"
	"github.com/tubebrief/tubebrief/internal/repository"
)

// TranscriptArchive stores raw transcripts outside the database. Archival is
// best-effort and never blocks ingestion.
type TranscriptArchive interface {
	Archive(ctx context.Context, blogID, transcript string) (string, error)
}

// IngestResult reports what a completed ingestion produced. A run can
// succeed with some vectors missing; FailedVectors lists them.
type IngestResult struct {
	BlogID         string   `json:"blog_id"`
	ChunkCount     int      `json:"chunk_count"`
	IndexedVectors int      `json:"indexed_vectors"`
	FailedVectors  []string `json:"failed_vectors,omitempty"`
}

// IngestService runs the video ingestion pipeline: summarize, persist the
// blog record, then enrich the vector index with summary and chunk
// embeddings. The blog write is the durability checkpoint; vector failures
// after it degrade the result instead of failing the run.
type IngestService struct {
	blogs      BlogStore
	index      VectorIndex
	embedder   EmbeddingProvider
	summarizer Summarizer
	metadata   MetadataResolver
	archive    TranscriptArchive
	workers    int
	chunkSize  int
}

// IngestOptions configures the ingestion pipeline.
type IngestOptions struct {
	// Workers bounds the concurrent chunk embed+upsert operations.
	Workers int

	// ChunkSize is the transcript chunk size in words.
	ChunkSize int

	// Archive is optional; nil disables transcript archival.
	Archive TranscriptArchive
}

// NewIngestService creates a new ingestion pipeline.
func NewIngestService(blogs BlogStore, index VectorIndex, embedder EmbeddingProvider, summarizer Summarizer, metadata MetadataResolver, opts IngestOptions) *IngestService {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultChunkSize
	}
	return &IngestService{
		blogs:      blogs,
		index:      index,
		embedder:   embedder,
		summarizer: summarizer,
		metadata:   metadata,
		archive:    opts.Archive,
		workers:    workers,
		chunkSize:  chunkSize,
	}
}

// Ingest processes one video for one user. It is idempotent on
// (userID, youtubeURL): re-running for an already ingested video returns the
// existing blog without touching the index.
func (s *IngestService) Ingest(ctx context.Context, userID, youtubeURL string) (*IngestResult, error) {
	if userID == "" || youtubeURL == "" {
		return nil, fmt.Errorf("%w: user id and youtube url are required", domain.ErrInvalidInput)
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldUserID:   userID,
		logger.FieldVideoURL: youtubeURL,
	})

	if existing, err := s.blogs.GetByUserAndURL(ctx, userID, youtubeURL); err == nil {
		logger.CtxInfo(ctx, "video already ingested, blog %s", existing.ID)
		return &IngestResult{BlogID: existing.ID}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing blog: %w", err)
	}

	start := time.Now()

	summary, err := s.summarizer.Summarize(ctx, youtubeURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSummarizationFailed, err)
	}
	if summary.Summary == "" {
		logger.CtxWarn(ctx, "indexing transcript only: %v", domain.ErrEmptySummary)
	}

	meta := s.metadata.Resolve(ctx, youtubeURL)

	blog := &domain.BlogRecord{
		ID:                   uuid.New().String(),
		UserID:               userID,
		YoutubeURL:           youtubeURL,
		VideoTitle:           meta.Title,
		Transcript:           summary.Transcript,
		ComprehensiveSummary: summary.Summary,
		ThumbnailURL:         meta.ThumbnailURL,
	}

	if s.archive != nil {
		if key, err := s.archive.Archive(ctx, blog.ID, summary.Transcript); err != nil {
			logger.CtxWarn(ctx, "transcript archive failed: %v", err)
		} else {
			blog.TranscriptKey = key
		}
	}

	if err := s.blogs.Create(ctx, blog); err != nil {
		// A concurrent run for the same (user, url) may have won the unique
		// index race; treat its record as ours.
		if existing, getErr := s.blogs.GetByUserAndURL(ctx, userID, youtubeURL); getErr == nil {
			logger.CtxInfo(ctx, "concurrent ingestion won, blog %s", existing.ID)
			return &IngestResult{BlogID: existing.ID}, nil
		}
		return nil, fmt.Errorf("persist blog record: %w", err)
	}

	ctx = logger.WithFields(ctx, logger.Fields{logger.FieldBlogID: blog.ID})
	logger.CtxInfo(ctx, "blog record persisted, enriching index")

	chunks := chunker.Chunk(summary.Transcript, s.chunkSize)
	result := &IngestResult{
		BlogID:     blog.ID,
		ChunkCount: len(chunks),
	}

	var indexed int64
	var failedMu sync.Mutex
	var failed []string

	recordFailure := func(vectorID string, err error) {
		logger.CtxError(ctx, "vector %s failed: %v", vectorID, err)
		failedMu.Lock()
		failed = append(failed, vectorID)
		failedMu.Unlock()
	}

	if summary.Summary != "" {
		if err := s.indexVector(ctx, blog, domain.VectorTypeSummary, 0, summary.Summary); err != nil {
			recordFailure(blog.ID, err)
		} else {
			atomic.AddInt64(&indexed, 1)
		}
	}

	type chunkJob struct {
		index int
		text  string
	}

	jobs := make(chan chunkJob, len(chunks))
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				vectorID := fmt.Sprintf("%s_%d", blog.ID, job.index)
				if err := s.indexVector(ctx, blog, domain.VectorTypeTranscriptChunk, job.index, job.text); err != nil {
					recordFailure(vectorID, err)
					continue
				}
				atomic.AddInt64(&indexed, 1)
			}
		}()
	}

	for i, chunk := range chunks {
		jobs <- chunkJob{index: i, text: chunk}
	}
	close(jobs)
	wg.Wait()

	result.IndexedVectors = int(atomic.LoadInt64(&indexed))
	result.FailedVectors = failed

	logger.With(logger.Fields{
		logger.FieldBlogID:     blog.ID,
		logger.FieldCount:      result.IndexedVectors,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "ingestion complete, %d/%d vectors indexed",
		result.IndexedVectors, result.ChunkCount+summaryVectorCount(summary.Summary))

	return result, nil
}

func summaryVectorCount(summary string) int {
	if summary == "" {
		return 0
	}
	return 1
}

// indexVector embeds one text and upserts it. The vector id doubles as the
// point identity, so retries replace rather than duplicate.
func (s *IngestService) indexVector(ctx context.Context, blog *domain.BlogRecord, vectorType domain.VectorType, chunkIndex int, text string) error {
	vectorID := blog.ID
	if vectorType == domain.VectorTypeTranscriptChunk {
		vectorID = fmt.Sprintf("%s_%d", blog.ID, chunkIndex)
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	payload := &repository.VectorPayload{
		VectorID:   vectorID,
		UserID:     blog.UserID,
		YoutubeURL: blog.YoutubeURL,
		VideoTitle: blog.VideoTitle,
		Type:       vectorType,
		ChunkIndex: chunkIndex,
		Text:       text,
	}

	if err := s.index.Upsert(ctx, vectorID, vector, payload); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}
