package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/logger"
	"github.com/tubebrief/tubebrief/internal/prompts"
	"github.com/tubebrief/tubebrief/internal/repository"
)

const defaultTopK = 5

// AnswerService runs the question-answering pipeline: resolve the blog by
// title, retrieve the most relevant transcript chunks for the query, and
// generate a grounded answer.
type AnswerService struct {
	blogs     BlogStore
	index     VectorIndex
	embedder  EmbeddingProvider
	completer Completer
	topK      int
}

// NewAnswerService creates a new query pipeline. topK bounds the retrieved
// transcript chunks; non-positive values use the default.
func NewAnswerService(blogs BlogStore, index VectorIndex, embedder EmbeddingProvider, completer Completer, topK int) *AnswerService {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &AnswerService{
		blogs:     blogs,
		index:     index,
		embedder:  embedder,
		completer: completer,
		topK:      topK,
	}
}

// Answer responds to a user question about one of their ingested videos.
// The video is identified by its stored title. Retrieval is scoped to the
// asking user's transcript chunks for that exact video; no other user's
// content can leak into the context.
func (s *AnswerService) Answer(ctx context.Context, userID, videoTitle, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("%w: query must be non-empty", domain.ErrInvalidInput)
	}
	if userID == "" || strings.TrimSpace(videoTitle) == "" {
		return "", fmt.Errorf("%w: user id and video title are required", domain.ErrInvalidInput)
	}

	ctx = logger.WithFields(ctx, logger.Fields{logger.FieldUserID: userID})

	blog, err := s.blogs.GetByUserAndTitle(ctx, userID, videoTitle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: no blog for title %q", domain.ErrBlogNotFound, videoTitle)
		}
		return "", fmt.Errorf("resolve blog: %w", err)
	}

	ctx = logger.WithFields(ctx, logger.Fields{logger.FieldBlogID: blog.ID})
	start := time.Now()

	queryVector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	filter := &repository.SearchFilter{
		UserID:     userID,
		YoutubeURL: blog.YoutubeURL,
		Type:       domain.VectorTypeTranscriptChunk,
	}
	results, err := s.index.Search(ctx, queryVector, s.topK, filter)
	if err != nil {
		return "", fmt.Errorf("vector search: %w", err)
	}

	if len(results) == 0 {
		return "", fmt.Errorf("%w: no transcript chunks matched", domain.ErrNoRelevantContent)
	}

	// Results arrive in descending similarity order; the prompt keeps it.
	chunks := make([]string, 0, len(results))
	for _, r := range results {
		if r.Payload == nil || r.Payload.Text == "" {
			continue
		}
		chunks = append(chunks, r.Payload.Text)
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: matched vectors carried no text", domain.ErrNoRelevantContent)
	}

	prompt := prompts.BuildAnswerPrompt(query, blog.ComprehensiveSummary, chunks)

	answer, err := s.completer.Complete(ctx, prompts.AnswerSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAnswerGenerationFailed, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned empty answer", domain.ErrAnswerGenerationFailed)
	}

	logger.With(logger.Fields{
		logger.FieldCount:      len(chunks),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "answer generated")

	return answer, nil
}
