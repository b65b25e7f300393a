package domain

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Callers classify failures with errors.Is/As;
// pipelines never signal failure through string-typed return values.
var (
	// ErrInvalidInput marks empty or malformed text rejected before any
	// external call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable marks a transient failure (including timeout)
	// of an external model or store call.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrSummarizationFailed aborts an ingestion entirely; no BlogRecord
	// is written when the summarization service fails.
	ErrSummarizationFailed = errors.New("summarization failed")

	// ErrEmptySummary means the summarization service returned a blank
	// summary. The BlogRecord write still happens; only the summary
	// vector is skipped.
	ErrEmptySummary = errors.New("empty summary")

	// ErrBlogNotFound means no BlogRecord exists for the requested
	// (user, video) pair.
	ErrBlogNotFound = errors.New("blog not found")

	// ErrNoRelevantContent means the vector index returned zero matches
	// for a valid blog; the completion model is never called in that case.
	ErrNoRelevantContent = errors.New("no relevant content")

	// ErrAnswerGenerationFailed marks a completion-model failure while
	// producing an answer.
	ErrAnswerGenerationFailed = errors.New("answer generation failed")
)

// DimensionMismatchError reports an embedding whose length does not match
// the configured model dimension. Such vectors are never written to the index.
type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: got %d, expected %d", e.Got, e.Want)
}
