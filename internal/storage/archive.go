package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// TranscriptStore archives raw transcripts as plain-text objects, keyed by
// blog id. The database keeps its own copy of the transcript; the archive is
// the durable raw artifact for reprocessing and export.
type TranscriptStore struct {
	storage ObjectStorage
}

// NewTranscriptStore creates a transcript archive on top of an object store.
func NewTranscriptStore(storage ObjectStorage) *TranscriptStore {
	return &TranscriptStore{storage: storage}
}

// TranscriptKey returns the object key for a blog's transcript.
func TranscriptKey(blogID string) string {
	return fmt.Sprintf("transcripts/%s.txt", blogID)
}

// Archive stores the transcript and returns its object key.
func (t *TranscriptStore) Archive(ctx context.Context, blogID, transcript string) (string, error) {
	key := TranscriptKey(blogID)
	reader := strings.NewReader(transcript)
	if err := t.storage.Upload(ctx, key, reader, int64(len(transcript)), "text/plain; charset=utf-8"); err != nil {
		return "", fmt.Errorf("archive transcript %s: %w", blogID, err)
	}
	return key, nil
}

// Fetch retrieves an archived transcript by blog id.
func (t *TranscriptStore) Fetch(ctx context.Context, blogID string) (string, error) {
	body, err := t.storage.Download(ctx, TranscriptKey(blogID))
	if err != nil {
		return "", fmt.Errorf("fetch transcript %s: %w", blogID, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", blogID, err)
	}
	return string(data), nil
}
