package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type fakeObjectStorage struct {
	objects   map[string][]byte
	uploadErr error
}

func newFakeObjectStorage() *fakeObjectStorage {
	return &fakeObjectStorage{objects: make(map[string][]byte)}
}

func (f *fakeObjectStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NotFound")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjectStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeObjectStorage) EnsureBucket(ctx context.Context) error { return nil }

func TestTranscriptKey(t *testing.T) {
	if got := TranscriptKey("blog-1"); got != "transcripts/blog-1.txt" {
		t.Errorf("TranscriptKey = %q", got)
	}
}

func TestArchiveAndFetch(t *testing.T) {
	store := NewTranscriptStore(newFakeObjectStorage())

	key, err := store.Archive(context.Background(), "blog-1", "the full transcript")
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if key != "transcripts/blog-1.txt" {
		t.Errorf("key = %q", key)
	}

	got, err := store.Fetch(context.Background(), "blog-1")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got != "the full transcript" {
		t.Errorf("Fetch = %q", got)
	}
}

func TestArchive_UploadError(t *testing.T) {
	fake := newFakeObjectStorage()
	fake.uploadErr = errors.New("bucket gone")
	store := NewTranscriptStore(fake)

	if _, err := store.Archive(context.Background(), "blog-1", "text"); err == nil {
		t.Fatal("expected upload error to propagate")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://minio.local:9000", "minio.local:9000"},
		{"http://minio.local:9000/", "minio.local:9000"},
		{"minio.local:9000/some/path", "minio.local:9000"},
		{"s3.amazonaws.com", "s3.amazonaws.com"},
	}
	for _, tt := range tests {
		if got := normalizeEndpoint(tt.in); got != tt.want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
