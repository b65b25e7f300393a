package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/repository"
)

type fakeBlogStore struct {
	mu    sync.Mutex
	blogs map[string]*domain.BlogRecord // keyed by userID|youtubeURL

	createErr error
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{blogs: make(map[string]*domain.BlogRecord)}
}

func (s *fakeBlogStore) key(userID, youtubeURL string) string {
	return userID + "|" + youtubeURL
}

func (s *fakeBlogStore) Create(ctx context.Context, blog *domain.BlogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	k := s.key(blog.UserID, blog.YoutubeURL)
	if _, ok := s.blogs[k]; ok {
		return errors.New("unique constraint violation")
	}
	s.blogs[k] = blog
	return nil
}

func (s *fakeBlogStore) GetByUserAndURL(ctx context.Context, userID, youtubeURL string) (*domain.BlogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if blog, ok := s.blogs[s.key(userID, youtubeURL)]; ok {
		return blog, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeBlogStore) GetByUserAndTitle(ctx context.Context, userID, videoTitle string) (*domain.BlogRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, blog := range s.blogs {
		if blog.UserID == userID && blog.VideoTitle == videoTitle {
			return blog, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEmbedder struct {
	dims   int
	failOn string // substring of text that triggers an error
	mu     sync.Mutex
	calls  int
	inputs []string
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.calls++
	e.inputs = append(e.inputs, text)
	e.mu.Unlock()
	if e.failOn != "" && strings.Contains(text, e.failOn) {
		return nil, errors.New("embedder down")
	}
	return make([]float32, e.dims), nil
}

func (e *fakeEmbedder) Dimensions() int { return e.dims }

type fakeIndex struct {
	mu        sync.Mutex
	upserts   map[string]*repository.VectorPayload
	results   []repository.SearchResult
	searchErr error
	upsertErr error
	failOnID  string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{upserts: make(map[string]*repository.VectorPayload)}
}

func (i *fakeIndex) Upsert(ctx context.Context, vectorID string, vector []float32, payload *repository.VectorPayload) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.upsertErr != nil {
		return i.upsertErr
	}
	if i.failOnID != "" && vectorID == i.failOnID {
		return errors.New("upsert failed")
	}
	i.upserts[vectorID] = payload
	return nil
}

func (i *fakeIndex) Search(ctx context.Context, vector []float32, topK int, filter *repository.SearchFilter) ([]repository.SearchResult, error) {
	if i.searchErr != nil {
		return nil, i.searchErr
	}
	if topK < len(i.results) {
		return i.results[:topK], nil
	}
	return i.results, nil
}

type fakeSummarizer struct {
	result *SummaryResult
	err    error
	calls  int
}

func (s *fakeSummarizer) Summarize(ctx context.Context, youtubeURL string) (*SummaryResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type fakeResolver struct {
	meta *VideoMetadata
}

func (r *fakeResolver) Resolve(ctx context.Context, youtubeURL string) *VideoMetadata {
	if r.meta != nil {
		return r.meta
	}
	return &VideoMetadata{Title: domain.TitleNotFound}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func newTestIngest(blogs *fakeBlogStore, index *fakeIndex, embedder *fakeEmbedder, summarizer *fakeSummarizer) *IngestService {
	return NewIngestService(blogs, index, embedder, summarizer,
		&fakeResolver{meta: &VideoMetadata{Title: "Go Talk", ThumbnailURL: "http://img.youtube.com/vi/abc/0.jpg"}},
		IngestOptions{Workers: 2, ChunkSize: 10})
}

func TestIngest_FullPipeline(t *testing.T) {
	blogs := newFakeBlogStore()
	index := newFakeIndex()
	embedder := &fakeEmbedder{dims: 8}
	summarizer := &fakeSummarizer{result: &SummaryResult{
		Transcript: words(25), // 3 chunks of 10 words
		Summary:    "a tight summary",
	}}

	svc := newTestIngest(blogs, index, embedder, summarizer)

	result, err := svc.Ingest(context.Background(), "user-1", "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if result.ChunkCount != 3 {
		t.Errorf("ChunkCount = %d, want 3", result.ChunkCount)
	}
	if result.IndexedVectors != 4 { // 3 chunks + 1 summary
		t.Errorf("IndexedVectors = %d, want 4", result.IndexedVectors)
	}
	if len(result.FailedVectors) != 0 {
		t.Errorf("FailedVectors = %v, want none", result.FailedVectors)
	}

	blog, err := blogs.GetByUserAndURL(context.Background(), "user-1", "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("blog not persisted: %v", err)
	}
	if blog.VideoTitle != "Go Talk" {
		t.Errorf("VideoTitle = %q", blog.VideoTitle)
	}
	if blog.ComprehensiveSummary != "a tight summary" {
		t.Errorf("ComprehensiveSummary = %q", blog.ComprehensiveSummary)
	}

	// Summary vector keyed by blog id, chunks by blog id + index.
	if p, ok := index.upserts[blog.ID]; !ok {
		t.Error("summary vector not upserted")
	} else if p.Type != domain.VectorTypeSummary {
		t.Errorf("summary vector type = %q", p.Type)
	}
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("%s_%d", blog.ID, i)
		p, ok := index.upserts[id]
		if !ok {
			t.Errorf("chunk vector %s not upserted", id)
			continue
		}
		if p.Type != domain.VectorTypeTranscriptChunk {
			t.Errorf("chunk vector type = %q", p.Type)
		}
		if p.ChunkIndex != i {
			t.Errorf("chunk index = %d, want %d", p.ChunkIndex, i)
		}
		if p.UserID != "user-1" {
			t.Errorf("chunk payload user = %q", p.UserID)
		}
	}
}

func TestIngest_SummarizerFailureCreatesNothing(t *testing.T) {
	blogs := newFakeBlogStore()
	index := newFakeIndex()
	summarizer := &fakeSummarizer{err: errors.New("provider timeout")}

	svc := newTestIngest(blogs, index, &fakeEmbedder{dims: 8}, summarizer)

	_, err := svc.Ingest(context.Background(), "user-1", "https://youtu.be/abc")
	if !errors.Is(err, domain.ErrSummarizationFailed) {
		t.Fatalf("err = %v, want ErrSummarizationFailed", err)
	}
	if len(blogs.blogs) != 0 {
		t.Error("blog persisted despite summarization failure")
	}
	if len(index.upserts) != 0 {
		t.Error("vectors upserted despite summarization failure")
	}
}

func TestIngest_EmptySummarySkipsSummaryVector(t *testing.T) {
	blogs := newFakeBlogStore()
	index := newFakeIndex()
	summarizer := &fakeSummarizer{result: &SummaryResult{
		Transcript: words(10),
		Summary:    "",
	}}

	svc := newTestIngest(blogs, index, &fakeEmbedder{dims: 8}, summarizer)

	result, err := svc.Ingest(context.Background(), "user-1", "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.IndexedVectors != 1 {
		t.Errorf("IndexedVectors = %d, want 1 (chunk only)", result.IndexedVectors)
	}
	if _, ok := index.upserts[result.BlogID]; ok {
		t.Error("summary vector upserted for empty summary")
	}
}

func TestIngest_ChunkFailureDoesNotAbortRun(t *testing.T) {
	blogs := newFakeBlogStore()
	index := newFakeIndex()
	embedder := &fakeEmbedder{dims: 8, failOn: "w15"} // second chunk carries w10..w19
	summarizer := &fakeSummarizer{result: &SummaryResult{
		Transcript: words(30),
		Summary:    "s",
	}}

	svc := newTestIngest(blogs, index, embedder, summarizer)

	result, err := svc.Ingest(context.Background(), "user-1", "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.ChunkCount != 3 {
		t.Fatalf("ChunkCount = %d, want 3", result.ChunkCount)
	}
	if result.IndexedVectors != 3 { // summary + 2 surviving chunks
		t.Errorf("IndexedVectors = %d, want 3", result.IndexedVectors)
	}
	if len(result.FailedVectors) != 1 {
		t.Fatalf("FailedVectors = %v, want exactly one", result.FailedVectors)
	}
	if want := result.BlogID + "_1"; result.FailedVectors[0] != want {
		t.Errorf("failed vector id = %q, want %q", result.FailedVectors[0], want)
	}
}

func TestIngest_IdempotentOnExistingBlog(t *testing.T) {
	blogs := newFakeBlogStore()
	index := newFakeIndex()
	summarizer := &fakeSummarizer{result: &SummaryResult{Transcript: words(5), Summary: "s"}}

	svc := newTestIngest(blogs, index, &fakeEmbedder{dims: 8}, summarizer)

	first, err := svc.Ingest(context.Background(), "user-1", "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	upserts := len(index.upserts)

	second, err := svc.Ingest(context.Background(), "user-1", "https://youtu.be/abc")
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if second.BlogID != first.BlogID {
		t.Errorf("second BlogID = %q, want %q", second.BlogID, first.BlogID)
	}
	if summarizer.calls != 1 {
		t.Errorf("summarizer called %d times, want 1", summarizer.calls)
	}
	if len(index.upserts) != upserts {
		t.Error("re-ingestion touched the index")
	}
}

func TestIngest_ValidatesInput(t *testing.T) {
	svc := newTestIngest(newFakeBlogStore(), newFakeIndex(), &fakeEmbedder{dims: 8}, &fakeSummarizer{})

	for _, tc := range []struct{ userID, url string }{
		{"", "https://youtu.be/abc"},
		{"user-1", ""},
	} {
		if _, err := svc.Ingest(context.Background(), tc.userID, tc.url); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("Ingest(%q, %q) err = %v, want ErrInvalidInput", tc.userID, tc.url, err)
		}
	}
}
