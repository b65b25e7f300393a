package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/repository"
)

type fakeCompleter struct {
	answer string
	err    error
	calls  int

	lastSystem string
	lastUser   string
}

func (c *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.calls++
	c.lastSystem = systemPrompt
	c.lastUser = userPrompt
	if c.err != nil {
		return "", c.err
	}
	return c.answer, nil
}

func seedBlog(t *testing.T, blogs *fakeBlogStore) *domain.BlogRecord {
	t.Helper()
	blog := &domain.BlogRecord{
		ID:                   "blog-1",
		UserID:               "user-1",
		YoutubeURL:           "https://youtu.be/abc",
		VideoTitle:           "Go Talk",
		ComprehensiveSummary: "the summary",
	}
	if err := blogs.Create(context.Background(), blog); err != nil {
		t.Fatalf("seed blog: %v", err)
	}
	return blog
}

func chunkResult(id, text string, score float32) repository.SearchResult {
	return repository.SearchResult{
		ID:    id,
		Score: score,
		Payload: &repository.VectorPayload{
			VectorID: id,
			UserID:   "user-1",
			Type:     domain.VectorTypeTranscriptChunk,
			Text:     text,
		},
	}
}

func TestAnswer_FullPipeline(t *testing.T) {
	blogs := newFakeBlogStore()
	seedBlog(t, blogs)

	index := newFakeIndex()
	index.results = []repository.SearchResult{
		chunkResult("blog-1_2", "best match", 0.91),
		chunkResult("blog-1_0", "second match", 0.85),
	}

	completer := &fakeCompleter{answer: "  the answer  "}
	svc := NewAnswerService(blogs, index, &fakeEmbedder{dims: 8}, completer, 5)

	answer, err := svc.Answer(context.Background(), "user-1", "Go Talk", "what is it about?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q, want trimmed completion", answer)
	}

	if completer.lastSystem != "You are an expert answer generator." {
		t.Errorf("system prompt = %q", completer.lastSystem)
	}
	if !strings.Contains(completer.lastUser, "the summary") {
		t.Error("prompt missing blog summary")
	}
	if !strings.Contains(completer.lastUser, "best match\n\nsecond match") {
		t.Error("prompt chunks not in similarity order")
	}
	if !strings.Contains(completer.lastUser, "Question: what is it about?") {
		t.Error("prompt missing question")
	}
}

func TestAnswer_BlogNotFound(t *testing.T) {
	blogs := newFakeBlogStore()
	embedder := &fakeEmbedder{dims: 8}
	completer := &fakeCompleter{answer: "x"}
	svc := NewAnswerService(blogs, newFakeIndex(), embedder, completer, 5)

	_, err := svc.Answer(context.Background(), "user-1", "Unknown Title", "q")
	if !errors.Is(err, domain.ErrBlogNotFound) {
		t.Fatalf("err = %v, want ErrBlogNotFound", err)
	}
	if embedder.calls != 0 {
		t.Error("query embedded before blog resolution")
	}
	if completer.calls != 0 {
		t.Error("completion called for missing blog")
	}
}

func TestAnswer_TitleIsScopedToUser(t *testing.T) {
	blogs := newFakeBlogStore()
	seedBlog(t, blogs)

	svc := NewAnswerService(blogs, newFakeIndex(), &fakeEmbedder{dims: 8}, &fakeCompleter{}, 5)

	_, err := svc.Answer(context.Background(), "user-2", "Go Talk", "q")
	if !errors.Is(err, domain.ErrBlogNotFound) {
		t.Fatalf("another user's title resolved: err = %v", err)
	}
}

func TestAnswer_NoRelevantContent(t *testing.T) {
	blogs := newFakeBlogStore()
	seedBlog(t, blogs)

	completer := &fakeCompleter{answer: "x"}
	svc := NewAnswerService(blogs, newFakeIndex(), &fakeEmbedder{dims: 8}, completer, 5)

	_, err := svc.Answer(context.Background(), "user-1", "Go Talk", "q")
	if !errors.Is(err, domain.ErrNoRelevantContent) {
		t.Fatalf("err = %v, want ErrNoRelevantContent", err)
	}
	if completer.calls != 0 {
		t.Error("completion called with no retrieved context")
	}
}

func TestAnswer_EmptyQuery(t *testing.T) {
	blogs := newFakeBlogStore()
	seedBlog(t, blogs)

	embedder := &fakeEmbedder{dims: 8}
	svc := NewAnswerService(blogs, newFakeIndex(), embedder, &fakeCompleter{}, 5)

	for _, query := range []string{"", "   "} {
		if _, err := svc.Answer(context.Background(), "user-1", "Go Talk", query); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("query %q: err = %v, want ErrInvalidInput", query, err)
		}
	}
	if embedder.calls != 0 {
		t.Error("blank query reached the embedder")
	}
}

func TestAnswer_CompletionFailure(t *testing.T) {
	blogs := newFakeBlogStore()
	seedBlog(t, blogs)

	index := newFakeIndex()
	index.results = []repository.SearchResult{chunkResult("blog-1_0", "chunk", 0.9)}

	completer := &fakeCompleter{err: errors.New("model overloaded")}
	svc := NewAnswerService(blogs, index, &fakeEmbedder{dims: 8}, completer, 5)

	_, err := svc.Answer(context.Background(), "user-1", "Go Talk", "q")
	if !errors.Is(err, domain.ErrAnswerGenerationFailed) {
		t.Fatalf("err = %v, want ErrAnswerGenerationFailed", err)
	}
}

func TestAnswer_TopKBoundsRetrieval(t *testing.T) {
	blogs := newFakeBlogStore()
	seedBlog(t, blogs)

	index := newFakeIndex()
	for i := 0; i < 10; i++ {
		index.results = append(index.results, chunkResult("blog-1_"+string(rune('0'+i)), "chunk", 0.9))
	}

	completer := &fakeCompleter{answer: "x"}
	svc := NewAnswerService(blogs, index, &fakeEmbedder{dims: 8}, completer, 3)

	if _, err := svc.Answer(context.Background(), "user-1", "Go Talk", "q"); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got := strings.Count(completer.lastUser, "chunk"); got != 3 {
		t.Errorf("prompt carries %d chunks, want 3", got)
	}
}
