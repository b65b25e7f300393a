package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tubebrief/tubebrief/internal/domain"
)

const defaultEmbeddingTimeout = 30 * time.Second

// EmbeddingService generates text embeddings through an OpenAI-compatible
// embeddings endpoint.
type EmbeddingService struct {
	client     *resty.Client
	endpoint   string
	model      string
	dimensions int
}

// EmbeddingConfig holds configuration for the embedding service.
type EmbeddingConfig struct {
	Model          string
	APIKey         string
	BaseURL        string
	Dimensions     int
	RequestTimeout time.Duration
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg *EmbeddingConfig) *EmbeddingService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultEmbeddingTimeout
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &EmbeddingService{
		client:     client,
		endpoint:   strings.TrimSuffix(baseURL, "/") + "/embeddings",
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}
}

// GetModel returns the model name being used.
func (s *EmbeddingService) GetModel() string {
	return s.model
}

// Dimensions returns the expected embedding length.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// OpenAI embeddings API request/response structures
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Embed generates an embedding for a single text. Blank input is rejected
// before any network call. The returned vector is validated against the
// configured dimension; a mismatched vector is never handed to callers.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text must be non-empty", domain.ErrInvalidInput)
	}

	req := embeddingRequest{
		Model: s.model,
		Input: []string{text},
	}

	var resp embeddingResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("%w: embedding request failed: %v", domain.ErrProviderUnavailable, err)
	}

	if httpResp.StatusCode() != 200 {
		if httpResp.StatusCode() >= 500 || httpResp.StatusCode() == 429 {
			return nil, fmt.Errorf("%w: embedding API status %d", domain.ErrProviderUnavailable, httpResp.StatusCode())
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("embedding API error: %s", resp.Error.Message)
		}
		return nil, fmt.Errorf("embedding API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Data) == 0 {
		return nil, &domain.DimensionMismatchError{Got: 0, Want: s.dimensions}
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != s.dimensions {
		return nil, &domain.DimensionMismatchError{Got: len(embedding), Want: s.dimensions}
	}

	return embedding, nil
}
