package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tubebrief/tubebrief/internal/domain"
)

const defaultCompletionTimeout = 60 * time.Second

// CompletionService generates chat completions through an OpenAI-compatible
// chat endpoint. Sampling parameters are fixed per instance.
type CompletionService struct {
	client      *resty.Client
	endpoint    string
	model       string
	temperature float64
	maxTokens   int
}

// CompletionConfig holds configuration for the completion service.
type CompletionConfig struct {
	Model          string
	APIKey         string
	BaseURL        string
	Temperature    float64
	MaxTokens      int
	RequestTimeout time.Duration
}

// NewCompletionService creates a new completion service.
func NewCompletionService(cfg *CompletionConfig) *CompletionService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultCompletionTimeout
	}
	client.SetTimeout(timeout)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &CompletionService{
		client:      client,
		endpoint:    strings.TrimSuffix(baseURL, "/") + "/chat/completions",
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}
}

// GetModel returns the model name being used.
func (s *CompletionService) GetModel() string {
	return s.model
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the prompts to the chat model and returns the trimmed
// completion text.
func (s *CompletionService) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("%w: completion request failed: %v", domain.ErrProviderUnavailable, err)
	}

	if httpResp.StatusCode() != 200 {
		if httpResp.StatusCode() >= 500 || httpResp.StatusCode() == 429 {
			return "", fmt.Errorf("%w: completion API status %d", domain.ErrProviderUnavailable, httpResp.StatusCode())
		}
		if resp.Error != nil {
			return "", fmt.Errorf("completion API error: %s", resp.Error.Message)
		}
		return "", fmt.Errorf("completion API error: status %d", httpResp.StatusCode())
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
