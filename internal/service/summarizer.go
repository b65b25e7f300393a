package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tubebrief/tubebrief/internal/domain"
)

const defaultSummarizerTimeout = 10 * time.Minute

// SummarizerService calls the external summarization service, which runs the
// multi-agent transcript/summary workflow and is treated as a black box here.
type SummarizerService struct {
	client   *resty.Client
	endpoint string
}

// SummarizerConfig holds configuration for the summarizer client.
type SummarizerConfig struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// NewSummarizerService creates a new summarizer client.
func NewSummarizerService(cfg *SummarizerConfig) *SummarizerService {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}

	// Summarization runs agent workflows over full transcripts; it is by far
	// the slowest external call in the pipeline.
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultSummarizerTimeout
	}
	client.SetTimeout(timeout)

	return &SummarizerService{
		client:   client,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/summarize",
	}
}

type summarizeRequest struct {
	YoutubeURL string `json:"youtube_url"`
}

type summarizeResponse struct {
	Transcript string `json:"transcript"`
	Summary    string `json:"summary"`
	Error      string `json:"error,omitempty"`
}

// Summarize requests a transcript and summary for the video.
func (s *SummarizerService) Summarize(ctx context.Context, youtubeURL string) (*SummaryResult, error) {
	var resp summarizeResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(summarizeRequest{YoutubeURL: youtubeURL}).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)

	if err != nil {
		return nil, fmt.Errorf("%w: summarizer request failed: %v", domain.ErrProviderUnavailable, err)
	}

	if httpResp.StatusCode() != 200 {
		if resp.Error != "" {
			return nil, fmt.Errorf("summarizer error: %s", resp.Error)
		}
		return nil, fmt.Errorf("summarizer error: status %d", httpResp.StatusCode())
	}

	if strings.TrimSpace(resp.Transcript) == "" {
		return nil, fmt.Errorf("summarizer returned empty transcript")
	}

	return &SummaryResult{
		Transcript: resp.Transcript,
		Summary:    resp.Summary,
	}, nil
}
