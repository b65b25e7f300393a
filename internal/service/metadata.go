package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tubebrief/tubebrief/internal/domain"
	"github.com/tubebrief/tubebrief/internal/logger"
)

const defaultMetadataTimeout = 10 * time.Second

// MetadataService resolves video titles and thumbnails. Resolution is
// best-effort: a failed lookup yields the title sentinel, never an error.
type MetadataService struct {
	client *resty.Client
}

// NewMetadataService creates a new metadata resolver.
func NewMetadataService() *MetadataService {
	client := resty.New()
	client.SetTimeout(defaultMetadataTimeout)
	return &MetadataService{client: client}
}

// ExtractVideoID pulls the video identifier out of the common YouTube URL
// shapes: youtu.be short links, /watch?v=, /embed/ and /v/ paths.
func ExtractVideoID(youtubeURL string) (string, error) {
	u, err := url.Parse(youtubeURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")

	if host == "youtu.be" {
		id := strings.Trim(u.Path, "/")
		if id == "" {
			return "", fmt.Errorf("no video id in url %q", youtubeURL)
		}
		if i := strings.Index(id, "/"); i >= 0 {
			id = id[:i]
		}
		return id, nil
	}

	if host == "youtube.com" || host == "m.youtube.com" {
		if u.Path == "/watch" {
			if id := u.Query().Get("v"); id != "" {
				return id, nil
			}
			return "", fmt.Errorf("no video id in url %q", youtubeURL)
		}
		for _, prefix := range []string{"/embed/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id := strings.TrimPrefix(u.Path, prefix)
				if i := strings.Index(id, "/"); i >= 0 {
					id = id[:i]
				}
				if id != "" {
					return id, nil
				}
			}
		}
	}

	return "", fmt.Errorf("unrecognized youtube url %q", youtubeURL)
}

// ThumbnailURL returns the default thumbnail location for a video id.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("http://img.youtube.com/vi/%s/0.jpg", videoID)
}

type oembedResponse struct {
	Title string `json:"title"`
}

// Resolve fetches the video title via the oEmbed endpoint and derives the
// thumbnail from the video id. Lookup failures degrade to the sentinel title.
func (s *MetadataService) Resolve(ctx context.Context, youtubeURL string) *VideoMetadata {
	meta := &VideoMetadata{Title: domain.TitleNotFound}

	videoID, err := ExtractVideoID(youtubeURL)
	if err != nil {
		logger.CtxWarn(ctx, "could not extract video id: %v", err)
		return meta
	}
	meta.ThumbnailURL = ThumbnailURL(videoID)

	var resp oembedResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("url", youtubeURL).
		SetQueryParam("format", "json").
		SetResult(&resp).
		Get("https://www.youtube.com/oembed")

	if err != nil || httpResp.StatusCode() != 200 {
		logger.CtxWarn(ctx, "oembed lookup failed for %s", videoID)
		return meta
	}

	if title := strings.TrimSpace(resp.Title); title != "" {
		meta.Title = title
	}
	return meta
}
