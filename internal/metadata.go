package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sosodev/duration"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// VideoMetadata contains YouTube video information
type VideoMetadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	PublishedAt time.Time `json:"published_at"`
	Duration    float64   `json:"duration"` // seconds
}

// DurationString formats the duration as h:mm:ss or m:ss
func (m *VideoMetadata) DurationString() string {
	total := int(m.Duration)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// MetadataFetcher looks up informational metadata for a single video
type MetadataFetcher interface {
	Metadata(ctx context.Context, videoID string) (*VideoMetadata, error)
}

// maxIDsPerRequest is the Data API limit for videos.list
const maxIDsPerRequest = 50

// DataAPI fetches metadata from the YouTube Data API v3
type DataAPI struct {
	service *youtube.Service
	verbose bool
}

// NewDataAPI creates a Data API client authenticated with an API key.
// Extra options are appended, so tests can point the client at a local server.
func NewDataAPI(ctx context.Context, apiKey string, verbose bool, opts ...option.ClientOption) (*DataAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube Data API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating YouTube service: %w", err)
	}

	return &DataAPI{service: service, verbose: verbose}, nil
}

// Metadata fetches title, publish date and duration for one video
func (d *DataAPI) Metadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	found, err := d.Lookup(ctx, []string{videoID})
	if err != nil {
		return nil, err
	}

	metadata, ok := found[videoID]
	if !ok {
		return nil, fmt.Errorf("%w for %s: video is private, deleted or does not exist", ErrMetadataUnavailable, videoID)
	}
	return metadata, nil
}

// Lookup fetches metadata for many videos, batching requests.
// IDs the API does not return are absent from the result map.
func (d *DataAPI) Lookup(ctx context.Context, videoIDs []string) (map[string]*VideoMetadata, error) {
	found := make(map[string]*VideoMetadata, len(videoIDs))

	for start := 0; start < len(videoIDs); start += maxIDsPerRequest {
		end := min(start+maxIDsPerRequest, len(videoIDs))
		batch := videoIDs[start:end]

		if d.verbose {
			fmt.Printf("Requesting metadata for %d video(s)\n", len(batch))
		}

		resp, err := d.service.Videos.
			List([]string{"snippet", "contentDetails"}).
			Id(batch...).
			Context(ctx).
			Do()
		if err != nil {
			if hint := apiErrorHint(err); hint != "" {
				return nil, fmt.Errorf("%w: %s: %w", ErrMetadataUnavailable, hint, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrMetadataUnavailable, err)
		}

		for _, video := range resp.Items {
			metadata, err := metadataFromVideo(video)
			if err != nil {
				return nil, fmt.Errorf("%w for %s: %w", ErrMetadataUnavailable, video.Id, err)
			}
			found[video.Id] = metadata
		}
	}

	return found, nil
}

func metadataFromVideo(video *youtube.Video) (*VideoMetadata, error) {
	metadata := &VideoMetadata{ID: video.Id}

	if video.Snippet != nil {
		metadata.Title = video.Snippet.Title
		metadata.Channel = video.Snippet.ChannelTitle
		if video.Snippet.PublishedAt != "" {
			published, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
			if err != nil {
				return nil, fmt.Errorf("parsing publish date: %w", err)
			}
			metadata.PublishedAt = published
		}
	}

	if video.ContentDetails != nil && video.ContentDetails.Duration != "" {
		d, err := duration.Parse(video.ContentDetails.Duration)
		if err != nil {
			return nil, fmt.Errorf("parsing duration %q: %w", video.ContentDetails.Duration, err)
		}
		metadata.Duration = d.ToTimeDuration().Seconds()
	}

	return metadata, nil
}

// apiErrorHint names the usual cause of common Data API failures
func apiErrorHint(err error) string {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return ""
	}

	switch apiErr.Code {
	case 400:
		return "bad request (check the API key)"
	case 403:
		return "access denied or quota exceeded"
	default:
		return ""
	}
}
