package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// AudioDownloader fetches and transcodes the audio track of one video
type AudioDownloader interface {
	Download(ctx context.Context, videoID, outputPath string) error
}

// YouTube handles audio downloads and metadata extraction through yt-dlp
type YouTube struct {
	quality  string
	timeout  time.Duration
	verbose  bool
	progress func(percent int)
}

// NewYouTube creates a new YouTube downloader
func NewYouTube(quality string, timeout time.Duration, verbose bool) *YouTube {
	return &YouTube{
		quality: quality,
		timeout: timeout,
		verbose: verbose,
	}
}

// OnProgress registers a callback receiving download percentages
func (yt *YouTube) OnProgress(fn func(percent int)) {
	yt.progress = fn
}

// EnsureYtDlp installs a yt-dlp binary into the cache if none is on PATH
func EnsureYtDlp(ctx context.Context) error {
	if _, err := ytdlp.Install(ctx, nil); err != nil {
		return fmt.Errorf("installing yt-dlp: %w", err)
	}
	return nil
}

// Download writes the audio track of videoID as mp3 to outputPath
func (yt *YouTube) Download(ctx context.Context, videoID, outputPath string) error {
	if yt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, yt.timeout)
		defer cancel()
	}

	if err := EnsureDirs(filepath.Dir(outputPath)); err != nil {
		return fmt.Errorf("%w for %s: creating output directory: %w", ErrDownloadFailed, videoID, err)
	}

	// yt-dlp's audio extraction writes the final file in place, so it works
	// in a private directory and only a finished mp3 is moved to outputPath
	workDir, err := os.MkdirTemp(filepath.Dir(outputPath), "."+videoID+"-download-")
	if err != nil {
		return fmt.Errorf("%w for %s: creating download directory: %w", ErrDownloadFailed, videoID, err)
	}
	defer os.RemoveAll(workDir)

	base := strings.TrimSuffix(filepath.Base(outputPath), filepath.Ext(outputPath))
	template := filepath.Join(workDir, base+".%(ext)s")

	dl := ytdlp.New().
		Format("bestaudio/best").
		NoPlaylist().
		ExtractAudio().
		AudioFormat("mp3").
		AudioQuality(yt.quality).
		Output(template)

	if yt.progress != nil {
		dl.ProgressFunc(500*time.Millisecond, func(update ytdlp.ProgressUpdate) {
			if update.TotalBytes > 0 {
				yt.progress(int(float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100))
			}
		})
	}

	if yt.verbose {
		fmt.Printf("Downloading audio for %s to %s\n", videoID, outputPath)
	}

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		if yt.verbose && result != nil {
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return fmt.Errorf("%w for %s: %w", ErrDownloadFailed, videoID, err)
	}

	if err := moveDownloaded(workDir, outputPath); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrDownloadFailed, videoID, err)
	}

	if yt.verbose {
		fmt.Println("Audio download completed successfully")
	}

	return nil
}

// moveDownloaded renames the finished file in workDir to outputPath
func moveDownloaded(workDir, outputPath string) error {
	finished := filepath.Join(workDir, filepath.Base(outputPath))
	if !FileExists(finished) {
		return fmt.Errorf("yt-dlp finished but %s is missing", finished)
	}
	if err := os.Rename(finished, outputPath); err != nil {
		return fmt.Errorf("moving audio into place: %w", err)
	}
	return nil
}

// ytdlpInfo is the subset of yt-dlp's JSON dump used for metadata
type ytdlpInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Channel    string  `json:"channel"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"`
	Timestamp  int64   `json:"timestamp"`
}

// Metadata extracts video details with yt-dlp; used when no Data API key is available
func (yt *YouTube) Metadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		if yt.verbose && result != nil {
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("%w for %s: %w", ErrMetadataUnavailable, videoID, err)
	}

	return parseYtdlpInfo(videoID, []byte(result.Stdout))
}

func parseYtdlpInfo(videoID string, data []byte) (*VideoMetadata, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("%w for %s: parsing yt-dlp output: %w", ErrMetadataUnavailable, videoID, err)
	}

	metadata := &VideoMetadata{
		ID:       videoID,
		Title:    info.Title,
		Channel:  info.Channel,
		Duration: info.Duration,
	}
	if metadata.Channel == "" {
		metadata.Channel = info.Uploader
	}

	switch {
	case info.Timestamp > 0:
		metadata.PublishedAt = time.Unix(info.Timestamp, 0).UTC()
	case info.UploadDate != "":
		if published, err := time.Parse("20060102", info.UploadDate); err == nil {
			metadata.PublishedAt = published
		}
	}

	return metadata, nil
}
