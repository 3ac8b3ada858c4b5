package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// CaptionTrack is one caption track published for a video. Key is the
// identifier yt-dlp selects the track by.
type CaptionTrack struct {
	Key       string
	Language  string
	Name      string
	Generated bool
}

func (t CaptionTrack) Kind() string {
	if t.Generated {
		return "generated"
	}
	return "manual"
}

// CaptionListing is the set of tracks available for one video
type CaptionListing struct {
	VideoID  string
	Title    string
	Language string // spoken language reported by YouTube, may be empty
	Tracks   []CaptionTrack
}

// Preferred picks manual captions over generated ones, and within each kind
// the track in the video's own language
func (l *CaptionListing) Preferred() (CaptionTrack, bool) {
	for _, generated := range []bool{false, true} {
		var candidates []CaptionTrack
		for _, track := range l.Tracks {
			if track.Generated == generated {
				candidates = append(candidates, track)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		for _, track := range candidates {
			if l.Language != "" && track.Language == l.Language {
				return track, true
			}
		}
		return candidates[0], true
	}
	return CaptionTrack{}, false
}

// CaptionSource lists and downloads existing YouTube captions
type CaptionSource interface {
	ListCaptions(ctx context.Context, videoID string) (*CaptionListing, error)
	// FetchCaptions returns the track as SRT
	FetchCaptions(ctx context.Context, videoID string, track CaptionTrack) (string, error)
}

// YtDlpCaptions reads captions with yt-dlp
type YtDlpCaptions struct {
	tempDir string
	verbose bool
}

// NewYtDlpCaptions creates a caption source downloading into tempDir
func NewYtDlpCaptions(tempDir string, verbose bool) *YtDlpCaptions {
	return &YtDlpCaptions{tempDir: tempDir, verbose: verbose}
}

// ListCaptions reads the caption tracks from yt-dlp's JSON dump
func (c *YtDlpCaptions) ListCaptions(ctx context.Context, videoID string) (*CaptionListing, error) {
	dl := ytdlp.New().
		DumpSingleJSON().
		NoPlaylist().
		SkipDownload()

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		if c.verbose && result != nil {
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return nil, fmt.Errorf("listing captions for %s: %w", videoID, err)
	}

	return parseCaptionListing(videoID, []byte(result.Stdout))
}

type ytdlpCaptionFormat struct {
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

type ytdlpCaptionInfo struct {
	Title             string                          `json:"title"`
	Language          string                          `json:"language"`
	Subtitles         map[string][]ytdlpCaptionFormat `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpCaptionFormat `json:"automatic_captions"`
}

// parseCaptionListing keeps every manual track and only the generated track
// in the spoken language; yt-dlp also lists machine translations of it,
// marking the source track with an "-orig" suffix.
func parseCaptionListing(videoID string, data []byte) (*CaptionListing, error) {
	var info ytdlpCaptionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing yt-dlp output for %s: %w", videoID, err)
	}

	listing := &CaptionListing{VideoID: videoID, Title: info.Title, Language: info.Language}

	for _, key := range sortedKeys(info.Subtitles) {
		if key == "live_chat" {
			continue
		}
		listing.Tracks = append(listing.Tracks, CaptionTrack{
			Key:      key,
			Language: key,
			Name:     trackName(info.Subtitles[key], key),
		})
	}

	var generated []CaptionTrack
	for _, key := range sortedKeys(info.AutomaticCaptions) {
		lang, original := strings.CutSuffix(key, "-orig")
		if !original {
			continue
		}
		generated = append(generated, CaptionTrack{
			Key:       key,
			Language:  lang,
			Name:      trackName(info.AutomaticCaptions[key], lang),
			Generated: true,
		})
	}
	// older yt-dlp releases have no -orig marker
	if len(generated) == 0 && info.Language != "" {
		if formats, ok := info.AutomaticCaptions[info.Language]; ok {
			generated = append(generated, CaptionTrack{
				Key:       info.Language,
				Language:  info.Language,
				Name:      trackName(formats, info.Language),
				Generated: true,
			})
		}
	}
	listing.Tracks = append(listing.Tracks, generated...)

	return listing, nil
}

func sortedKeys(m map[string][]ytdlpCaptionFormat) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func trackName(formats []ytdlpCaptionFormat, fallback string) string {
	for _, f := range formats {
		if f.Name != "" {
			return f.Name
		}
	}
	return fallback
}

// FetchCaptions downloads one track, converted to SRT, into a private
// directory and returns its content
func (c *YtDlpCaptions) FetchCaptions(ctx context.Context, videoID string, track CaptionTrack) (string, error) {
	if err := EnsureDirs(c.tempDir); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	dir, err := os.MkdirTemp(c.tempDir, videoID+"-captions-")
	if err != nil {
		return "", fmt.Errorf("creating caption directory: %w", err)
	}
	defer os.RemoveAll(dir)

	dl := ytdlp.New().
		SubLangs(track.Key).
		ConvertSubs("srt").
		SkipDownload().
		NoPlaylist().
		Output(filepath.Join(dir, "%(id)s"))
	if track.Generated {
		dl.WriteAutoSubs()
	} else {
		dl.WriteSubs()
	}

	result, err := dl.Run(ctx, WatchURL(videoID))
	if err != nil {
		if c.verbose && result != nil {
			fmt.Printf("Stderr: %s\n", result.Stderr)
		}
		return "", fmt.Errorf("downloading %s captions for %s: %w", track.Key, videoID, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.srt"))
	if err != nil || len(files) == 0 {
		return "", fmt.Errorf("no %s captions written for %s", track.Key, videoID)
	}

	content, err := os.ReadFile(files[0])
	if err != nil {
		return "", fmt.Errorf("reading captions: %w", err)
	}
	return string(content), nil
}

// CaptionText converts SRT to a single plain-text passage
func CaptionText(srt string) string {
	return strings.Join(removeDuplicates(parseSRT(srt)), " ")
}

var srtTag = regexp.MustCompile(`</?[a-zA-Z][^>]*>`)

// parseSRT returns the text lines of every cue, dropping cue numbers,
// timings and inline formatting tags
func parseSRT(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var lines []string
	inCue := false
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			inCue = false
		case strings.Contains(line, "-->"):
			inCue = true
		case inCue:
			if text := strings.TrimSpace(srtTag.ReplaceAllString(line, "")); text != "" {
				lines = append(lines, text)
			}
		}
	}
	return lines
}

// removeDuplicates drops lines repeated by rolling auto-generated captions,
// where each cue repeats or extends the previous one
func removeDuplicates(lines []string) []string {
	result := make([]string, 0, len(lines))
	prev := ""

	for _, line := range lines {
		switch {
		case prev == "":
			result = append(result, line)
		case line == prev || strings.Contains(prev, line):
			// already covered
		case strings.HasPrefix(line, prev):
			// a cue growing into the next one keeps only the new words
			if rest := strings.TrimSpace(strings.TrimPrefix(line, prev)); rest != "" {
				result = append(result, rest)
			}
		default:
			result = append(result, line)
		}
		prev = line
	}

	return result
}

var unsafeFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// SanitizeFilename makes a video title usable as a file name
func SanitizeFilename(title string) string {
	name := unsafeFilenameChars.ReplaceAllString(title, "-")
	name = whitespaceRun.ReplaceAllString(name, " ")
	if runes := []rune(name); len(runes) > 100 {
		name = string(runes[:97]) + "..."
	}
	return strings.TrimSpace(name)
}
