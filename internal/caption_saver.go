package internal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// CaptionOptions control which tracks are saved and how files are named
type CaptionOptions struct {
	OutputDir    string
	AllLanguages bool
	// TitleNames names files after the sanitized video title instead of the ID
	TitleNames bool
}

// CaptionResult is the outcome for one video
type CaptionResult struct {
	VideoID string
	Saved   []string
	Skipped []string
	Err     error
}

// CaptionResults is the outcome of a captions run
type CaptionResults []CaptionResult

// Summary reports how many videos produced caption files
func (r CaptionResults) Summary() string {
	var sb strings.Builder
	succeeded := 0
	for _, result := range r {
		if result.Err == nil {
			succeeded++
		}
	}
	fmt.Fprintf(&sb, "Saved captions for %d of %d video(s)\n", succeeded, len(r))
	for _, result := range r {
		if result.Err != nil {
			fmt.Fprintf(&sb, "  - %s: %v\n", result.VideoID, result.Err)
		}
	}
	return sb.String()
}

// Failed reports whether any video has no caption file
func (r CaptionResults) Failed() bool {
	for _, result := range r {
		if result.Err != nil {
			return true
		}
	}
	return false
}

// CaptionSaver writes existing YouTube captions as plain text, one video at a time
type CaptionSaver struct {
	source CaptionSource
	ui     UIManager
	opts   CaptionOptions
}

// NewCaptionSaver creates a caption saver
func NewCaptionSaver(source CaptionSource, ui UIManager, opts CaptionOptions) *CaptionSaver {
	return &CaptionSaver{source: source, ui: ui, opts: opts}
}

// SaveAll processes videoIDs in order. A failure is logged and the next video
// is processed; cancelling ctx stops before the next video.
func (s *CaptionSaver) SaveAll(ctx context.Context, videoIDs []string) CaptionResults {
	results := make(CaptionResults, 0, len(videoIDs))
	for i, id := range videoIDs {
		if ctx.Err() != nil {
			s.ui.LogErrorf("Interrupted, %d video(s) not processed", len(videoIDs)-i)
			break
		}
		s.ui.Logf("[%d/%d] %s", i+1, len(videoIDs), id)

		result := s.Save(ctx, id)
		if result.Err != nil {
			s.ui.LogErrorf("Failed: %v", result.Err)
		}
		results = append(results, result)
	}
	return results
}

// Save writes the captions of one video. Files already on disk are kept.
func (s *CaptionSaver) Save(ctx context.Context, videoID string) CaptionResult {
	result := CaptionResult{VideoID: videoID}

	// ID-named single files can be checked without asking YouTube
	if !s.opts.TitleNames && !s.opts.AllLanguages {
		path := s.path(videoID+"_captions", CaptionTrack{})
		if FileExists(path) {
			s.ui.Logf("Captions already exist, skipping: %s", path)
			result.Skipped = append(result.Skipped, path)
			return result
		}
	}

	listing, err := s.source.ListCaptions(ctx, videoID)
	if err != nil {
		result.Err = err
		return result
	}
	if len(listing.Tracks) == 0 {
		result.Err = fmt.Errorf("%w for %s", ErrNoCaptions, videoID)
		return result
	}

	s.ui.Logf("Available captions:")
	for _, track := range listing.Tracks {
		s.ui.Logf("  - %s (%s) [%s]", track.Name, track.Language, track.Kind())
	}

	base := videoID + "_captions"
	if s.opts.TitleNames {
		if title := SanitizeFilename(listing.Title); title != "" {
			base = title
		}
	}

	tracks := listing.Tracks
	if !s.opts.AllLanguages {
		preferred, _ := listing.Preferred()
		tracks = []CaptionTrack{preferred}
	}

	var errs []error
	for _, track := range tracks {
		path := s.path(base, track)
		if FileExists(path) {
			s.ui.Logf("Captions already exist, skipping: %s", path)
			result.Skipped = append(result.Skipped, path)
			continue
		}

		if err := s.saveTrack(ctx, videoID, track, path); err != nil {
			s.ui.LogErrorf("Error saving %s captions: %v", track.Key, err)
			errs = append(errs, err)
			continue
		}
		s.ui.Logf("Saved %s (%s) captions to %s", track.Language, track.Kind(), path)
		result.Saved = append(result.Saved, path)
	}

	if len(result.Saved) == 0 && len(result.Skipped) == 0 {
		result.Err = errors.Join(errs...)
	}
	return result
}

func (s *CaptionSaver) saveTrack(ctx context.Context, videoID string, track CaptionTrack, path string) error {
	srt, err := s.source.FetchCaptions(ctx, videoID, track)
	if err != nil {
		return err
	}

	text := CaptionText(srt)
	if text == "" {
		return fmt.Errorf("%w for %s: %s track is empty", ErrNoCaptions, videoID, track.Key)
	}

	if err := EnsureDirs(s.opts.OutputDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	return WriteFileAtomic(path, []byte(text))
}

// path is <base>.txt for a single track, and <base>_<lang>.txt (with an
// -auto suffix for generated tracks) when every language is saved
func (s *CaptionSaver) path(base string, track CaptionTrack) string {
	name := base
	if s.opts.AllLanguages {
		name += "_" + track.Language
		if track.Generated {
			name += "-auto"
		}
	}
	return filepath.Join(s.opts.OutputDir, name+".txt")
}
