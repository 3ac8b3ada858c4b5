package internal

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FFmpeg measures audio with ffprobe and cuts it with ffmpeg's segment muxer
type FFmpeg struct {
	runner  CommandRunner
	tempDir string
	verbose bool
}

// NewFFmpeg creates an audio splitter writing under tempDir
func NewFFmpeg(runner CommandRunner, tempDir string, verbose bool) *FFmpeg {
	return &FFmpeg{
		runner:  runner,
		tempDir: tempDir,
		verbose: verbose,
	}
}

// Chunks are the segments of one audio file, alone in their own directory
type Chunks struct {
	Dir   string
	Paths []string
}

// Remove deletes the segments and their directory
func (c *Chunks) Remove() error {
	return os.RemoveAll(c.Dir)
}

// Duration returns the audio file duration in seconds
func (f *FFmpeg) Duration(ctx context.Context, audioFile string) (float64, error) {
	output, err := f.runner.Run(ctx, "ffprobe",
		"-i", audioFile,
		"-show_entries", "format=duration",
		"-v", "quiet",
		"-of", "csv=p=0")
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w\nOutput: %s", err, string(output))
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing duration: %w", err)
	}
	return seconds, nil
}

// SplitBySize cuts audioFile (size bytes) into equal-length segments so that
// each one stays under limit bytes. Segments are named <id>_partNN.mp3 in a
// fresh directory, so two splits of the same file never share a path.
func (f *FFmpeg) SplitBySize(ctx context.Context, audioFile string, size, limit int64) (*Chunks, error) {
	parts := int(math.Ceil(float64(size) / float64(limit)))

	seconds, err := f.Duration(ctx, audioFile)
	if err != nil {
		return nil, fmt.Errorf("getting audio duration: %w", err)
	}
	segmentLength := int(math.Ceil(seconds / float64(parts)))

	if err := EnsureDirs(f.tempDir); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	id := strings.TrimSuffix(filepath.Base(audioFile), filepath.Ext(audioFile))
	dir, err := os.MkdirTemp(f.tempDir, id+"-chunks-")
	if err != nil {
		return nil, fmt.Errorf("creating chunk directory: %w", err)
	}
	chunks := &Chunks{Dir: dir}

	output, err := f.runner.Run(ctx, "ffmpeg",
		"-v", "error",
		"-i", audioFile,
		"-f", "segment",
		"-segment_time", strconv.Itoa(segmentLength),
		"-reset_timestamps", "1",
		"-c:a", "copy",
		"-y", filepath.Join(dir, id+"_part%02d.mp3"))
	if err != nil {
		_ = chunks.Remove()
		return nil, fmt.Errorf("ffmpeg failed: %w\nOutput: %s", err, string(output))
	}

	// ReadDir sorts by name, which is segment order
	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = chunks.Remove()
		return nil, fmt.Errorf("listing chunks: %w", err)
	}
	for _, entry := range entries {
		chunks.Paths = append(chunks.Paths, filepath.Join(dir, entry.Name()))
	}
	if len(chunks.Paths) == 0 {
		_ = chunks.Remove()
		return nil, fmt.Errorf("ffmpeg produced no chunks for %s", audioFile)
	}

	if f.verbose {
		fmt.Printf("Split %s into %d chunks of about %ds\n", audioFile, len(chunks.Paths), segmentLength)
	}

	return chunks, nil
}
