package internal

import "errors"

// Input errors end the run before any video is processed.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrEmptyInput   = errors.New("no video IDs found")
)

// Per-video errors. Only download and transcription failures mark a video as failed.
var (
	ErrMetadataUnavailable = errors.New("metadata unavailable")
	ErrDownloadFailed      = errors.New("audio download failed")
	ErrTranscriptionFailed = errors.New("transcription failed")
)

// ErrNoCaptions means YouTube publishes no caption track for a video
var ErrNoCaptions = errors.New("no captions available")
