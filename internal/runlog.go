package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// RunLog appends batch events to a log file, tagged with the run ID.
// A nil *RunLog discards everything.
type RunLog struct {
	file   *os.File
	logger *log.Logger
	runID  string
}

// OpenRunLog opens (or creates) the log file at path for appending
func OpenRunLog(path, runID string) (*RunLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	return &RunLog{
		file:   file,
		logger: log.New(file, "", log.LstdFlags|log.Lmicroseconds),
		runID:  runID,
	}, nil
}

func (l *RunLog) logf(level, format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Printf("[RUN %s] [%s] "+format, append([]any{l.runID, level}, args...)...)
}

// Infof logs an info message
func (l *RunLog) Infof(format string, args ...any) {
	l.logf("INFO", format, args...)
}

// Errorf logs an error message
func (l *RunLog) Errorf(format string, args ...any) {
	l.logf("ERROR", format, args...)
}

// Close closes the underlying file
func (l *RunLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}
