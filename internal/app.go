package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// App holds the application state and dependencies
type App struct {
	config      *Config
	ui          UIManager
	metadata    MetadataFetcher
	downloader  AudioDownloader
	transcriber *Transcriber
	runLog      *RunLog
	runID       string

	// mu serializes pipelines: one writer per artifact, one request at a
	// time to the model
	mu sync.Mutex
}

// AppOption customizes App creation
type AppOption func(*App)

// WithMetadataFetcher sets the metadata source; without one metadata is skipped
func WithMetadataFetcher(fetcher MetadataFetcher) AppOption {
	return func(a *App) {
		a.metadata = fetcher
	}
}

// WithDownloader sets a custom audio downloader
func WithDownloader(downloader AudioDownloader) AppOption {
	return func(a *App) {
		a.downloader = downloader
	}
}

// WithTranscriber sets the speech engine
func WithTranscriber(engine Engine) AppOption {
	return func(a *App) {
		a.transcriber = NewTranscriber(engine)
	}
}

// WithUI sets a custom UI manager
func WithUI(ui UIManager) AppOption {
	return func(a *App) {
		a.ui = ui
	}
}

// WithRunLog attaches a file log
func WithRunLog(runLog *RunLog) AppOption {
	return func(a *App) {
		a.runLog = runLog
	}
}

// WithRunID sets the ID that tags the report and run log
func WithRunID(runID string) AppOption {
	return func(a *App) {
		a.runID = runID
	}
}

// NewApp initializes the application. Dependencies not supplied through
// options are built from config.
func NewApp(config *Config, options ...AppOption) (*App, error) {
	app := &App{config: config}
	for _, option := range options {
		option(app)
	}

	if app.runID == "" {
		app.runID = uuid.NewString()
	}

	if app.ui == nil {
		app.ui = NewUIManager(config.Verbose, config.Quiet)
	}

	if app.downloader == nil {
		app.downloader = NewYouTube(config.AudioQuality, config.DownloadTimeout, config.Verbose)
	}

	if app.transcriber == nil {
		engine, err := NewEngine(config, &DefaultCommandRunner{}, app.ui)
		if err != nil {
			return nil, err
		}
		app.transcriber = NewTranscriber(engine)
	}

	return app, nil
}

// Config returns the active configuration
func (app *App) Config() *Config {
	return app.config
}

// UI returns the UI manager
func (app *App) UI() UIManager {
	return app.ui
}

// LookupMetadata fetches informational metadata for one video
func (app *App) LookupMetadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	if app.metadata == nil {
		return nil, fmt.Errorf("%w for %s: no metadata source configured", ErrMetadataUnavailable, videoID)
	}

	metadata, err := app.metadata.Metadata(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrMetadataUnavailable) {
			err = fmt.Errorf("%w for %s: %w", ErrMetadataUnavailable, videoID, err)
		}
		return nil, err
	}
	return metadata, nil
}

// EnsureAudio makes sure the audio artifact for videoID exists.
// cached is true when the file was already on disk.
func (app *App) EnsureAudio(ctx context.Context, videoID string) (path string, cached bool, err error) {
	path = AudioPath(app.config.OutputDir, videoID)
	if FileExists(path) {
		return path, true, nil
	}

	if err := EnsureDirs(app.config.OutputDir); err != nil {
		return "", false, fmt.Errorf("%w for %s: creating output directory: %w", ErrDownloadFailed, videoID, err)
	}

	if err := app.downloader.Download(ctx, videoID, path); err != nil {
		if !errors.Is(err, ErrDownloadFailed) {
			err = fmt.Errorf("%w for %s: %w", ErrDownloadFailed, videoID, err)
		}
		return "", false, err
	}

	if !FileExists(path) {
		return "", false, fmt.Errorf("%w for %s: no audio file at %s", ErrDownloadFailed, videoID, path)
	}

	return path, false, nil
}

// EnsureTranscript makes sure the transcript artifact for videoID exists.
// The model is not invoked when the transcript is already on disk.
func (app *App) EnsureTranscript(ctx context.Context, videoID, audioPath string, lang Language) (path string, cached bool, err error) {
	path = TranscriptPath(app.config.OutputDir, videoID)
	if FileExists(path) {
		return path, true, nil
	}

	text, err := app.transcriber.Transcribe(ctx, audioPath, lang)
	if err != nil {
		return "", false, fmt.Errorf("%w for %s: %w", ErrTranscriptionFailed, videoID, err)
	}

	if err := WriteFileAtomic(path, []byte(text)); err != nil {
		return "", false, fmt.Errorf("%w for %s: saving transcript: %w", ErrTranscriptionFailed, videoID, err)
	}

	return path, false, nil
}

// TranscribeVideo runs download and transcription for a single video and
// returns the transcript text. Concurrent calls run one after another.
func (app *App) TranscribeVideo(ctx context.Context, videoID string, lang Language) (string, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	audioPath, cached, err := app.EnsureAudio(ctx, videoID)
	if err != nil {
		return "", err
	}
	if cached {
		app.ui.Verbose("Using existing audio %s\n", audioPath)
	}

	transcriptPath, cached, err := app.EnsureTranscript(ctx, videoID, audioPath, lang)
	if err != nil {
		return "", err
	}
	if cached {
		app.ui.Verbose("Using existing transcript %s\n", transcriptPath)
	}

	return ReadTranscript(app.config.OutputDir, videoID)
}

// Close releases the loaded model
func (app *App) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.transcriber.Close()
}
