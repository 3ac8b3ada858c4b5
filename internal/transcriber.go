package internal

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Engine loads a speech model. Loading may be expensive, so callers keep the
// returned Model for the whole run.
type Engine interface {
	Load(ctx context.Context) (Model, error)
}

// Model is a loaded speech model handle
type Model interface {
	// Transcribe returns plain text for audioPath. An auto-detect language
	// means no hint is passed to the model.
	Transcribe(ctx context.Context, audioPath string, lang Language) (string, error)
}

// Transcriber owns the model handle and loads it on first use
type Transcriber struct {
	engine Engine

	once    sync.Once
	model   Model
	loadErr error
}

// NewTranscriber wraps an engine with lazy, one-time loading
func NewTranscriber(engine Engine) *Transcriber {
	return &Transcriber{engine: engine}
}

// Transcribe loads the model if needed and runs inference.
// A failed load is remembered; every later call reports it.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, lang Language) (string, error) {
	t.once.Do(func() {
		t.model, t.loadErr = t.engine.Load(ctx)
	})
	if t.loadErr != nil {
		return "", fmt.Errorf("loading model: %w", t.loadErr)
	}

	return t.model.Transcribe(ctx, audioPath, lang)
}

// Close releases the model if it holds resources such as a worker process
func (t *Transcriber) Close() error {
	if closer, ok := t.model.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewEngine builds the engine selected by config.Backend
func NewEngine(config *Config, runner CommandRunner, ui UIManager) (Engine, error) {
	switch config.Backend {
	case BackendLocal, "":
		return NewLocalWhisper(runner, config, ui), nil
	case BackendOpenAI:
		if err := ValidateOpenAIAPIKey(config.OpenAIAPIKey); err != nil {
			return nil, err
		}
		ffmpeg := NewFFmpeg(runner, config.TempDir, config.Verbose)
		return NewOpenAIWhisper(NewOpenAIClient(config.OpenAIAPIKey), ffmpeg, WhisperLimit, config.WhisperTimeout, config.Verbose), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %q", config.Backend)
	}
}
