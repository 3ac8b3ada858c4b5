package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClientInterface defines the interface for OpenAI client operations
type OpenAIClientInterface interface {
	CreateTranscription(ctx context.Context, file *os.File, lang Language) (string, error)
}

// OpenAIClient wraps the official OpenAI Go SDK
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: &client}
}

// CreateTranscription sends one audio file to the Whisper API
func (c *OpenAIClient) CreateTranscription(ctx context.Context, file *os.File, lang Language) (string, error) {
	params := openai.AudioTranscriptionNewParams{
		File:  file,
		Model: openai.AudioModelWhisper1,
	}
	if !lang.IsAuto() {
		params.Language = openai.String(lang.Code)
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// OpenAIWhisper transcribes through OpenAI's hosted Whisper model
type OpenAIWhisper struct {
	client       OpenAIClientInterface
	ffmpeg       *FFmpeg
	whisperLimit int64
	timeout      time.Duration
	verbose      bool
}

// NewOpenAIWhisper creates the remote engine
func NewOpenAIWhisper(client OpenAIClientInterface, ffmpeg *FFmpeg, whisperLimit int64, timeout time.Duration, verbose bool) *OpenAIWhisper {
	return &OpenAIWhisper{
		client:       client,
		ffmpeg:       ffmpeg,
		whisperLimit: whisperLimit,
		timeout:      timeout,
		verbose:      verbose,
	}
}

// Load has nothing to load for a hosted model; the engine is its own handle
func (ai *OpenAIWhisper) Load(ctx context.Context) (Model, error) {
	if ai.client == nil {
		return nil, ValidateOpenAIAPIKey("")
	}
	return ai, nil
}

// Transcribe uploads audioFile, split into chunks under the API size limit
func (ai *OpenAIWhisper) Transcribe(ctx context.Context, audioFile string, lang Language) (string, error) {
	if ai.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ai.timeout)
		defer cancel()
	}

	info, err := os.Stat(audioFile)
	if err != nil {
		return "", fmt.Errorf("getting audio file info: %w", err)
	}

	if info.Size() <= ai.whisperLimit {
		return ai.processAudioChunks(ctx, []string{audioFile}, lang)
	}

	chunks, err := ai.ffmpeg.SplitBySize(ctx, audioFile, info.Size(), ai.whisperLimit)
	if err != nil {
		return "", fmt.Errorf("splitting audio: %w", err)
	}
	// only the chunks are temporary; the source is an output artifact
	defer func() {
		if err := chunks.Remove(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove chunks in %s: %v\n", chunks.Dir, err)
		}
	}()

	return ai.processAudioChunks(ctx, chunks.Paths, lang)
}

// processAudioChunks transcribes audio chunks sequentially, in order
func (ai *OpenAIWhisper) processAudioChunks(ctx context.Context, chunks []string, lang Language) (string, error) {
	numChunks := len(chunks)

	if ai.verbose {
		fmt.Printf("Transcribing chunks (%d)\n", numChunks)
	}

	var sb strings.Builder
	for i, chunkPath := range chunks {
		file, err := os.Open(chunkPath)
		if err != nil {
			return "", fmt.Errorf("opening chunk %s: %w", chunkPath, err)
		}

		text, err := ai.client.CreateTranscription(ctx, file, lang)
		if closeErr := file.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close file %s: %v\n", chunkPath, closeErr)
		}
		if err != nil {
			return "", fmt.Errorf("transcribing chunk %d: %w", i+1, err)
		}

		sb.WriteString(strings.TrimSpace(text))
		if i < numChunks-1 {
			sb.WriteString("\n")
		}

		if ai.verbose {
			fmt.Printf("Transcribed chunk %d/%d\n", i+1, numChunks)
		}
	}

	return sb.String(), nil
}
