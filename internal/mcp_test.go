package internal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

func TestMCPGetVideoMetadata(t *testing.T) {
	ta := newTestApp(t)
	ta.fetcher.metadata["tAP1eZYEuKA"] = &VideoMetadata{
		ID:          "tAP1eZYEuKA",
		Title:       "A talk",
		Channel:     "Chan",
		PublishedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Duration:    125,
	}
	s := NewMCPServer(ta.App, "test")

	result, err := s.handleGetMetadata(context.Background(),
		callTool("get_video_metadata", map[string]any{"id": "https://youtu.be/tAP1eZYEuKA"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	text := resultText(t, result)
	for _, want := range []string{"Title: A talk", "Channel: Chan", "Published: 2024-03-01", "Duration: 2:05"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in %q", want, text)
		}
	}
}

func TestMCPGetVideoMetadataMissingID(t *testing.T) {
	s := NewMCPServer(newTestApp(t).App, "test")

	result, err := s.handleGetMetadata(context.Background(), callTool("get_video_metadata", map[string]any{}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error without id")
	}
}

func TestMCPTranscribeVideo(t *testing.T) {
	ta := newTestApp(t)
	s := NewMCPServer(ta.App, "test")

	result, err := s.handleTranscribe(context.Background(),
		callTool("transcribe_video", map[string]any{"id": "abc", "language": "auto"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if text := resultText(t, result); text != "transcript of abc" {
		t.Errorf("unexpected transcript %q", text)
	}
	if !ta.engine.calls[0].lang.IsAuto() {
		t.Errorf("expected auto-detect, got %s", ta.engine.calls[0].lang)
	}
}

func TestMCPTranscribeVideoDefaultsToHindi(t *testing.T) {
	ta := newTestApp(t)
	s := NewMCPServer(ta.App, "test")

	if _, err := s.handleTranscribe(context.Background(), callTool("transcribe_video", map[string]any{"id": "abc"})); err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if ta.engine.calls[0].lang != LanguageHindi {
		t.Errorf("expected Hindi, got %s", ta.engine.calls[0].lang)
	}
}

func TestMCPTranscribeVideoInvalidLanguage(t *testing.T) {
	s := NewMCPServer(newTestApp(t).App, "test")

	result, err := s.handleTranscribe(context.Background(),
		callTool("transcribe_video", map[string]any{"id": "abc", "language": "French"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError {
		t.Error("expected tool error for unsupported language")
	}
}
