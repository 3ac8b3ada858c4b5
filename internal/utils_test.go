package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestArtifactPaths(t *testing.T) {
	if got := AudioPath("audio_files", "abc123"); got != filepath.Join("audio_files", "abc123.mp3") {
		t.Errorf("unexpected audio path %s", got)
	}
	if got := TranscriptPath("audio_files", "abc123"); got != filepath.Join("audio_files", "abc123_transcription.txt") {
		t.Errorf("unexpected transcript path %s", got)
	}
}

func TestNormalizeVideoID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"tAP1eZYEuKA", "tAP1eZYEuKA"},
		{" tAP1eZYEuKA ", "tAP1eZYEuKA"},
		{"https://www.youtube.com/watch?v=tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://www.youtube.com/watch?v=tAP1eZYEuKA&t=42s", "tAP1eZYEuKA"},
		{"https://youtu.be/tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://m.youtube.com/shorts/tAP1eZYEuKA", "tAP1eZYEuKA"},
		{"https://example.com/watch?v=tAP1eZYEuKA", "https://example.com/watch?v=tAP1eZYEuKA"},
		{"https://www.youtube.com/playlist?list=PL123", "https://www.youtube.com/playlist?list=PL123"},
	}

	for _, test := range tests {
		if got := NormalizeVideoID(test.input); got != test.expected {
			t.Errorf("NormalizeVideoID(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestIsValidYouTubeID(t *testing.T) {
	if !IsValidYouTubeID("tAP1eZYEuKA") {
		t.Error("expected valid ID")
	}
	for _, id := range []string{"short", "tAP1eZYEuKA1", "tAP1eZYEu!A"} {
		if IsValidYouTubeID(id) {
			t.Errorf("expected %q to be invalid", id)
		}
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading result: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected second, got %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestReadTranscriptMissing(t *testing.T) {
	_, err := ReadTranscript(t.TempDir(), "abc")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestCleanupTempDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tmp")
	writeFile(t, filepath.Join(dir, "chunk.mp3"), "x")
	writeFile(t, filepath.Join(dir, "whisper-1", "a.txt"), "y")

	if err := CleanupTempDir(dir); err != nil {
		t.Fatalf("CleanupTempDir failed: %v", err)
	}
	if FileExists(dir) {
		t.Error("temp directory should be removed")
	}

	if err := CleanupTempDir(dir); err != nil {
		t.Errorf("cleaning a missing directory should succeed: %v", err)
	}
}
