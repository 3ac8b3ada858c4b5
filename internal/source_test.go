package internal

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadVideoIDs(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"two ids", "abc123\nxyz789\n", []string{"abc123", "xyz789"}},
		{"blank line skipped", "\nabc123\n", []string{"abc123"}},
		{"whitespace trimmed", "  abc123  \r\n\t\nxyz789", []string{"abc123", "xyz789"}},
		{"comments skipped", "# batch one\nabc123\n  # done\n", []string{"abc123"}},
		{"urls reduced to ids", "https://www.youtube.com/watch?v=tAP1eZYEuKA\nhttps://youtu.be/dQw4w9WgXcQ\n", []string{"tAP1eZYEuKA", "dQw4w9WgXcQ"}},
		{"duplicates kept", "abc\nabc\n", []string{"abc", "abc"}},
	}

	for i, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(dir, "ids"+string(rune('a'+i))+".txt")
			writeFile(t, path, test.content)

			ids, err := ReadVideoIDs(path)
			if err != nil {
				t.Fatalf("ReadVideoIDs failed: %v", err)
			}
			if !reflect.DeepEqual(ids, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, ids)
			}
		})
	}
}

func TestReadVideoIDsMissingFile(t *testing.T) {
	_, err := ReadVideoIDs(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestReadVideoIDsEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	writeFile(t, path, "\n   \n# nothing here\n")

	_, err := ReadVideoIDs(path)
	if !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestReadVideoIDsRequiresTxt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.csv")
	writeFile(t, path, "abc123\n")

	if _, err := ReadVideoIDs(path); err == nil {
		t.Error("expected error for non-.txt file")
	}
}
