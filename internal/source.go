package internal

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ReadVideoIDs reads one video ID per line, in file order.
// Blank lines and lines starting with # are skipped; URLs are reduced to their ID.
func ReadVideoIDs(path string) ([]string, error) {
	if !strings.EqualFold(filepath.Ext(path), ".txt") {
		return nil, fmt.Errorf("video IDs file must be a .txt file: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("opening video IDs file: %w", err)
	}
	defer file.Close()

	var ids []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, NormalizeVideoID(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading video IDs file: %w", err)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrEmptyInput, path)
	}

	return ids, nil
}
