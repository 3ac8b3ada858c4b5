package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeDownloader struct {
	calls []string
	fail  map[string]error
}

func (d *fakeDownloader) Download(ctx context.Context, videoID, outputPath string) error {
	d.calls = append(d.calls, videoID)
	if err := d.fail[videoID]; err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte("mp3:"+videoID), 0644)
}

type transcribeCall struct {
	audioPath string
	lang      Language
}

type fakeEngine struct {
	loads   int
	loadErr error
	calls   []transcribeCall
	fail    map[string]error // keyed by audio file name without extension
}

func (e *fakeEngine) Load(ctx context.Context) (Model, error) {
	e.loads++
	if e.loadErr != nil {
		return nil, e.loadErr
	}
	return e, nil
}

func (e *fakeEngine) Transcribe(ctx context.Context, audioPath string, lang Language) (string, error) {
	e.calls = append(e.calls, transcribeCall{audioPath: audioPath, lang: lang})
	id := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	if err := e.fail[id]; err != nil {
		return "", err
	}
	return "transcript of " + id, nil
}

type fakeFetcher struct {
	calls    []string
	metadata map[string]*VideoMetadata
}

func (f *fakeFetcher) Metadata(ctx context.Context, videoID string) (*VideoMetadata, error) {
	f.calls = append(f.calls, videoID)
	if m, ok := f.metadata[videoID]; ok {
		return m, nil
	}
	return nil, errors.New("video not found")
}

type fakeRunner struct {
	calls  [][]string
	handle func(name string, args []string) ([]byte, error)
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.handle == nil {
		return nil, nil
	}
	return r.handle(name, args)
}

type testApp struct {
	*App
	downloader *fakeDownloader
	engine     *fakeEngine
	fetcher    *fakeFetcher
	out        *bytes.Buffer
	errOut     *bytes.Buffer
}

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		OutputDir:       filepath.Join(dir, "audio_files"),
		Backend:         BackendLocal,
		WhisperModel:    "large",
		WhisperPython:   "python3",
		AudioQuality:    "192K",
		WhisperTimeout:  time.Minute,
		DownloadTimeout: time.Minute,
		TempDir:         filepath.Join(dir, "tmp"),
		CacheDir:        dir,
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ta := &testApp{
		downloader: &fakeDownloader{fail: map[string]error{}},
		engine:     &fakeEngine{fail: map[string]error{}},
		fetcher:    &fakeFetcher{metadata: map[string]*VideoMetadata{}},
		out:        &bytes.Buffer{},
		errOut:     &bytes.Buffer{},
	}

	app, err := NewApp(newTestConfig(t),
		WithDownloader(ta.downloader),
		WithTranscriber(ta.engine),
		WithMetadataFetcher(ta.fetcher),
		WithUI(NewUIManagerWithWriters(false, false, ta.out, ta.errOut)),
		WithRunID("test-run"),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	ta.App = app
	return ta
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
