package internal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunBatchTwoValidIDs(t *testing.T) {
	ta := newTestApp(t)
	ta.fetcher.metadata["abc123"] = &VideoMetadata{ID: "abc123", Title: "First", Duration: 61}
	ta.fetcher.metadata["xyz789"] = &VideoMetadata{ID: "xyz789", Title: "Second", Duration: 3600}

	report := ta.RunBatch(context.Background(), []string{"abc123", "xyz789"}, LanguageHindi)

	dir := ta.config.OutputDir
	for _, name := range []string{"abc123.mp3", "abc123_transcription.txt", "xyz789.mp3", "xyz789_transcription.txt"} {
		if !FileExists(filepath.Join(dir, name)) {
			t.Errorf("expected %s in output directory", name)
		}
	}

	if got := len(report.Succeeded()); got != 2 {
		t.Errorf("expected 2 successes, got %d", got)
	}
	if got := len(report.Failed()); got != 0 {
		t.Errorf("expected 0 failures, got %d", got)
	}
	if !strings.Contains(report.Summary(), "2 succeeded, 0 failed") {
		t.Errorf("summary does not report two successes: %q", report.Summary())
	}

	for _, call := range ta.engine.calls {
		if call.lang != LanguageHindi {
			t.Errorf("expected Hindi hint, got %v", call.lang)
		}
	}

	text, err := ReadTranscript(dir, "abc123")
	if err != nil {
		t.Fatalf("ReadTranscript failed: %v", err)
	}
	if text != "transcript of abc123" {
		t.Errorf("unexpected transcript %q", text)
	}

	if !strings.Contains(ta.out.String(), "Title: First") {
		t.Errorf("expected metadata in log, got %q", ta.out.String())
	}
}

func TestRunBatchProcessesInOrder(t *testing.T) {
	ta := newTestApp(t)
	ids := []string{"c", "a", "b", "a2"}

	report := ta.RunBatch(context.Background(), ids, LanguageHindi)

	if len(report.Items) != len(ids) {
		t.Fatalf("expected %d items, got %d", len(ids), len(report.Items))
	}
	for i, id := range ids {
		if ta.downloader.calls[i] != id {
			t.Errorf("download %d: expected %s, got %s", i, id, ta.downloader.calls[i])
		}
		if ta.fetcher.calls[i] != id {
			t.Errorf("metadata %d: expected %s, got %s", i, id, ta.fetcher.calls[i])
		}
	}
}

func TestRunBatchSkipsExistingArtifacts(t *testing.T) {
	ta := newTestApp(t)
	dir := ta.config.OutputDir
	writeFile(t, AudioPath(dir, "have_audio"), "old audio")
	writeFile(t, AudioPath(dir, "have_both"), "old audio")
	writeFile(t, TranscriptPath(dir, "have_both"), "old transcript")

	report := ta.RunBatch(context.Background(), []string{"have_audio", "have_both"}, LanguageHindi)

	if len(ta.downloader.calls) != 0 {
		t.Errorf("downloader should not run for existing audio, got calls %v", ta.downloader.calls)
	}
	if len(ta.engine.calls) != 1 {
		t.Fatalf("expected 1 transcription, got %d", len(ta.engine.calls))
	}
	if filepath.Base(ta.engine.calls[0].audioPath) != "have_audio.mp3" {
		t.Errorf("unexpected transcription of %s", ta.engine.calls[0].audioPath)
	}

	both := report.Items[1]
	if !both.AudioCached || !both.TranscriptCached {
		t.Errorf("expected cached artifacts for have_both: %+v", both)
	}

	data, _ := os.ReadFile(TranscriptPath(dir, "have_both"))
	if string(data) != "old transcript" {
		t.Errorf("existing transcript was overwritten: %q", data)
	}
}

func TestRunBatchMetadataFailureStillDownloads(t *testing.T) {
	ta := newTestApp(t)

	report := ta.RunBatch(context.Background(), []string{"unknown"}, LanguageHindi)

	item := report.Items[0]
	if item.State != StateTranscriptReady {
		t.Fatalf("expected transcript_ready, got %s (%v)", item.State, item.Err)
	}
	if !errors.Is(item.MetadataErr, ErrMetadataUnavailable) {
		t.Errorf("expected ErrMetadataUnavailable, got %v", item.MetadataErr)
	}
	if len(ta.downloader.calls) != 1 {
		t.Errorf("expected a download attempt, got %v", ta.downloader.calls)
	}
	if !strings.Contains(ta.errOut.String(), "Metadata unavailable") {
		t.Errorf("expected metadata error on stderr, got %q", ta.errOut.String())
	}
}

func TestRunBatchWithoutMetadataSource(t *testing.T) {
	ta := newTestApp(t)
	ta.metadata = nil

	report := ta.RunBatch(context.Background(), []string{"abc"}, LanguageHindi)

	if report.Items[0].State != StateTranscriptReady {
		t.Errorf("expected transcript_ready, got %s", report.Items[0].State)
	}
}

func TestRunBatchDownloadFailureContinues(t *testing.T) {
	ta := newTestApp(t)
	ta.downloader.fail["A"] = errors.New("video unavailable")

	report := ta.RunBatch(context.Background(), []string{"A", "B"}, LanguageHindi)

	a, b := report.Items[0], report.Items[1]
	if a.State != StateFailed || !errors.Is(a.Err, ErrDownloadFailed) {
		t.Errorf("expected A failed with ErrDownloadFailed, got %s %v", a.State, a.Err)
	}
	if b.State != StateTranscriptReady {
		t.Errorf("expected B transcript_ready, got %s %v", b.State, b.Err)
	}
	if !FileExists(TranscriptPath(ta.config.OutputDir, "B")) {
		t.Error("B transcript missing")
	}
	for _, call := range ta.engine.calls {
		if strings.Contains(call.audioPath, "A.mp3") {
			t.Error("transcription should not run for a failed download")
		}
	}
	if !strings.Contains(report.Summary(), "A: ") {
		t.Errorf("summary should list A as failed: %q", report.Summary())
	}
}

func TestRunBatchTranscriptionFailureLeavesNoTranscript(t *testing.T) {
	ta := newTestApp(t)
	ta.engine.fail["bad"] = errors.New("out of memory")

	report := ta.RunBatch(context.Background(), []string{"bad", "good"}, LanguageTamil)

	if report.Items[0].State != StateFailed || !errors.Is(report.Items[0].Err, ErrTranscriptionFailed) {
		t.Errorf("expected bad to fail with ErrTranscriptionFailed, got %v", report.Items[0].Err)
	}
	if FileExists(TranscriptPath(ta.config.OutputDir, "bad")) {
		t.Error("no transcript should be written for a failed transcription")
	}
	if !FileExists(AudioPath(ta.config.OutputDir, "bad")) {
		t.Error("audio should be kept for the next run")
	}
	if report.Items[1].State != StateTranscriptReady {
		t.Errorf("expected good transcript_ready, got %s", report.Items[1].State)
	}
}

func TestRunBatchAutoDetectOmitsHint(t *testing.T) {
	ta := newTestApp(t)

	report := ta.RunBatch(context.Background(), []string{"abc"}, LanguageAuto)

	if len(ta.engine.calls) != 1 {
		t.Fatalf("expected 1 transcription, got %d", len(ta.engine.calls))
	}
	if !ta.engine.calls[0].lang.IsAuto() {
		t.Errorf("expected no language hint, got %q", ta.engine.calls[0].lang.Code)
	}
	if report.Items[0].State != StateTranscriptReady {
		t.Errorf("expected output for auto-detect, got %s", report.Items[0].State)
	}
}

func TestRunBatchLoadsModelOnce(t *testing.T) {
	ta := newTestApp(t)

	ta.RunBatch(context.Background(), []string{"a", "b", "c"}, LanguageHindi)

	if ta.engine.loads != 1 {
		t.Errorf("expected model to load once, loaded %d times", ta.engine.loads)
	}
}

func TestRunBatchModelLoadFailureFailsEveryItem(t *testing.T) {
	ta := newTestApp(t)
	ta.engine.loadErr = errors.New("whisper binary not found")

	report := ta.RunBatch(context.Background(), []string{"a", "b"}, LanguageHindi)

	if got := len(report.Failed()); got != 2 {
		t.Errorf("expected 2 failures, got %d", got)
	}
	if ta.engine.loads != 1 {
		t.Errorf("load should not be retried, loaded %d times", ta.engine.loads)
	}
}

func TestRunBatchNoModelLoadWhenAllTranscriptsExist(t *testing.T) {
	ta := newTestApp(t)
	dir := ta.config.OutputDir
	writeFile(t, AudioPath(dir, "a"), "audio")
	writeFile(t, TranscriptPath(dir, "a"), "text")

	ta.RunBatch(context.Background(), []string{"a"}, LanguageHindi)

	if ta.engine.loads != 0 {
		t.Errorf("model should not load when nothing needs transcribing, loaded %d times", ta.engine.loads)
	}
}

func TestRunBatchStopsWhenCancelled(t *testing.T) {
	ta := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := ta.RunBatch(ctx, []string{"a", "b"}, LanguageHindi)

	if len(ta.downloader.calls) != 0 {
		t.Errorf("no downloads expected after cancellation, got %v", ta.downloader.calls)
	}
	if got := len(report.Pending()); got != 2 {
		t.Errorf("expected 2 pending items, got %d", got)
	}
	if !report.HasFailures() {
		t.Error("unprocessed items should count as failures for --fail-on-error")
	}
}

func TestRunBatchLogsTimestamps(t *testing.T) {
	ta := newTestApp(t)
	ta.ui.(*StandardUIManager).now = func() time.Time {
		return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	}

	ta.RunBatch(context.Background(), []string{"abc"}, LanguageHindi)

	if !strings.Contains(ta.out.String(), "[2024-03-01 12:30:00] [1/1] abc") {
		t.Errorf("expected timestamped progress line, got %q", ta.out.String())
	}
}
