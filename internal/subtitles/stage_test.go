package subtitles_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundshield/internal/logging"
	"soundshield/internal/notifications"
	"soundshield/internal/queue"
	"soundshield/internal/services/funasr"
	"soundshield/internal/subtitles"
	"soundshield/internal/testsupport"
)

type recordingNotifier struct {
	notifications.Service
	subtitleTitles []string
	cueCounts      []int
}

func (r *recordingNotifier) NotifySubtitlesGenerated(ctx context.Context, title string, cueCount int) error {
	r.subtitleTitles = append(r.subtitleTitles, title)
	r.cueCounts = append(r.cueCounts, cueCount)
	return nil
}

func newStageItem(t *testing.T, dir string) *queue.Item {
	t.Helper()
	transcript := filepath.Join(dir, "lecture.json")
	if err := os.WriteFile(transcript, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return &queue.Item{
		ID:              7,
		Title:           "Lecture",
		Status:          queue.StatusSubtitling,
		TranscriptFile:  transcript,
		DurationSeconds: 12,
	}
}

func TestExecuteWritesSubtitleFile(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &recordingNotifier{Service: notifications.NewService(cfg)}
	generator := subtitles.NewGeneratorWithDependencies(cfg, store, logging.NewNop(), notifier)
	generator.WithResultLoader(func(string) (funasr.Result, error) {
		return funasr.Result{
			Text: "你好。世界！",
			Sentences: []funasr.Sentence{
				{Text: "你好。", Start: 0, End: 6},
				{Text: "世界！", Start: 6, End: 12},
			},
		}, nil
	})

	item := newStageItem(t, t.TempDir())
	if err := generator.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if err := generator.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if item.SubtitleFile == "" {
		t.Fatal("expected subtitle file to be recorded")
	}
	if !strings.HasSuffix(item.SubtitleFile, "lecture.srt") {
		t.Errorf("unexpected subtitle path %q", item.SubtitleFile)
	}
	data, err := os.ReadFile(item.SubtitleFile)
	if err != nil {
		t.Fatalf("read subtitle file: %v", err)
	}
	if !strings.Contains(string(data), "你好。") {
		t.Errorf("subtitle file missing cue text: %q", string(data))
	}
	if item.ProgressPercent != 100 {
		t.Errorf("expected completed progress, got %.0f", item.ProgressPercent)
	}
	if len(notifier.cueCounts) != 1 || notifier.cueCounts[0] != 2 {
		t.Errorf("expected one notification with 2 cues, got %v", notifier.cueCounts)
	}
}

func TestExecuteFallsBackToTranscriptSplitting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	generator := subtitles.NewGeneratorWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))
	generator.WithResultLoader(func(string) (funasr.Result, error) {
		return funasr.Result{Text: "第一句。第二句。"}, nil
	})

	item := newStageItem(t, t.TempDir())
	if err := generator.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if item.SubtitleFile == "" {
		t.Fatal("expected subtitle file from transcript fallback")
	}
	if count, err := subtitles.CountCues(item.SubtitleFile); err != nil || count != 2 {
		t.Errorf("expected 2 cues, got %d (err %v)", count, err)
	}
}

func TestExecuteSkipsWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Subtitles.Enabled = false
	store := testsupport.MustOpenStore(t, cfg)
	generator := subtitles.NewGeneratorWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))

	item := newStageItem(t, t.TempDir())
	if err := generator.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if item.SubtitleFile != "" {
		t.Errorf("expected no subtitle file when disabled, got %q", item.SubtitleFile)
	}
}

func TestExecuteRequiresTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	generator := subtitles.NewGeneratorWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))

	item := &queue.Item{ID: 9, Title: "Empty", Status: queue.StatusSubtitling}
	err := generator.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for missing transcript")
	}
	if !strings.Contains(err.Error(), "transcript") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecuteRejectsEmptyResult(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	generator := subtitles.NewGeneratorWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))
	generator.WithResultLoader(func(string) (funasr.Result, error) {
		return funasr.Result{}, nil
	})

	item := newStageItem(t, t.TempDir())
	err := generator.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for empty recognition result")
	}
	if !strings.Contains(err.Error(), "no subtitle cues") {
		t.Errorf("unexpected error: %v", err)
	}
}
