package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundshield/internal/logging"
	"soundshield/internal/notifications"
	"soundshield/internal/organizer"
	"soundshield/internal/queue"
	"soundshield/internal/services/funasr"
	"soundshield/internal/subtitles"
	"soundshield/internal/testsupport"
)

type completionNotifier struct {
	notifications.Service
	titles      []string
	transcripts []string
}

func (c *completionNotifier) NotifyProcessingCompleted(ctx context.Context, title, transcriptPath string) error {
	c.titles = append(c.titles, title)
	c.transcripts = append(c.transcripts, transcriptPath)
	return nil
}

func newExportItem(t *testing.T, stagingDir string, withSubtitles bool) *queue.Item {
	t.Helper()
	itemDir := filepath.Join(stagingDir, "queue-3")
	if err := os.MkdirAll(itemDir, 0o755); err != nil {
		t.Fatalf("mkdir staging: %v", err)
	}
	transcript := filepath.Join(itemDir, "talk.json")
	if err := os.WriteFile(transcript, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	item := &queue.Item{
		ID:              3,
		Title:           "Morning Talk",
		Status:          queue.StatusExporting,
		TranscriptFile:  transcript,
		DurationSeconds: 10,
	}
	if withSubtitles {
		srt := filepath.Join(itemDir, "talk.srt")
		cues := []subtitles.Cue{{Start: 0, End: 5, Text: "你好。"}}
		if err := subtitles.WriteSRT(srt, cues); err != nil {
			t.Fatalf("write srt: %v", err)
		}
		item.SubtitleFile = srt
	}
	return item
}

func stubLoader(text string, sentences []funasr.Sentence) func(string) (funasr.Result, error) {
	return func(string) (funasr.Result, error) {
		return funasr.Result{Text: text, Sentences: sentences}, nil
	}
}

func TestExecuteExportsTranscriptAndSubtitles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	notifier := &completionNotifier{Service: notifications.NewService(cfg)}
	org := organizer.NewOrganizerWithDependencies(cfg, store, logging.NewNop(), notifier)
	org.WithResultLoader(stubLoader("你好。", []funasr.Sentence{{Text: "你好。", Start: 0, End: 5}}))

	item := newExportItem(t, cfg.Paths.StagingDir, true)
	if err := org.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare returned error: %v", err)
	}
	if err := org.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	wantTranscript := filepath.Join(cfg.Paths.OutputDir, "Morning Talk.txt")
	if item.FinalTranscript != wantTranscript {
		t.Errorf("FinalTranscript = %q, want %q", item.FinalTranscript, wantTranscript)
	}
	data, err := os.ReadFile(item.FinalTranscript)
	if err != nil {
		t.Fatalf("read exported transcript: %v", err)
	}
	if !strings.Contains(string(data), "你好。") {
		t.Errorf("exported transcript missing text: %q", string(data))
	}

	wantSubtitle := filepath.Join(cfg.Paths.OutputDir, "Morning Talk.srt")
	if item.FinalSubtitle != wantSubtitle {
		t.Errorf("FinalSubtitle = %q, want %q", item.FinalSubtitle, wantSubtitle)
	}
	if _, err := os.Stat(wantSubtitle); err != nil {
		t.Errorf("expected subtitle in output dir: %v", err)
	}

	itemDir := filepath.Join(cfg.Paths.StagingDir, "queue-3")
	if _, err := os.Stat(itemDir); !os.IsNotExist(err) {
		t.Errorf("expected staging dir removed, stat err = %v", err)
	}
	if len(notifier.titles) != 1 || notifier.titles[0] != "Morning Talk" {
		t.Errorf("unexpected completion notifications: %v", notifier.titles)
	}
}

func TestExecuteRespectsExportToggles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Export.Transcript = false
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizerWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))
	org.WithResultLoader(stubLoader("text", nil))

	item := newExportItem(t, cfg.Paths.StagingDir, true)
	if err := org.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if item.FinalTranscript != "" {
		t.Errorf("expected no transcript export, got %q", item.FinalTranscript)
	}
	if item.FinalSubtitle == "" {
		t.Error("expected subtitle export to proceed")
	}
}

func TestExecuteAvoidsOverwritingExistingExports(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Export.OverwriteExisting = false
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizerWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))
	org.WithResultLoader(stubLoader("later text", nil))

	existing := filepath.Join(cfg.Paths.OutputDir, "Morning Talk.txt")
	if err := os.WriteFile(existing, []byte("earlier text"), 0o644); err != nil {
		t.Fatalf("seed existing export: %v", err)
	}

	item := newExportItem(t, cfg.Paths.StagingDir, false)
	if err := org.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if item.FinalTranscript == existing {
		t.Fatalf("expected unique path, got %q", item.FinalTranscript)
	}
	data, err := os.ReadFile(existing)
	if err != nil || string(data) != "earlier text" {
		t.Errorf("existing export was modified: %q (err %v)", string(data), err)
	}
}

func TestExecuteRequiresTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizerWithDependencies(cfg, store, logging.NewNop(), notifications.NewService(cfg))

	item := &queue.Item{ID: 4, Title: "Empty", Status: queue.StatusExporting}
	err := org.Execute(context.Background(), item)
	if err == nil {
		t.Fatal("expected error for missing transcript")
	}
	if !strings.Contains(err.Error(), "transcript") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHealthCheckRequiresWritableOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizer(cfg, store, logging.NewNop())

	if health := org.HealthCheck(context.Background()); !health.Ready {
		t.Errorf("expected healthy organizer, got %q", health.Detail)
	}

	cfg.Paths.OutputDir = filepath.Join(t.TempDir(), "missing")
	if health := org.HealthCheck(context.Background()); health.Ready {
		t.Error("expected unhealthy organizer for missing output dir")
	}
}
