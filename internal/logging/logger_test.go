package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"soundshield/internal/logging"
	"soundshield/internal/services"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "soundshield.log")

	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("transcript ready", logging.String("source_file", "demo.mp3"))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "transcript ready") {
		t.Fatalf("expected message in log output, got %q", content)
	}
	if !strings.Contains(content, "source_file: demo.mp3") {
		t.Fatalf("expected attr detail line, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "ctx.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 42)
	ctx = services.WithStage(ctx, "transcribing")

	logging.WithContext(ctx, logger).Info("stage started")

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"item_id":42`) {
		t.Fatalf("expected item_id field, got %q", content)
	}
	if !strings.Contains(content, `"stage":"transcribing"`) {
		t.Fatalf("expected stage field, got %q", content)
	}
}

func TestFormatSubject(t *testing.T) {
	cases := []struct {
		component, itemID, stage string
		want                     string
	}{
		{"Transcriber", "3", "transcribing", "Transcriber · Item #3 (transcribing)"},
		{"Transcriber", "", "", "Transcriber"},
		{"", "7", "", "Item #7"},
		{"", "", "", ""},
	}
	for _, tc := range cases {
		if got := logging.FormatSubject(tc.component, tc.itemID, tc.stage); got != tc.want {
			t.Fatalf("FormatSubject(%q,%q,%q) = %q, want %q", tc.component, tc.itemID, tc.stage, got, tc.want)
		}
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	oldLog := filepath.Join(dir, "soundshield-old.log")
	keepLog := filepath.Join(dir, "soundshield-current.log")
	for _, path := range []string{oldLog, keepLog} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	stale := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(oldLog, stale, stale); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	logging.CleanupOldLogs(logging.NewNop(), 7, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "soundshield-*.log",
		Exclude: []string{keepLog},
	})

	if _, err := os.Stat(oldLog); !os.IsNotExist(err) {
		t.Fatalf("expected old log removed, stat err: %v", err)
	}
	if _, err := os.Stat(keepLog); err != nil {
		t.Fatalf("expected current log kept: %v", err)
	}
}
