package daemon_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soundshield/internal/daemon"
	"soundshield/internal/logging"
	"soundshield/internal/queue"
	"soundshield/internal/stage"
	"soundshield/internal/testsupport"
	"soundshield/internal/workflow"
)

type idleStage struct{ name string }

func (s idleStage) Prepare(context.Context, *queue.Item) error { return nil }
func (s idleStage) Execute(context.Context, *queue.Item) error { return nil }
func (s idleStage) HealthCheck(context.Context) stage.Health   { return stage.Healthy(s.name) }

func newTestDaemon(t *testing.T) (*daemon.Daemon, *queue.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	mgr := workflow.NewManager(cfg, store, logging.NewNop())
	mgr.ConfigureStages(workflow.StageSet{Extractor: idleStage{name: "extractor"}})

	d, err := daemon.New(cfg, store, logging.NewNop(), mgr)
	if err != nil {
		t.Fatalf("daemon.New failed: %v", err)
	}
	return d, store
}

func TestStartStopLifecycle(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}

	status := d.Status(ctx)
	if !status.Running {
		t.Error("expected running status")
	}
	if status.LockFilePath == "" {
		t.Error("expected lock path in status")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Error("expected stopped status")
	}
}

func TestAddFileValidation(t *testing.T) {
	d, _ := newTestDaemon(t)
	ctx := context.Background()

	if _, err := d.AddFile(ctx, "  "); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := d.AddFile(ctx, "/does/not/exist.mp3"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	unsupported := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(unsupported, []byte("text"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := d.AddFile(ctx, unsupported); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected unsupported extension error, got %v", err)
	}

	source := filepath.Join(dir, "lecture.mp4")
	if err := os.WriteFile(source, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	item, err := d.AddFile(ctx, source)
	if err != nil {
		t.Fatalf("AddFile failed: %v", err)
	}
	if item.Status != queue.StatusPending {
		t.Errorf("expected pending status, got %s", item.Status)
	}

	if _, err := d.AddFile(ctx, source); err == nil || !strings.Contains(err.Error(), "already queued") {
		t.Errorf("expected duplicate rejection, got %v", err)
	}
}

func TestQueueOperations(t *testing.T) {
	d, store := newTestDaemon(t)
	ctx := context.Background()

	item := testsupport.NewFile(t, store, "/media/usb/a.mp3")
	item.Status = queue.StatusFailed
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	testsupport.NewFile(t, store, "/media/usb/b.mp3")

	items, err := d.ListQueue(ctx, nil)
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	failed, err := d.ListQueue(ctx, []queue.Status{queue.StatusFailed})
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed item, got %d", len(failed))
	}

	retried, err := d.RetryFailed(ctx, nil)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if retried != 1 {
		t.Errorf("expected 1 retried item, got %d", retried)
	}

	health, err := d.QueueHealth(ctx)
	if err != nil {
		t.Fatalf("QueueHealth failed: %v", err)
	}
	if health.Total != 2 {
		t.Errorf("expected 2 total items, got %d", health.Total)
	}

	removed, err := d.ClearQueue(ctx)
	if err != nil {
		t.Fatalf("ClearQueue failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
}

func TestTestNotificationWithoutTopic(t *testing.T) {
	d, _ := newTestDaemon(t)
	sent, message, err := d.TestNotification(context.Background())
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if sent {
		t.Error("expected no send without configured topic")
	}
	if !strings.Contains(message, "not configured") {
		t.Errorf("unexpected message %q", message)
	}
}
