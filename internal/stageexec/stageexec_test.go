package stageexec_test

import (
	"context"
	"testing"

	"soundshield/internal/logging"
	"soundshield/internal/queue"
	"soundshield/internal/stageexec"
	"soundshield/internal/testsupport"
)

func TestRunStopsAtFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	runner := stageexec.NewRunner(cfg, store, logging.NewNop())

	item := testsupport.NewFile(t, store, "/nonexistent/audio.mp3")
	err := runner.Run(context.Background(), item)
	if err == nil {
		t.Fatal("expected failure for missing source file")
	}

	persisted, getErr := store.GetByID(context.Background(), item.ID)
	if getErr != nil {
		t.Fatalf("GetByID failed: %v", getErr)
	}
	if persisted.Status != queue.StatusFailed {
		t.Errorf("expected failed status, got %s", persisted.Status)
	}
	if persisted.ErrorMessage == "" {
		t.Error("expected persisted error message")
	}
}
