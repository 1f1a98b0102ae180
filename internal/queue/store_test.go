package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"soundshield/internal/queue"
	"soundshield/internal/testsupport"
)

func TestOpenCreatesSchemaAndInserts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, err := store.NewFile(ctx, "/media/recordings/team meeting.mp4")
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}
	if item.Title == "" {
		t.Fatal("expected title derived from source path")
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.SourcePath != item.SourcePath {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}

	found, err := store.FindBySourcePath(ctx, item.SourcePath)
	if err != nil {
		t.Fatalf("FindBySourcePath failed: %v", err)
	}
	if found == nil || found.ID != item.ID {
		t.Fatalf("expected to find inserted item, got %#v", found)
	}
}

func TestGetByIDReturnsNilWhenMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	item, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if item != nil {
		t.Fatalf("expected nil item, got %#v", item)
	}
}

func TestUpdatePersistsFields(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewFile(t, store, "/media/lecture.wav")

	item.Status = queue.StatusExtracted
	item.AudioFile = "/staging/lecture.wav"
	item.DurationSeconds = 181.5
	item.Language = "zh"
	item.SetProgress("Extracting audio", "done", 100)
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusExtracted {
		t.Fatalf("unexpected status: %s", fetched.Status)
	}
	if fetched.AudioFile != "/staging/lecture.wav" || fetched.DurationSeconds != 181.5 {
		t.Fatalf("unexpected fields: %#v", fetched)
	}
	if fetched.Language != "zh" || fetched.ProgressPercent != 100 {
		t.Fatalf("unexpected fields: %#v", fetched)
	}
}

func TestNextForStatusesReturnsOldest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first := testsupport.NewFile(t, store, "/media/a.mp3")
	testsupport.NewFile(t, store, "/media/b.mp3")

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected oldest pending item, got %#v", next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusCompleted)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for empty status, got %#v", none)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		initial queue.Status
		want    queue.Status
	}{
		{queue.StatusExtracting, queue.StatusPending},
		{queue.StatusTranscribing, queue.StatusExtracted},
		{queue.StatusSubtitling, queue.StatusTranscribed},
		{queue.StatusExporting, queue.StatusSubtitled},
	}

	ids := make([]int64, 0, len(cases))
	for i, tc := range cases {
		item := testsupport.NewFile(t, store, fmt.Sprintf("/media/file-%d.mp3", i))
		item.Status = tc.initial
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	affected, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if affected != int64(len(cases)) {
		t.Fatalf("expected %d items reset, got %d", len(cases), affected)
	}

	for i, tc := range cases {
		fetched, err := store.GetByID(ctx, ids[i])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if fetched.Status != tc.want {
			t.Fatalf("expected %s after reset of %s, got %s", tc.want, tc.initial, fetched.Status)
		}
	}
}

func TestReclaimStaleProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	stale := testsupport.NewFile(t, store, "/media/stale.mp3")
	stale.Status = queue.StatusTranscribing
	old := time.Now().UTC().Add(-time.Hour)
	stale.LastHeartbeat = &old
	if err := store.Update(ctx, stale); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fresh := testsupport.NewFile(t, store, "/media/fresh.mp3")
	fresh.Status = queue.StatusTranscribing
	now := time.Now().UTC()
	fresh.LastHeartbeat = &now
	if err := store.Update(ctx, fresh); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	affected, err := store.ReclaimStaleProcessing(ctx, time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ReclaimStaleProcessing failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 reclaimed item, got %d", affected)
	}

	reclaimed, err := store.GetByID(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reclaimed.Status != queue.StatusExtracted {
		t.Fatalf("expected extracted after reclaim, got %s", reclaimed.Status)
	}
	if reclaimed.LastHeartbeat != nil {
		t.Fatal("expected heartbeat cleared after reclaim")
	}

	untouched, err := store.GetByID(ctx, fresh.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if untouched.Status != queue.StatusTranscribing {
		t.Fatalf("fresh item should keep status, got %s", untouched.Status)
	}
}

func TestUpdateHeartbeat(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item := testsupport.NewFile(t, store, "/media/talk.mp3")
	if err := store.UpdateHeartbeat(ctx, item.ID); err != nil {
		t.Fatalf("UpdateHeartbeat failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.LastHeartbeat == nil {
		t.Fatal("expected heartbeat set")
	}
}

func TestRetryFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	failed := testsupport.NewFile(t, store, "/media/broken.mp3")
	failed.SetFailed("recognizer crashed")
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	affected, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 retried item, got %d", affected)
	}

	fetched, err := store.GetByID(ctx, failed.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusPending {
		t.Fatalf("expected pending after retry, got %s", fetched.Status)
	}
	if fetched.ErrorMessage != "" {
		t.Fatalf("expected error cleared, got %q", fetched.ErrorMessage)
	}
}

func TestClearHelpers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	completed := testsupport.NewFile(t, store, "/media/done.mp3")
	completed.Status = queue.StatusCompleted
	if err := store.Update(ctx, completed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	failed := testsupport.NewFile(t, store, "/media/bad.mp3")
	failed.Status = queue.StatusFailed
	if err := store.Update(ctx, failed); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	testsupport.NewFile(t, store, "/media/waiting.mp3")

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 completed removed, got %d", removed)
	}

	removed, err = store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 failed removed, got %d", removed)
	}

	removed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 remaining removed, got %d", removed)
	}
}

func TestHealthSummaryCounts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	testsupport.NewFile(t, store, "/media/one.mp3")
	working := testsupport.NewFile(t, store, "/media/two.mp3")
	working.Status = queue.StatusTranscribing
	if err := store.Update(ctx, working); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 2 || health.Pending != 1 || health.Processing != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := queue.ParseStatus(" Pending "); !ok || status != queue.StatusPending {
		t.Fatalf("unexpected parse result: %v %v", status, ok)
	}
	if _, ok := queue.ParseStatus("bogus"); ok {
		t.Fatal("expected unknown status to fail")
	}
	if _, ok := queue.ParseStatus(""); ok {
		t.Fatal("expected empty status to fail")
	}
}
