package daemon

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	"soundshield/internal/config"
	"soundshield/internal/logging"
	"soundshield/internal/media"
	"soundshield/internal/notifications"
	"soundshield/internal/queue"
)

// settleDelay gives the OS time to finish writing a file that just appeared
// before it is enqueued.
const settleDelay = 2 * time.Second

// watchMonitor scans the removable-media mount root for new recordings and
// enqueues them automatically.
type watchMonitor struct {
	cfg      *config.Config
	store    *queue.Store
	logger   *slog.Logger
	notifier notifications.Service

	mountRoot    string
	pollInterval time.Duration
	scanNow      chan struct{}

	mu      sync.Mutex
	running bool
	seen    map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newWatchMonitor(cfg *config.Config, store *queue.Store, logger *slog.Logger) *watchMonitor {
	if cfg == nil || store == nil {
		return nil
	}
	mountRoot := strings.TrimSpace(cfg.Watch.MountRoot)
	if mountRoot == "" {
		return nil
	}

	poll := time.Duration(cfg.Workflow.QueuePollInterval) * time.Second
	if poll <= 0 {
		poll = 5 * time.Second
	}

	return &watchMonitor{
		cfg:          cfg,
		store:        store,
		logger:       logging.NewComponentLogger(logger, "watch-monitor"),
		notifier:     notifications.NewService(cfg),
		mountRoot:    mountRoot,
		pollInterval: poll,
		scanNow:      make(chan struct{}, 1),
		seen:         make(map[string]time.Time),
	}
}

func (m *watchMonitor) Start(ctx context.Context) error {
	if m == nil {
		return errors.New("watch monitor unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return errors.New("watch monitor already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.ctx = runCtx
	m.cancel = cancel
	m.running = true

	m.wg.Add(1)
	go m.loop()
	m.logger.Info("watch monitor started", logging.String("mount_root", m.mountRoot))
	return nil
}

func (m *watchMonitor) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
	m.logger.Info("watch monitor stopped")
}

// Running reports whether the monitor loop is active.
func (m *watchMonitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// ScanNow requests an immediate scan, used when a device mount event arrives.
func (m *watchMonitor) ScanNow() {
	if m == nil {
		return
	}
	select {
	case m.scanNow <- struct{}{}:
	default:
	}
}

func (m *watchMonitor) loop() {
	defer m.wg.Done()

	m.scan()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-m.scanNow:
			m.scan()
		case <-ticker.C:
			m.scan()
		}
	}
}

func (m *watchMonitor) scan() {
	ctx := m.ctx
	if ctx == nil {
		return
	}

	now := time.Now()
	err := filepath.WalkDir(m.mountRoot, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if strings.HasPrefix(entry.Name(), ".") && path != m.mountRoot {
				return fs.SkipDir
			}
			return nil
		}
		if !media.IsSupportedFile(path) {
			return nil
		}
		m.consider(ctx, path, now)
		return nil
	})
	if err != nil {
		m.logger.Warn("mount root scan failed; will retry",
			logging.Error(err),
			logging.String("mount_root", m.mountRoot),
			logging.String(logging.FieldErrorHint, "check that the mount root exists and is readable"),
		)
	}

	m.pruneSeen(now)
}

func (m *watchMonitor) consider(ctx context.Context, path string, now time.Time) {
	m.mu.Lock()
	first, ok := m.seen[path]
	if !ok {
		m.seen[path] = now
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// Wait for the file to settle across at least one poll round.
	if now.Sub(first) < settleDelay {
		return
	}

	existing, err := m.store.FindBySourcePath(ctx, path)
	if err != nil {
		m.logger.Warn("queue lookup failed", logging.Error(err), logging.String("source", path))
		return
	}
	if existing != nil {
		return
	}

	item, err := m.store.NewFile(ctx, path)
	if err != nil {
		m.logger.Warn("failed to enqueue detected file", logging.Error(err), logging.String("source", path))
		return
	}
	m.logger.Info("media file detected",
		logging.String(logging.FieldEventType, "file_detected"),
		logging.Int64(logging.FieldItemID, item.ID),
		logging.String("source", path),
	)
	if m.notifier != nil {
		if err := m.notifier.NotifyFileDetected(ctx, item.Title); err != nil {
			m.logger.Warn("detection notification failed", logging.Error(err))
		}
	}
}

// pruneSeen drops entries for files that disappeared, so a re-inserted drive
// with the same file names is picked up again after queue clears.
func (m *watchMonitor) pruneSeen(now time.Time) {
	const maxAge = 24 * time.Hour
	m.mu.Lock()
	defer m.mu.Unlock()
	for path, first := range m.seen {
		if now.Sub(first) > maxAge {
			delete(m.seen, path)
		}
	}
}
