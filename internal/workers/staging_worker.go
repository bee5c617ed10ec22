package workers

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"mediahub_backend/internal/logger"
)

// StagingWorker removes staged upload files that outlived their request,
// e.g. after a crash between staging and upload.
type StagingWorker struct {
	dir      string
	ttl      time.Duration
	interval time.Duration
}

func NewStagingWorker(dir string, ttl, interval time.Duration) *StagingWorker {
	return &StagingWorker{dir: dir, ttl: ttl, interval: interval}
}

// Start запускает очистку: первый проход сразу, затем по тикеру
func (w *StagingWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *StagingWorker) run(ctx context.Context) {
	w.Sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Staging worker stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep removes regular files in the staging directory older than the TTL
// and returns how many were removed.
func (w *StagingWorker) Sweep() int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WorkerLog("staging", "sweep", err)
		}
		return 0
	}

	cutoff := time.Now().Add(-w.ttl)
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		p := filepath.Join(w.dir, e.Name())
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove stale staged file", "path", p, "error", err.Error())
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Removed stale staged files", "dir", w.dir, "count", removed)
	}
	return removed
}
