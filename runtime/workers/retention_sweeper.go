package workers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/disk"
)

const DefaultSweepInterval = time.Hour
const DefaultRetentionAge = 72 * time.Hour

// RetentionSweeperWorker reclaims local disk space: each cycle it lists the
// temp directory and removes regular files whose mtime is older than the
// retention age. This is best-effort housekeeping, never a correctness
// path: per-file errors are logged and swallowed so one bad entry cannot
// abort the sweep of the rest.
type RetentionSweeperWorker struct {
	log      *slog.Logger
	dir      string
	interval time.Duration
	maxAge   time.Duration
	now      func() time.Time
}

func NewRetentionSweeperWorker(log *slog.Logger, dir string, interval, maxAge time.Duration) *RetentionSweeperWorker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if maxAge <= 0 {
		maxAge = DefaultRetentionAge
	}
	return &RetentionSweeperWorker{
		log:      log,
		dir:      dir,
		interval: interval,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (w *RetentionSweeperWorker) Run(ctx context.Context) error {
	w.log.Info("Starting retention sweeper", "dir", w.dir, "interval", w.interval, "max_age", w.maxAge)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stopping retention sweeper")
			return ctx.Err()
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one reclamation pass and reports how many files were removed.
func (w *RetentionSweeperWorker) Sweep() int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Error("Failed to list temp directory", "dir", w.dir, "error", err)
		return 0
	}

	cutoff := w.now().Add(-w.maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			w.log.Debug("Failed to stat entry", "name", entry.Name(), "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			w.log.Debug("Failed to remove stale file", "path", path, "error", err)
			continue
		}
		removed++
	}

	w.logUsage(removed)
	return removed
}

func (w *RetentionSweeperWorker) logUsage(removed int) {
	usage, err := disk.Usage(w.dir)
	if err != nil {
		w.log.Debug("Sweep finished", "removed", removed)
		return
	}
	w.log.Info("Sweep finished", "removed", removed, "disk_used_percent", usage.UsedPercent, "disk_free_bytes", usage.Free)
}
