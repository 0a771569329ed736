package cache

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SeedLoader re-reads the seed list from its source (the config file).
type SeedLoader func() ([]Entry, error)

// Watch re-applies seeds whenever the seed file changes, until ctx is
// cancelled. The parent directory is watched because editors typically
// replace the file on save, and events are debounced so a burst of
// writes triggers one reload.
func Watch(ctx context.Context, db *DB, seedFile string, logger *slog.Logger, load SeedLoader) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(seedFile)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("seed watcher: started", slog.String("file", abs))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("seed watcher: stopped")
			return nil

		case <-reloadCh:
			entries, err := load()
			if err != nil {
				logger.Warn("seed watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if err := db.Seed(entries, logger); err != nil {
				logger.Warn("seed watcher: re-seed failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("seed watcher: seeds re-applied", slog.Int("count", len(entries)))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(abs) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("seed watcher: error", slog.String("error", err.Error()))
		}
	}
}
