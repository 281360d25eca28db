package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/savscan/internal/storage"
)

// Change kinds reported by Dir.
const (
	Created = "created"
	Updated = "updated"
	Deleted = "deleted"
)

// DirFunc receives one change under a watched save directory. path is
// relative to the storage root.
type DirFunc func(kind, path, checksum string)

// Dir watches root and all its subdirectories and reports save files that
// appear, change or disappear. After each debounced burst of events the
// store listing is compared with the previous one; that single reconcile
// covers writes, removals and renames alike. Dir blocks until ctx is
// cancelled.
func Dir(ctx context.Context, store storage.Provider, root string, fn DirFunc, opts ...Option) error {
	w := &watcher{
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}

	known, err := snapshot(store)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := addDirsRecursive(fw, root); err != nil {
		return fmt.Errorf("watch: add %s: %w", root, err)
	}

	w.logger.Info("watcher: started", slog.String("root", root), slog.Int("saves", len(known)))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			timerCh = timer.C
		} else {
			timer.Reset(w.debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			known = reconcile(store, known, w.logger, fn)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(fw, ev.Name); addErr != nil {
						w.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						w.logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
				}
			}
			schedule()

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func snapshot(store storage.Provider) (map[string]string, error) {
	metas, err := store.List("")
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(metas))
	for _, m := range metas {
		out[m.Path] = m.Checksum
	}
	return out, nil
}

// reconcile diffs the current listing against known and reports every
// difference. On a listing error the previous state is kept.
func reconcile(store storage.Provider, known map[string]string, logger *slog.Logger, fn DirFunc) map[string]string {
	current, err := snapshot(store)
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return known
	}
	for p := range known {
		if _, ok := current[p]; !ok {
			logger.Debug("reconcile: removed", slog.String("path", p))
			fn(Deleted, p, "")
		}
	}
	for p, sum := range current {
		prev, ok := known[p]
		switch {
		case !ok:
			logger.Debug("reconcile: added", slog.String("path", p))
			fn(Created, p, sum)
		case prev != sum:
			logger.Debug("reconcile: changed", slog.String("path", p))
			fn(Updated, p, sum)
		}
	}
	return current
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
