// Package watch re-runs a callback whenever a single file's content changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/savscan/internal/checksum"
)

// DefaultDebounce is the quiet period after the last event before the file
// is re-read.
const DefaultDebounce = 250 * time.Millisecond

// ChangeFunc receives the new file content. A returned error is logged and
// the watcher keeps running; the same content is offered again on the next
// event.
type ChangeFunc func(ctx context.Context, data []byte) error

// Option configures Watch.
type Option func(*watcher)

type watcher struct {
	debounce time.Duration
	logger   *slog.Logger
	last     string
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *watcher) {
		w.logger = logger
	}
}

// WithChecksum seeds the checksum of the content already reported, so an
// event that leaves the file unchanged does not trigger fn.
func WithChecksum(sum string) Option {
	return func(w *watcher) {
		w.last = sum
	}
}

// Watch watches the directory containing path and calls fn after each
// debounced burst of create, write or rename events on path whose content
// checksum differs from the last one handled. It blocks until ctx is
// cancelled.
//
// The parent directory is watched rather than the file itself so that a
// save replaced by rename is still followed.
func Watch(ctx context.Context, path string, fn ChangeFunc, opts ...Option) error {
	w := &watcher{
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}

	w.logger.Info("watcher: started", slog.String("path", abs))

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
			w.check(ctx, abs, fn)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				w.logger.Debug("watcher: event", slog.String("op", ev.Op.String()))
				schedule()
			}

		case watchErr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (w *watcher) check(ctx context.Context, abs string, fn ChangeFunc) {
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.logger.Debug("watcher: file gone, waiting", slog.String("path", abs))
			return
		}
		w.logger.Warn("watcher: read failed", slog.String("path", abs), slog.String("error", err.Error()))
		return
	}
	sum := checksum.Sum(data)
	if sum == w.last {
		w.logger.Debug("watcher: content unchanged", slog.String("checksum", checksum.Short(sum)))
		return
	}
	if err := fn(ctx, data); err != nil {
		w.logger.Warn("watcher: reload failed", slog.String("path", abs), slog.String("error", err.Error()))
		return
	}
	w.last = sum
}
