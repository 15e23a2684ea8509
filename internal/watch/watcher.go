package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"cardiostat/internal"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before a rerun
const DefaultDebounce = 500 * time.Millisecond

// Watcher reruns a job whenever one file changes. The parent directory is
// watched so editors that replace the file atomically are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *internal.Logger
}

// New creates a watcher for path
func New(path string, debounce time.Duration, logger *internal.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Watcher{path: path, debounce: debounce, logger: logger.With("watch")}
}

// Run calls onChange once per burst of writes until ctx is done. Errors from
// onChange are logged and watching continues.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	w.logger.Info("watching %s", target)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Trace("%s: %s", event.Op, event.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Info("%s changed, rerunning", filepath.Base(target))
			if err := onChange(ctx); err != nil {
				w.logger.Error("rerun failed: %v", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error: %v", err)
		}
	}
}
