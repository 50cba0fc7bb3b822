// Package watch triggers rebuilds when the files a build reads
// change.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a Watcher waits after the last change
// before rebuilding.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a fixed set of files.
type Watcher struct {
	Files    []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run watches the files until ctx is cancelled, calling rebuild once
// for every burst of changes. A failed rebuild is logged and watching
// continues.
//
// Directories rather than files are watched, since editors commonly
// replace a file on save, which would end a watch on the file itself.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context) error) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	files := make(map[string]struct{}, len(w.Files))
	dirs := make(map[string]struct{}, len(w.Files))
	for _, file := range w.Files {
		if file == "" {
			continue
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("resolve %q: %w", file, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		err := fw.Add(dir)
		if err != nil {
			return fmt.Errorf("watch %q: %w", dir, err)
		}
	}

	logger.Info("Watching for changes", "files", len(files))

	d := newDebouncer(debounce)
	defer d.stop()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if _, ok := files[filepath.Clean(event.Name)]; !ok {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("Change detected", "file", event.Name, "op", event.Op.String())
			d.trigger()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "error", err)

		case <-d.C():
			err := rebuild(ctx)
			if err != nil {
				logger.Error("Rebuild failed", "error", err)
			}
		}
	}
}

// debouncer fires once, delay after the most recent trigger.
type debouncer struct {
	delay time.Duration
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	t := time.NewTimer(delay)
	if !t.Stop() {
		<-t.C
	}
	return &debouncer{delay: delay, timer: t}
}

func (d *debouncer) trigger() {
	d.timer.Reset(d.delay)
}

func (d *debouncer) C() <-chan time.Time {
	return d.timer.C
}

func (d *debouncer) stop() {
	d.timer.Stop()
}
