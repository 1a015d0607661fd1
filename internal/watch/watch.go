// Package watch re-runs an action whenever a file changes. It backs
// "stubtree apply --watch", which keeps a tree in step with its layout file.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 300 * time.Millisecond

// Options configure a watch loop.
type Options struct {
	File     string
	Debounce time.Duration
	Logger   *slog.Logger
}

// Run calls action once, then again after every change to opts.File, until
// ctx is cancelled. Action errors are logged and the loop keeps going, so a
// half-edited file does not end the session. Run returns nil on cancellation.
func Run(ctx context.Context, opts Options, action func(context.Context) error) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	target, err := filepath.Abs(opts.File)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", opts.File, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file by rename, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	runAction := func() {
		if err := action(ctx); err != nil {
			logger.Warn("apply failed", "file", opts.File, "error", err)
		}
	}
	runAction()

	changed, trigger, stop := debouncer(opts.Debounce)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			logger.Info("layout changed; re-applying", "file", opts.File)
			runAction()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, target) {
				continue
			}
			logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func relevant(ev fsnotify.Event, target string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// debouncer returns a channel that fires once per quiet period after trigger
// calls, the trigger itself, and a stop function.
func debouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return fire, trigger, stop
}
