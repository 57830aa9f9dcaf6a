package manager

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for the file watcher.
type WatcherConfig struct {
	// DebounceInterval is the quiet period before a change triggers a
	// reload, preventing reload storms while files are being written.
	// Default: 100ms.
	DebounceInterval time.Duration

	// Extensions filters change events by file extension.
	// Default: [".ras"].
	Extensions []string
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() *WatcherConfig {
	return &WatcherConfig{
		DebounceInterval: 100 * time.Millisecond,
		Extensions:       []string{".ras"},
	}
}

// Watcher watches RAS source paths for changes and triggers reloads,
// debounced.
type Watcher struct {
	watcher  *fsnotify.Watcher
	config   *WatcherConfig
	logger   *slog.Logger
	debounce *debouncer
}

// NewWatcher creates a file watcher.
func NewWatcher(config *WatcherConfig, logger *slog.Logger) (*Watcher, error) {
	if config == nil {
		config = DefaultWatcherConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		config:   config,
		logger:   logger.With("component", "rules.watcher"),
		debounce: newDebouncer(config.DebounceInterval),
	}, nil
}

// Watch blocks processing change events for the given paths until the
// context is cancelled. Directories are watched directly; for single
// files the parent directory is watched so editor rename-and-replace
// saves are seen.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func()) error {
	for _, path := range paths {
		watchPath := path
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			watchPath = filepath.Dir(path)
		}
		if err := w.watcher.Add(watchPath); err != nil {
			return fmt.Errorf("failed to watch %q: %w", watchPath, err)
		}
		w.logger.Debug("watching path", "path", watchPath)
	}

	for {
		select {
		case <-ctx.Done():
			w.debounce.stop()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("RAS source changed", "path", event.Name, "op", event.Op.String())
			w.debounce.trigger(onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.debounce.stop()
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	for _, allowed := range w.config.Extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// debouncer coalesces bursts of triggers into one callback after a
// quiet interval.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, fn)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
