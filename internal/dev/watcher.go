package dev

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/routestate/pkg/routeconfig"
)

// DefaultDebounce is used when WatcherConfig.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc receives the re-loaded configuration, or the error that
// prevented loading it.
type ReloadFunc func(root routeconfig.Node, err error)

// WatcherConfig configures the route file watcher.
type WatcherConfig struct {
	// Path is the route configuration file.
	Path string

	// Debounce is the quiet period after the last event before reloading.
	Debounce time.Duration

	// Logger receives watcher events. Defaults to slog.Default().
	Logger *slog.Logger
}

// Watcher reloads a route configuration file when it changes.
//
// The directory holding the file is watched rather than the file itself so
// that editors replacing the file on save are followed.
type Watcher struct {
	config   WatcherConfig
	onReload ReloadFunc
	fs       *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for config.Path calling onReload after each
// debounced change.
func NewWatcher(config WatcherConfig, onReload ReloadFunc) (*Watcher, error) {
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	abs, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, err
	}
	config.Path = abs

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, err
	}

	return &Watcher{config: config, onReload: onReload, fs: fs}, nil
}

// Run processes file events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("watch error", "error", err)
		}
	}
}

// Close stops watching. Run returns once the event channels close.
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fs.Close()
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.config.Path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	w.config.Logger.Debug("route file changed", "path", event.Name, "op", event.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.reload)
}

func (w *Watcher) reload() {
	root, err := Load(w.config.Path)
	if err != nil {
		w.config.Logger.Warn("route file rejected", "path", w.config.Path, "error", err)
	} else {
		w.config.Logger.Info("route file reloaded", "path", w.config.Path)
	}
	w.onReload(root, err)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Load reads and validates a route configuration file.
func Load(path string) (routeconfig.Node, error) {
	root, err := routeconfig.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if err := routeconfig.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}
