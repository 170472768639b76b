package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of filesystem events most editors
// emit for a single save.
const reloadDebounce = 50 * time.Millisecond

// Watcher holds an in-memory snapshot of the configuration and reloads it
// when the file changes, so the daemon picks up edits without a restart.
// It implements Provider; reads are lock-free pointer loads.
type Watcher struct {
	manager *Manager
	watcher *fsnotify.Watcher
	current atomic.Pointer[Config]
	done    chan struct{}
}

// NewWatcher loads the current configuration and starts watching its file.
func NewWatcher(manager *Manager) (*Watcher, error) {
	cfg, err := manager.Load()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		manager: manager,
		watcher: fw,
		done:    make(chan struct{}),
	}
	w.current.Store(cfg)

	// Watch the directory rather than the file: editors and Save replace
	// the file on write, which would orphan a watch on the path itself.
	dir := filepath.Dir(manager.GetConfigPath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.watchLoop()
	return w, nil
}

// Current returns the latest configuration snapshot.
func (w *Watcher) Current() *Config {
	return w.current.Load()
}

// MaxHistorySize implements Provider
func (w *Watcher) MaxHistorySize() int {
	return w.current.Load().MaxHistorySize
}

// MonitorTerminalApps implements Provider
func (w *Watcher) MonitorTerminalApps() bool {
	return w.current.Load().MonitorTerminalApps
}

// Close stops watching the configuration file.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

// watchLoop processes filesystem events with a short debounce
func (w *Watcher) watchLoop() {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	configPath := filepath.Clean(w.manager.GetConfigPath())

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != configPath {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(reloadDebounce)

		case <-debounce.C:
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "err", err)
		}
	}
}

// reload re-reads the file, keeping the previous snapshot when the new
// contents do not parse
func (w *Watcher) reload() {
	cfg, err := w.manager.Load()
	if err != nil {
		slog.Warn("config reload failed, keeping previous settings", "err", err)
		return
	}

	w.current.Store(cfg)
	slog.Info("configuration reloaded",
		"max_history_size", cfg.MaxHistorySize,
		"monitor_terminal_apps", cfg.MonitorTerminalApps)
}
