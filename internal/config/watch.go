package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadDebounce is the debounce window for config watcher events.
const ReloadDebounce = 400 * time.Millisecond

// WatchService watches the configuration file and signals when it
// changes, so the running application can reload its settings. It
// watches the containing directory rather than the file itself because
// most editors replace config files on save.
type WatchService struct {
	Started     bool
	Waiting     bool
	Events      chan struct{}
	Done        chan struct{}
	Path        string
	LastRefresh time.Time

	watcher *fsnotify.Watcher
	logf    func(string, ...any)
}

// NewWatchService creates a new WatchService.
func NewWatchService(logf func(string, ...any)) *WatchService {
	return &WatchService{logf: logf}
}

// Start initialises the watcher on the config file path and starts the
// background goroutine. Returns whether watching actually started.
func (w *WatchService) Start(path string) (bool, error) {
	if w.Started || path == "" {
		return false, nil
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		w.debugf("config watch: no directory %s", dir)
		return false, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return false, err
	}

	w.Started = true
	w.watcher = watcher
	w.Path = path
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})

	go w.run()
	return true, nil
}

// Stop stops the watcher and closes channels.
func (w *WatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// NextEvent returns the event channel if waiting is not already active.
func (w *WatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *WatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldReload checks debounce timing for watcher events.
func (w *WatchService) ShouldReload(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < ReloadDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *WatchService) Signal() {
	select {
	case <-w.Done:
		return
	default:
	}
	select {
	case w.Events <- struct{}{}:
	default:
	}
}

func (w *WatchService) run() {
	for {
		select {
		case <-w.Done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.Path) {
				continue
			}
			w.Signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("config watcher error: %v", err)
		}
	}
}

func (w *WatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
