package dirtybg

import "github.com/skallinen/clj-dirty-bg/internal/host"

// Watcher is the process-wide registration against the host's
// command-completion events. It is installed at most once and never
// torn down; the host's command provider may load after the feature
// does, in which case installation is retried until the event source
// exists.
type Watcher struct {
	installed bool
	logf      func(string, ...any)
}

// NewWatcher creates an uninstalled watcher.
func NewWatcher(logf func(string, ...any)) *Watcher {
	return &Watcher{logf: logf}
}

// EnsureInstalled subscribes fn to the command event source if that
// has not happened yet. A nil events source leaves the watcher
// uninstalled so a later call can retry. Returns whether the watcher
// is installed after the call.
func (w *Watcher) EnsureInstalled(events host.CommandEvents, fn host.CommandDoneFunc) bool {
	if w.installed {
		return true
	}
	if events == nil {
		w.debugf("command watcher: event source not available yet")
		return false
	}
	events.Subscribe(fn)
	w.installed = true
	w.debugf("command watcher installed")
	return true
}

// Installed reports whether the subscription is live.
func (w *Watcher) Installed() bool {
	return w.installed
}

func (w *Watcher) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
