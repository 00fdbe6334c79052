package dirtybg

import (
	"github.com/skallinen/clj-dirty-bg/internal/config"
	"github.com/skallinen/clj-dirty-bg/internal/host"
)

// Controller owns the dirty-state trackers for all buffers where the
// highlight is active. It attaches change listeners on enable, keeps
// the process-wide command watcher installed, and routes completion
// events to the right tracker.
//
// All methods must be called from the host's event dispatch; the
// Controller does no locking of its own.
type Controller struct {
	host     host.Host
	settings func() config.Settings
	applier  *Applier
	watcher  *Watcher
	states   map[host.BufferID]*Tracker
	logf     func(string, ...any)
}

// New creates a Controller. settings is called on every transition so
// a hot-reloaded configuration takes effect without re-enabling.
func New(h host.Host, settings func() config.Settings, logf func(string, ...any)) *Controller {
	return &Controller{
		host:     h,
		settings: settings,
		applier:  NewApplier(h.Styles()),
		watcher:  NewWatcher(logf),
		states:   make(map[host.BufferID]*Tracker),
		logf:     logf,
	}
}

// Enable starts dirty tracking for buf: the buffer is assumed
// unevaluated, so it enters the Dirty state with the dirty color
// applied immediately. Enabling an already enabled buffer is a no-op.
func (c *Controller) Enable(buf host.BufferID) {
	if _, ok := c.states[buf]; ok {
		return
	}

	t := NewTracker(buf, c.applier)
	c.states[buf] = t
	t.MarkDirty(c.settings())
	t.detach = c.host.Changes().Subscribe(buf, func(host.Change) {
		// Any mutation counts, whatever its size or origin.
		c.MarkDirty(buf)
	})
	c.EnsureWatcher()
	c.debugf("dirtybg enabled for %s", buf)
}

// Disable stops tracking buf, releasing its override and discarding
// its state. Re-enabling later restarts from Dirty.
func (c *Controller) Disable(buf host.BufferID) {
	t, ok := c.states[buf]
	if !ok {
		return
	}
	if t.detach != nil {
		t.detach()
	}
	t.release()
	delete(c.states, buf)
	c.debugf("dirtybg disabled for %s", buf)
}

// Toggle flips tracking for buf.
func (c *Controller) Toggle(buf host.BufferID) {
	if c.Enabled(buf) {
		c.Disable(buf)
		return
	}
	c.Enable(buf)
}

// Enabled reports whether buf is being tracked.
func (c *Controller) Enabled(buf host.BufferID) bool {
	_, ok := c.states[buf]
	return ok
}

// Dirty reports the dirty flag for buf; false for untracked buffers.
func (c *Controller) Dirty(buf host.BufferID) bool {
	t, ok := c.states[buf]
	return ok && t.Dirty()
}

// MarkDirty marks buf as having unevaluated edits. Safe no-op when buf
// is not tracked.
func (c *Controller) MarkDirty(buf host.BufferID) {
	t, ok := c.states[buf]
	if !ok {
		return
	}
	t.MarkDirty(c.settings())
}

// MarkClean marks buf as fully evaluated. Safe no-op when buf is not
// tracked, so completion events never need an existence check first.
func (c *Controller) MarkClean(buf host.BufferID) {
	t, ok := c.states[buf]
	if !ok {
		return
	}
	t.MarkClean(c.settings())
}

// Autowire enables tracking for buf when its language mode is one the
// configuration follows. Called on buffer activation; re-entrant.
func (c *Controller) Autowire(buf host.BufferID) {
	s := c.settings()
	if !s.AutoEnable {
		return
	}
	if !s.Follows(c.host.Mode(buf)) {
		return
	}
	c.Enable(buf)
}

// Refresh re-applies the current color of every tracked buffer. Called
// after the settings snapshot changed so new colors show up without
// waiting for the next edit or evaluation.
func (c *Controller) Refresh() {
	s := c.settings()
	for _, t := range c.states {
		if t.Dirty() {
			t.MarkDirty(s)
		} else {
			t.MarkClean(s)
		}
	}
}

// EnsureWatcher installs the command-completion watcher if the host's
// command provider is available. Idempotent; call again whenever the
// provider may have appeared.
func (c *Controller) EnsureWatcher() bool {
	return c.watcher.EnsureInstalled(c.host.Commands(), c.onCommandDone)
}

// WatcherInstalled reports whether the completion watcher is live.
func (c *Controller) WatcherInstalled() bool {
	return c.watcher.Installed()
}

// onCommandDone clears the dirty flag of the buffer a cleaning command
// acted on. Failed runs leave the buffer dirty: an evaluation that
// raised partway through has not covered the whole buffer.
func (c *Controller) onCommandDone(cmd host.CommandID, buf host.BufferID, ok bool) {
	if !ok {
		return
	}
	if !c.settings().Cleans(cmd) {
		return
	}
	c.MarkClean(buf)
}

func (c *Controller) debugf(format string, args ...any) {
	if c.logf == nil {
		return
	}
	c.logf(format, args...)
}
