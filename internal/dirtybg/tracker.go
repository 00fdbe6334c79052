package dirtybg

import (
	"github.com/skallinen/clj-dirty-bg/internal/config"
	"github.com/skallinen/clj-dirty-bg/internal/host"
)

// Tracker holds the dirty flag for one buffer and keeps the buffer's
// background override in sync with it. A buffer is dirty when it has
// been edited since the last successful cleaning command, or since
// tracking started, whichever is later.
//
// Both transitions are idempotent and re-apply their color even when
// the state does not change, which keeps the override handle fresh if
// anything else touched the buffer's presentation in between.
type Tracker struct {
	buf      host.BufferID
	applier  *Applier
	dirty    bool
	override host.OverrideHandle

	// detach cancels the change subscription; owned by the Controller.
	detach func()
}

// NewTracker creates a tracker for buf. The caller is expected to call
// MarkDirty immediately: an untracked buffer is assumed unevaluated.
func NewTracker(buf host.BufferID, applier *Applier) *Tracker {
	return &Tracker{buf: buf, applier: applier}
}

// MarkDirty records that the buffer has unevaluated edits and applies
// the dirty color.
func (t *Tracker) MarkDirty(s config.Settings) {
	t.dirty = true
	t.override = t.applier.Apply(t.buf, t.override, s.DirtyColor)
}

// MarkClean records that the buffer's content was fully evaluated and
// applies the clean color, or removes the override when no clean color
// is configured.
func (t *Tracker) MarkClean(s config.Settings) {
	t.dirty = false
	t.override = t.applier.Apply(t.buf, t.override, s.CleanColor)
}

// Dirty reports whether the buffer has unevaluated edits.
func (t *Tracker) Dirty() bool {
	return t.dirty
}

// release drops any live override without touching the dirty flag.
// Used when tracking is disabled for the buffer.
func (t *Tracker) release() {
	t.override = t.applier.Apply(t.buf, t.override, "")
}
