// Package dirtybg tracks, per buffer, whether edits exist that have
// not yet been covered by a successful whole-buffer evaluation, and
// mirrors that state as a background-color override on the buffer.
package dirtybg

import "github.com/skallinen/clj-dirty-bg/internal/host"

// Applier swaps background overrides on buffers. It guarantees that at
// most one override issued through it is live per buffer: the previous
// handle is always released before a new override is installed.
type Applier struct {
	styles host.StyleOverrides
}

// NewApplier creates an Applier over the host's style capability.
func NewApplier(styles host.StyleOverrides) *Applier {
	return &Applier{styles: styles}
}

// Apply releases prev, then installs color as the buffer's background
// override and returns its handle. An empty color installs nothing and
// returns the zero handle, leaving the buffer with no override.
func (a *Applier) Apply(buf host.BufferID, prev host.OverrideHandle, color host.Color) host.OverrideHandle {
	if prev != 0 {
		a.styles.Release(prev)
	}
	if color == "" {
		return 0
	}
	return a.styles.Apply(buf, color)
}
