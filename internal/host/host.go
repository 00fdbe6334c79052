// Package host defines the boundary between the dirty-background core
// and the editor hosting it. The core never talks to a concrete editor
// directly; it sees buffers, modes, commands and style overrides only
// through the types declared here.
package host

// BufferID identifies one open editable unit of text.
type BufferID string

// ModeID identifies a buffer's language mode (e.g. "clojure").
type ModeID string

// CommandID names a host command (e.g. "eval-buffer").
type CommandID string

// The evaluator's whole-buffer operations. These are the default
// cleaning commands.
const (
	CmdEvalBuffer CommandID = "eval-buffer"
	CmdLoadBuffer CommandID = "load-buffer"
	CmdLoadFile   CommandID = "load-file"
)

// Color is a background color value understood by the host, typically
// a hex string. The empty string means "no override".
type Color string

// OverrideHandle identifies a background override issued by the host's
// style capability. The zero handle means "no override held".
type OverrideHandle uint64

// StyleOverrides applies and releases background overrides on a
// buffer's default text style. Both operations act only on in-memory
// presentation state and cannot fail.
type StyleOverrides interface {
	// Apply installs a background override for the buffer and returns
	// a handle for it.
	Apply(buf BufferID, color Color) OverrideHandle
	// Release removes a previously applied override. Releasing the
	// zero handle or an already released handle is a no-op.
	Release(h OverrideHandle)
}

// Change describes one content mutation. The region metadata is
// carried for hosts that have it; the dirty tracker ignores it.
type Change struct {
	Start   int
	End     int
	Removed int
}

// ChangeEvents delivers content-mutation notifications per buffer.
type ChangeEvents interface {
	// Subscribe registers fn to run on every mutation of buf and
	// returns a cancel function that detaches it.
	Subscribe(buf BufferID, fn func(Change)) (cancel func())
}

// CommandDoneFunc runs after a named command finished. ok reports
// whether the command completed successfully.
type CommandDoneFunc func(cmd CommandID, buf BufferID, ok bool)

// CommandEvents reports completion of named commands. A host whose
// command provider loads late may have no event source yet; see
// Host.Commands.
type CommandEvents interface {
	Subscribe(fn CommandDoneFunc)
}

// Host aggregates the capabilities the dirty-background feature needs
// from its editor.
type Host interface {
	Styles() StyleOverrides
	Changes() ChangeEvents
	// Commands returns the command-completion event source, or nil
	// while the command provider has not loaded yet. Callers are
	// expected to retry later rather than fail.
	Commands() CommandEvents
	// Mode returns the language mode of a buffer.
	Mode(buf BufferID) ModeID
}
