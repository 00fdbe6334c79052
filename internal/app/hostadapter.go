package app

import "github.com/skallinen/clj-dirty-bg/internal/host"

// styleTable is the TUI's style-override capability. Overrides are
// plain table entries; the renderer asks for the current background of
// a buffer when drawing it.
type styleTable struct {
	next host.OverrideHandle
	live map[host.OverrideHandle]overrideEntry
}

type overrideEntry struct {
	buf   host.BufferID
	color host.Color
}

func newStyleTable() *styleTable {
	return &styleTable{live: make(map[host.OverrideHandle]overrideEntry)}
}

func (s *styleTable) Apply(buf host.BufferID, color host.Color) host.OverrideHandle {
	s.next++
	s.live[s.next] = overrideEntry{buf: buf, color: color}
	return s.next
}

func (s *styleTable) Release(h host.OverrideHandle) {
	delete(s.live, h)
}

// Background returns the override color currently applied to buf, or
// "" when the buffer has none.
func (s *styleTable) Background(buf host.BufferID) host.Color {
	for _, entry := range s.live {
		if entry.buf == buf {
			return entry.color
		}
	}
	return ""
}

// changeHub fans content-mutation notifications out to per-buffer
// subscribers.
type changeHub struct {
	subs map[host.BufferID]map[int]func(host.Change)
	next int
}

func newChangeHub() *changeHub {
	return &changeHub{subs: make(map[host.BufferID]map[int]func(host.Change))}
}

func (h *changeHub) Subscribe(buf host.BufferID, fn func(host.Change)) func() {
	if h.subs[buf] == nil {
		h.subs[buf] = make(map[int]func(host.Change))
	}
	h.next++
	id := h.next
	h.subs[buf][id] = fn
	return func() {
		delete(h.subs[buf], id)
	}
}

func (h *changeHub) Publish(buf host.BufferID, ch host.Change) {
	for _, fn := range h.subs[buf] {
		fn(ch)
	}
}

// commandBus delivers command-completion notifications to whoever
// subscribed. Subscriptions are never removed; see the dirty-background
// watcher's install-once contract.
type commandBus struct {
	subs []host.CommandDoneFunc
}

func (b *commandBus) Subscribe(fn host.CommandDoneFunc) {
	b.subs = append(b.subs, fn)
}

func (b *commandBus) Publish(cmd host.CommandID, buf host.BufferID, ok bool) {
	for _, fn := range b.subs {
		fn(cmd, buf, ok)
	}
}

// hostAdapter exposes the TUI to the dirty-background core as a
// host.Host. Commands returns nil until the evaluator has connected,
// exercising the core's deferred watcher installation for real.
type hostAdapter struct {
	styles  *styleTable
	changes *changeHub
	bus     *commandBus
	ready   func() bool
	mode    func(host.BufferID) host.ModeID
}

func (a *hostAdapter) Styles() host.StyleOverrides { return a.styles }
func (a *hostAdapter) Changes() host.ChangeEvents  { return a.changes }

func (a *hostAdapter) Commands() host.CommandEvents {
	if a.ready != nil && !a.ready() {
		return nil
	}
	return a.bus
}

func (a *hostAdapter) Mode(buf host.BufferID) host.ModeID {
	if a.mode == nil {
		return ""
	}
	return a.mode(buf)
}
