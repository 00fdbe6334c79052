package dirtybg

import (
	"testing"

	"github.com/skallinen/clj-dirty-bg/internal/config"
	"github.com/skallinen/clj-dirty-bg/internal/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStyles records every apply/release and keeps the set of live
// overrides so tests can assert on the visible state of a buffer.
type fakeStyles struct {
	next     host.OverrideHandle
	live     map[host.OverrideHandle]appliedOverride
	applies  int
	releases int
}

type appliedOverride struct {
	buf   host.BufferID
	color host.Color
}

func newFakeStyles() *fakeStyles {
	return &fakeStyles{live: make(map[host.OverrideHandle]appliedOverride)}
}

func (f *fakeStyles) Apply(buf host.BufferID, color host.Color) host.OverrideHandle {
	f.next++
	f.applies++
	f.live[f.next] = appliedOverride{buf: buf, color: color}
	return f.next
}

func (f *fakeStyles) Release(h host.OverrideHandle) {
	if _, ok := f.live[h]; ok {
		f.releases++
		delete(f.live, h)
	}
}

// background returns the color of the single live override on buf, or
// "" when the buffer has none. It fails the test on stacked overrides.
func (f *fakeStyles) background(t *testing.T, buf host.BufferID) host.Color {
	t.Helper()
	var found []host.Color
	for _, o := range f.live {
		if o.buf == buf {
			found = append(found, o.color)
		}
	}
	require.LessOrEqual(t, len(found), 1, "buffer %s has stacked overrides", buf)
	if len(found) == 0 {
		return ""
	}
	return found[0]
}

type fakeChanges struct {
	subs map[host.BufferID][]func(host.Change)
}

func newFakeChanges() *fakeChanges {
	return &fakeChanges{subs: make(map[host.BufferID][]func(host.Change))}
}

func (f *fakeChanges) Subscribe(buf host.BufferID, fn func(host.Change)) func() {
	f.subs[buf] = append(f.subs[buf], fn)
	idx := len(f.subs[buf]) - 1
	return func() {
		f.subs[buf][idx] = nil
	}
}

func (f *fakeChanges) publish(buf host.BufferID, ch host.Change) {
	for _, fn := range f.subs[buf] {
		if fn != nil {
			fn(ch)
		}
	}
}

func (f *fakeChanges) attached(buf host.BufferID) int {
	n := 0
	for _, fn := range f.subs[buf] {
		if fn != nil {
			n++
		}
	}
	return n
}

type fakeBus struct {
	subs []host.CommandDoneFunc
}

func (f *fakeBus) Subscribe(fn host.CommandDoneFunc) {
	f.subs = append(f.subs, fn)
}

func (f *fakeBus) publish(cmd host.CommandID, buf host.BufferID, ok bool) {
	for _, fn := range f.subs {
		fn(cmd, buf, ok)
	}
}

type fakeHost struct {
	styles  *fakeStyles
	changes *fakeChanges
	bus     *fakeBus
	busUp   bool
	modes   map[host.BufferID]host.ModeID
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		styles:  newFakeStyles(),
		changes: newFakeChanges(),
		bus:     &fakeBus{},
		busUp:   true,
		modes:   make(map[host.BufferID]host.ModeID),
	}
}

func (f *fakeHost) Styles() host.StyleOverrides { return f.styles }
func (f *fakeHost) Changes() host.ChangeEvents  { return f.changes }

func (f *fakeHost) Commands() host.CommandEvents {
	if !f.busUp {
		return nil
	}
	return f.bus
}

func (f *fakeHost) Mode(buf host.BufferID) host.ModeID { return f.modes[buf] }

func testSettings() config.Settings {
	cfg := config.DefaultConfig()
	cfg.DirtyColor = "#332f2f"
	return cfg.Settings(nil)
}

func newTestController(h *fakeHost) *Controller {
	s := testSettings()
	return New(h, func() config.Settings { return s }, nil)
}

func TestEnableStartsDirtyWithDirtyColor(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)

	c.Enable("core.clj")

	assert.True(t, c.Enabled("core.clj"))
	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
	assert.Equal(t, 1, h.changes.attached("core.clj"))
}

func TestEnableIsIdempotent(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)

	c.Enable("core.clj")
	c.Enable("core.clj")

	assert.Equal(t, 1, h.changes.attached("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
}

func TestRepeatedEditsStayDirtyWithoutStacking(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)
	c.Enable("core.clj")

	for i := 0; i < 5; i++ {
		h.changes.publish("core.clj", host.Change{Start: i, End: i + 1})
	}

	assert.True(t, c.Dirty("core.clj"))
	// Every markDirty re-applies, but never more than one override is live.
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
	assert.Equal(t, h.styles.applies-1, h.styles.releases)
}

func TestCleaningCommandClearsDirty(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)
	c.Enable("core.clj")

	h.bus.publish(host.CmdEvalBuffer, "core.clj", true)

	assert.False(t, c.Dirty("core.clj"))
	// Default clean color is unset: the override is gone entirely.
	assert.Equal(t, host.Color(""), h.styles.background(t, "core.clj"))

	// Idempotent: repeated completions leave the state untouched.
	h.bus.publish(host.CmdLoadBuffer, "core.clj", true)
	h.bus.publish(host.CmdLoadFile, "core.clj", true)
	assert.False(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color(""), h.styles.background(t, "core.clj"))
}

func TestCleanColorAppliedWhenConfigured(t *testing.T) {
	h := newFakeHost()
	cfg := config.DefaultConfig()
	cfg.DirtyColor = "#332f2f"
	cfg.CleanColor = "#1f3326"
	s := cfg.Settings(nil)
	c := New(h, func() config.Settings { return s }, nil)

	c.Enable("core.clj")
	h.bus.publish(host.CmdEvalBuffer, "core.clj", true)

	assert.False(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#1f3326"), h.styles.background(t, "core.clj"))
}

func TestRoundTripDirtyCleanDirty(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)

	c.Enable("core.clj")
	require.True(t, c.Dirty("core.clj"))
	require.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))

	h.changes.publish("core.clj", host.Change{})
	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))

	h.bus.publish(host.CmdEvalBuffer, "core.clj", true)
	assert.False(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color(""), h.styles.background(t, "core.clj"))

	h.changes.publish("core.clj", host.Change{})
	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
}

func TestDisableReleasesOverrideAndForgetsState(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)

	c.Enable("core.clj")
	h.bus.publish(host.CmdEvalBuffer, "core.clj", true)
	require.False(t, c.Dirty("core.clj"))

	c.Disable("core.clj")
	assert.False(t, c.Enabled("core.clj"))
	assert.Equal(t, host.Color(""), h.styles.background(t, "core.clj"))
	assert.Equal(t, 0, h.changes.attached("core.clj"))

	// Re-enabling starts over from Dirty, whatever the state was at
	// disable time.
	c.Enable("core.clj")
	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
}

func TestMarkCleanOnUntrackedBufferIsNoop(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)

	c.MarkClean("nowhere.clj")
	c.MarkDirty("nowhere.clj")

	assert.Equal(t, 0, h.styles.applies)
	assert.False(t, c.Dirty("nowhere.clj"))
}

func TestCompletionForUntrackedBufferIsNoop(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)
	c.Enable("core.clj")

	h.bus.publish(host.CmdEvalBuffer, "other.clj", true)

	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color(""), h.styles.background(t, "other.clj"))
}

func TestNonCleaningCommandNeverCleans(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)
	c.Enable("core.clj")

	h.bus.publish("save-file", "core.clj", true)
	h.bus.publish("format-buffer", "core.clj", true)

	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
}

func TestFailedCompletionLeavesBufferDirty(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)
	c.Enable("core.clj")

	h.bus.publish(host.CmdEvalBuffer, "core.clj", false)

	assert.True(t, c.Dirty("core.clj"))
	assert.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))
}

func TestAutowireFollowsConfiguredModes(t *testing.T) {
	h := newFakeHost()
	h.modes["core.clj"] = "clojure"
	h.modes["main.go"] = "go"
	c := newTestController(h)

	c.Autowire("core.clj")
	c.Autowire("main.go")

	assert.True(t, c.Enabled("core.clj"))
	assert.False(t, c.Enabled("main.go"))

	// Re-activation of an already tracked buffer changes nothing.
	c.Autowire("core.clj")
	assert.Equal(t, 1, h.changes.attached("core.clj"))
}

func TestAutowireRespectsAutoEnableOff(t *testing.T) {
	h := newFakeHost()
	h.modes["core.clj"] = "clojure"
	cfg := config.DefaultConfig()
	cfg.AutoEnable = false
	s := cfg.Settings(nil)
	c := New(h, func() config.Settings { return s }, nil)

	c.Autowire("core.clj")
	assert.False(t, c.Enabled("core.clj"))

	// Manual enable still works with autowire off.
	c.Enable("core.clj")
	assert.True(t, c.Enabled("core.clj"))
}

func TestWatcherInstallDeferredUntilProviderLoads(t *testing.T) {
	h := newFakeHost()
	h.busUp = false
	c := newTestController(h)

	c.Enable("core.clj")
	assert.False(t, c.WatcherInstalled())

	// Completions reported before install never arrive; the buffer
	// stays visibly dirty rather than falsely clearing.
	h.bus.publish(host.CmdEvalBuffer, "core.clj", true)
	assert.True(t, c.Dirty("core.clj"))

	h.busUp = true
	c.Enable("other.clj")
	assert.True(t, c.WatcherInstalled())

	h.bus.publish(host.CmdEvalBuffer, "core.clj", true)
	assert.False(t, c.Dirty("core.clj"))
}

func TestWatcherInstalledOnce(t *testing.T) {
	h := newFakeHost()
	c := newTestController(h)

	c.Enable("a.clj")
	c.Enable("b.clj")
	c.EnsureWatcher()

	require.Len(t, h.bus.subs, 1)

	// A single completion cleans exactly once per buffer.
	h.bus.publish(host.CmdEvalBuffer, "a.clj", true)
	assert.False(t, c.Dirty("a.clj"))
	assert.True(t, c.Dirty("b.clj"))
}

func TestSettingsReloadTakesEffectOnNextTransition(t *testing.T) {
	h := newFakeHost()
	current := testSettings()
	c := New(h, func() config.Settings { return current }, nil)

	c.Enable("core.clj")
	require.Equal(t, host.Color("#332f2f"), h.styles.background(t, "core.clj"))

	cfg := config.DefaultConfig()
	cfg.DirtyColor = "#402020"
	current = cfg.Settings(nil)

	h.changes.publish("core.clj", host.Change{})
	assert.Equal(t, host.Color("#402020"), h.styles.background(t, "core.clj"))
}

func TestRefreshRepaintsTrackedBuffers(t *testing.T) {
	h := newFakeHost()
	current := testSettings()
	c := New(h, func() config.Settings { return current }, nil)

	c.Enable("dirty.clj")
	c.Enable("clean.clj")
	h.bus.publish(host.CmdEvalBuffer, "clean.clj", true)

	cfg := config.DefaultConfig()
	cfg.DirtyColor = "#402020"
	cfg.CleanColor = "#203520"
	current = cfg.Settings(nil)

	c.Refresh()

	assert.Equal(t, host.Color("#402020"), h.styles.background(t, "dirty.clj"))
	assert.Equal(t, host.Color("#203520"), h.styles.background(t, "clean.clj"))
	assert.True(t, c.Dirty("dirty.clj"))
	assert.False(t, c.Dirty("clean.clj"))
}
