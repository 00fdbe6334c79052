package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skallinen/clj-dirty-bg/internal/host"
)

// TestEvalRoundTrip drives the full program: a buffer opens dirty, a
// whole-buffer eval cleans it, the next keystroke dirties it again.
func TestEvalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	clj := writeFile(t, dir, "core.clj", "(ns core)\n\n(def answer 42)\n")
	m := newTestModel(t, clj)

	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(100, 30),
	)

	// Let the evaluator connect.
	time.Sleep(evaluatorConnectDelay + 200*time.Millisecond)

	// Evaluate the buffer.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e"), Alt: true})
	time.Sleep(200 * time.Millisecond)

	// Edit it again.
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(";")})
	time.Sleep(100 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	fm, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.True(t, fm.controller.WatcherInstalled())
	assert.True(t, fm.controller.Dirty(host.BufferID(clj)))
	assert.Equal(t, host.Color("#332f2f"), fm.adapter.styles.Background(host.BufferID(clj)))
}

// TestEvalCleansBuffer stops after the eval to observe the clean state.
func TestEvalCleansBuffer(t *testing.T) {
	dir := t.TempDir()
	clj := writeFile(t, dir, "core.clj", "(ns core)\n")
	m := newTestModel(t, clj)

	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(100, 30),
	)

	time.Sleep(evaluatorConnectDelay + 200*time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e"), Alt: true})
	time.Sleep(200 * time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(3*time.Second))

	fm, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.False(t, fm.controller.Dirty(host.BufferID(clj)))
	assert.Equal(t, host.Color(""), fm.adapter.styles.Background(host.BufferID(clj)))
}
