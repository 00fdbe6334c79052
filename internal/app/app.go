// Package app is the bundled terminal host: a minimal multi-buffer
// editor whose buffers carry the dirty-background highlight. It exists
// so the highlight core runs against a real, single-threaded event
// dispatch and a real evaluator, not only against test fakes.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skallinen/clj-dirty-bg/internal/app/commands"
	"github.com/skallinen/clj-dirty-bg/internal/config"
	"github.com/skallinen/clj-dirty-bg/internal/dirtybg"
	"github.com/skallinen/clj-dirty-bg/internal/evaluator"
	"github.com/skallinen/clj-dirty-bg/internal/host"
	"github.com/skallinen/clj-dirty-bg/internal/theme"
)

// Message types for the Bubble Tea app
type (
	evaluatorReadyMsg struct{}
	commandDoneMsg    struct {
		cmd   host.CommandID
		buf   host.BufferID
		forms int
		err   error
	}
	configChangedMsg struct{}
)

// The evaluator "connects" shortly after startup, like a runtime
// integration that comes up after the editor does. Until then the
// completion watcher cannot install and buffers stay dirty.
const evaluatorConnectDelay = 250 * time.Millisecond

// Model is the host application model.
type Model struct {
	config     *config.AppConfig
	configPath string
	th         *theme.Theme
	settings   config.Settings

	buffers []*bufferView
	active  int

	adapter    *hostAdapter
	controller *dirtybg.Controller
	registry   *commands.Registry
	eval       *evaluator.Service
	evalReady  bool

	watch *config.WatchService
	logf  func(string, ...any)

	keys     keyMap
	help     help.Model
	showHelp bool

	width  int
	height int

	status      string
	statusIsErr bool

	quitting bool
}

// NewModel creates the host model with one buffer per path (or a
// scratch buffer when paths is empty).
func NewModel(cfg *config.AppConfig, configPath string, paths []string, logf func(string, ...any)) (*Model, error) {
	buffers, err := openBuffers(paths)
	if err != nil {
		return nil, err
	}

	m := &Model{
		config:     cfg,
		configPath: configPath,
		th:         theme.GetTheme(cfg.Theme),
		buffers:    buffers,
		eval:       evaluator.NewService(logf),
		watch:      config.NewWatchService(logf),
		keys:       defaultKeyMap(),
		help:       help.New(),
		logf:       logf,
	}
	m.settings = cfg.Settings(m.th)

	m.adapter = &hostAdapter{
		styles:  newStyleTable(),
		changes: newChangeHub(),
		bus:     &commandBus{},
		ready:   func() bool { return m.evalReady },
		mode:    m.bufferMode,
	}
	m.controller = dirtybg.New(m.adapter, func() config.Settings { return m.settings }, logf)

	m.registry = commands.NewRegistry()
	commands.RegisterEvalActions(m.registry, commands.EvalHandlers{
		EvalBuffer: m.evalBufferCmd,
		LoadBuffer: m.loadBufferCmd,
		LoadFile:   m.loadFileCmd,
		Available:  func() bool { return m.evalReady },
	})
	commands.RegisterBufferActions(m.registry, commands.BufferHandlers{
		Save:            m.saveCmd,
		ToggleHighlight: m.toggleHighlightCmd,
	})

	// Buffers open "activated": autowire each one against the
	// configured modes.
	for _, b := range m.buffers {
		m.controller.Autowire(b.id)
	}
	m.buffers[m.active].ta.Focus()

	if started, err := m.watch.Start(configPath); err != nil {
		m.debugf("config watch failed: %v", err)
	} else if started {
		m.debugf("config watch started on %s", configPath)
	}

	return m, nil
}

func (m *Model) bufferMode(buf host.BufferID) host.ModeID {
	for _, b := range m.buffers {
		if b.id == buf {
			return b.mode
		}
	}
	return ""
}

func (m *Model) currentBuffer() *bufferView {
	if m.active < 0 || m.active >= len(m.buffers) {
		return nil
	}
	return m.buffers[m.active]
}

// Controller exposes the dirty-state controller, mainly for tests.
func (m *Model) Controller() *dirtybg.Controller {
	return m.controller
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		connectEvaluator(),
		m.waitForConfigChange(),
	)
}

func connectEvaluator() tea.Cmd {
	return tea.Tick(evaluatorConnectDelay, func(time.Time) tea.Msg {
		return evaluatorReadyMsg{}
	})
}

// waitForConfigChange arms a command that delivers the next config
// watcher event into the update loop.
func (m *Model) waitForConfigChange() tea.Cmd {
	ch := m.watch.NextEvent()
	if ch == nil {
		return nil
	}
	done := m.watch.Done
	return func() tea.Msg {
		select {
		case <-done:
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			return configChangedMsg{}
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeBuffers()
		return m, nil

	case evaluatorReadyMsg:
		m.evalReady = true
		m.controller.EnsureWatcher()
		m.setStatus("evaluator connected", false)
		return m, nil

	case commandDoneMsg:
		return m, m.handleCommandDone(msg)

	case configChangedMsg:
		m.watch.ResetWaiting()
		if m.watch.ShouldReload(time.Now()) {
			m.reloadConfig()
		}
		return m, m.waitForConfigChange()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateCurrentTextarea(msg)
}

// handleCommandDone publishes the completion on the command bus (which
// is what the dirty-state watcher listens to) and reports the outcome
// in the status line.
func (m *Model) handleCommandDone(msg commandDoneMsg) tea.Cmd {
	m.adapter.bus.Publish(msg.cmd, msg.buf, msg.err == nil)
	if msg.err != nil {
		m.setStatus(msg.err.Error(), true)
		return nil
	}
	m.setStatus(fmt.Sprintf("%s: %d forms", msg.cmd, msg.forms), false)
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		m.watch.Stop()
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.resizeBuffers()
		return m, nil

	case key.Matches(msg, keys.NextBuffer):
		m.focusBuffer((m.active + 1) % len(m.buffers))
		return m, nil

	case key.Matches(msg, keys.PrevBuffer):
		m.focusBuffer((m.active - 1 + len(m.buffers)) % len(m.buffers))
		return m, nil

	case key.Matches(msg, keys.EvalBuffer):
		return m, m.execute(host.CmdEvalBuffer)

	case key.Matches(msg, keys.LoadBuffer):
		return m, m.execute(host.CmdLoadBuffer)

	case key.Matches(msg, keys.LoadFile):
		return m, m.execute(host.CmdLoadFile)

	case key.Matches(msg, keys.Save):
		return m, m.registry.Execute("save-file")

	case key.Matches(msg, keys.Toggle):
		return m, m.registry.Execute("toggle-highlight")
	}

	return m, m.updateCurrentTextarea(msg)
}

// execute runs a registered evaluator command, reporting when the
// evaluator has not connected yet.
func (m *Model) execute(id host.CommandID) tea.Cmd {
	cmd := m.registry.Execute(id)
	if cmd == nil && !m.evalReady {
		m.setStatus("evaluator not connected yet", true)
	}
	return cmd
}

// updateCurrentTextarea forwards msg to the active buffer's textarea
// and publishes a change event when the content mutated. Every
// mutation counts, including whitespace and undo.
func (m *Model) updateCurrentTextarea(msg tea.Msg) tea.Cmd {
	b := m.currentBuffer()
	if b == nil {
		return nil
	}

	before := b.ta.Value()
	var cmd tea.Cmd
	b.ta, cmd = b.ta.Update(msg)
	after := b.ta.Value()
	if after != before {
		m.adapter.changes.Publish(b.id, host.Change{
			End:     len(after),
			Removed: len(before),
		})
	}
	return cmd
}

func (m *Model) focusBuffer(idx int) {
	if idx == m.active || idx < 0 || idx >= len(m.buffers) {
		return
	}
	m.buffers[m.active].ta.Blur()
	m.active = idx
	m.buffers[m.active].ta.Focus()
	// Switching to a buffer is an activation: autowire may attach the
	// highlight if the buffer was opened after a config reload that
	// grew the mode list.
	m.controller.Autowire(m.buffers[m.active].id)
}

// reloadConfig re-reads the configuration file and swaps in a fresh
// settings snapshot; trackers repaint with the new colors immediately.
func (m *Model) reloadConfig() {
	cfg, err := config.LoadConfig(m.configPath)
	if err != nil {
		m.setStatus(fmt.Sprintf("config reload: %v", err), true)
		return
	}
	if cfg.Theme == "" {
		// No terminal detection here: the program owns the TTY. Keep
		// the theme resolved at startup.
		cfg.Theme = m.config.Theme
	}
	m.config = cfg
	m.th = theme.GetTheme(cfg.Theme)
	m.settings = cfg.Settings(m.th)
	m.controller.Refresh()
	m.setStatus("configuration reloaded", false)
	m.debugf("configuration reloaded from %s", m.configPath)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}

func (m *Model) debugf(format string, args ...any) {
	if m.logf == nil {
		return
	}
	m.logf(format, args...)
}

// evalBufferCmd evaluates the active buffer's current content.
func (m *Model) evalBufferCmd() tea.Cmd {
	b := m.currentBuffer()
	if b == nil {
		return nil
	}
	name, text, id := b.name, b.ta.Value(), b.id
	return func() tea.Msg {
		res, err := m.eval.EvalBuffer(name, text)
		return commandDoneMsg{cmd: host.CmdEvalBuffer, buf: id, forms: res.Forms, err: err}
	}
}

// loadBufferCmd loads the active buffer's current content.
func (m *Model) loadBufferCmd() tea.Cmd {
	b := m.currentBuffer()
	if b == nil {
		return nil
	}
	name, text, id := b.name, b.ta.Value(), b.id
	return func() tea.Msg {
		res, err := m.eval.LoadBuffer(name, text)
		return commandDoneMsg{cmd: host.CmdLoadBuffer, buf: id, forms: res.Forms, err: err}
	}
}

// loadFileCmd loads the active buffer's file from disk, unsaved edits
// and all left behind.
func (m *Model) loadFileCmd() tea.Cmd {
	b := m.currentBuffer()
	if b == nil {
		return nil
	}
	if b.path == "" {
		m.setStatus("load-file: buffer has no file", true)
		return nil
	}
	path, id := b.path, b.id
	return func() tea.Msg {
		res, err := m.eval.LoadFile(path)
		return commandDoneMsg{cmd: host.CmdLoadFile, buf: id, forms: res.Forms, err: err}
	}
}

// saveCmd writes the active buffer to disk. Saving is not evaluating:
// the dirty flag is untouched.
func (m *Model) saveCmd() tea.Cmd {
	b := m.currentBuffer()
	if b == nil {
		return nil
	}
	if err := b.save(); err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	m.setStatus(fmt.Sprintf("wrote %s", b.path), false)
	return nil
}

// toggleHighlightCmd flips dirty tracking for the active buffer.
func (m *Model) toggleHighlightCmd() tea.Cmd {
	b := m.currentBuffer()
	if b == nil {
		return nil
	}
	m.controller.Toggle(b.id)
	if m.controller.Enabled(b.id) {
		m.setStatus("dirty highlight on", false)
	} else {
		m.setStatus("dirty highlight off", false)
	}
	return nil
}
