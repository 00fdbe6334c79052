package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Indicators shown next to a buffer name in the tab bar.
const (
	indicatorDirty = "●" // Tracked, has unevaluated edits
	indicatorClean = "○" // Tracked, fully evaluated
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}

	sections := []string{
		m.renderTabBar(),
		m.renderEditor(),
		m.renderStatusBar(),
		m.renderHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// chromeHeight is the number of lines used around the editor area.
func (m *Model) chromeHeight() int {
	return 2 + lipgloss.Height(m.renderHelp())
}

func (m *Model) resizeBuffers() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.help.Width = m.width
	editorHeight := m.height - m.chromeHeight()
	if editorHeight < 3 {
		editorHeight = 3
	}
	for _, b := range m.buffers {
		b.ta.SetWidth(m.width)
		b.ta.SetHeight(editorHeight)
	}
}

func (m *Model) renderTabBar() string {
	activeStyle := lipgloss.NewStyle().
		Background(m.th.Accent).
		Foreground(m.th.AccentFg).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(m.th.MutedFg).
		Padding(0, 1)

	tabs := make([]string, 0, len(m.buffers))
	for i, b := range m.buffers {
		label := fmt.Sprintf("%s %s", deviconForName(b.name), b.name)
		switch {
		case m.controller.Dirty(b.id):
			label += " " + indicatorDirty
		case m.controller.Enabled(b.id):
			label += " " + indicatorClean
		}
		style := inactiveStyle
		if i == m.active {
			style = activeStyle
		}
		tabs = append(tabs, style.Render(label))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return truncate.StringWithTail(row, uint(m.width), "…") //nolint:gosec
}

// renderEditor draws the active buffer. The dirty-background override
// is whatever the style table currently holds for the buffer; the
// renderer applies it without knowing why it is there.
func (m *Model) renderEditor() string {
	b := m.currentBuffer()
	if b == nil {
		return ""
	}
	view := b.ta.View()
	if bg := m.adapter.styles.Background(b.id); bg != "" {
		view = lipgloss.NewStyle().
			Background(lipgloss.Color(string(bg))).
			Render(view)
	}
	return view
}

func (m *Model) renderStatusBar() string {
	b := m.currentBuffer()
	left := ""
	if b != nil {
		left = fmt.Sprintf(" %s", b.mode)
		if m.controller.Enabled(b.id) {
			if m.controller.Dirty(b.id) {
				left += " · unevaluated"
			} else {
				left += " · evaluated"
			}
		}
	}
	if !m.evalReady {
		left += " · evaluator offline"
	}

	leftStyle := lipgloss.NewStyle().Foreground(m.th.MutedFg)
	msgStyle := lipgloss.NewStyle().Foreground(m.th.SuccessFg)
	if m.statusIsErr {
		msgStyle = lipgloss.NewStyle().Foreground(m.th.ErrorFg)
	}

	bar := leftStyle.Render(left)
	if m.status != "" {
		bar += msgStyle.Render("  " + m.status)
	}
	return truncate.StringWithTail(bar, uint(m.width), "…") //nolint:gosec
}

func (m *Model) renderHelp() string {
	m.help.ShowAll = m.showHelp
	return m.help.View(m.keys)
}
