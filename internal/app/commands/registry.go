// Package commands defines the host's named commands. The registry is
// what makes "which command ran" observable: the dirty-background
// watcher keys off the IDs registered here.
package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skallinen/clj-dirty-bg/internal/host"
)

// Action describes one executable host command.
type Action struct {
	ID          host.CommandID
	Label       string
	Description string
	Shortcut    string // Keyboard shortcut display (e.g., "alt+e")
	Handler     func() tea.Cmd
	Available   func() bool
}

// Registry stores host actions.
type Registry struct {
	actions []Action
	byID    map[host.CommandID]Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[host.CommandID]Action)}
}

// Register adds actions to the registry.
func (r *Registry) Register(actions ...Action) {
	for _, action := range actions {
		r.actions = append(r.actions, action)
		if action.ID != "" {
			r.byID[action.ID] = action
		}
	}
}

// Actions returns the registered actions in order.
func (r *Registry) Actions() []Action {
	return r.actions
}

// Lookup returns the action for an ID.
func (r *Registry) Lookup(id host.CommandID) (Action, bool) {
	action, ok := r.byID[id]
	return action, ok
}

// Execute runs the handler for an action ID.
func (r *Registry) Execute(id host.CommandID) tea.Cmd {
	action, ok := r.byID[id]
	if !ok {
		return nil
	}
	if action.Available != nil && !action.Available() {
		return nil
	}
	if action.Handler == nil {
		return nil
	}
	return action.Handler()
}

// EvalHandlers holds callbacks for the evaluator's whole-buffer
// operations.
type EvalHandlers struct {
	EvalBuffer func() tea.Cmd
	LoadBuffer func() tea.Cmd
	LoadFile   func() tea.Cmd
	Available  func() bool
}

// RegisterEvalActions registers the evaluator commands.
func RegisterEvalActions(r *Registry, h EvalHandlers) {
	r.Register(
		Action{ID: host.CmdEvalBuffer, Label: "Evaluate buffer", Description: "Evaluate every top-level form in the buffer", Shortcut: "alt+e", Handler: h.EvalBuffer, Available: h.Available},
		Action{ID: host.CmdLoadBuffer, Label: "Load buffer", Description: "Load the buffer content as a whole", Shortcut: "alt+l", Handler: h.LoadBuffer, Available: h.Available},
		Action{ID: host.CmdLoadFile, Label: "Load file", Description: "Load the buffer's file from disk", Shortcut: "alt+f", Handler: h.LoadFile, Available: h.Available},
	)
}

// BufferHandlers holds callbacks for buffer-level actions.
type BufferHandlers struct {
	Save            func() tea.Cmd
	ToggleHighlight func() tea.Cmd
}

// RegisterBufferActions registers buffer-level actions.
func RegisterBufferActions(r *Registry, h BufferHandlers) {
	r.Register(
		Action{ID: "save-file", Label: "Save file", Description: "Write the buffer back to disk", Shortcut: "ctrl+s", Handler: h.Save},
		Action{ID: "toggle-highlight", Label: "Toggle dirty highlight", Description: "Enable or disable dirty tracking for the buffer", Shortcut: "alt+t", Handler: h.ToggleHighlight},
	)
}
