package app

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the host's key bindings. Everything except save/quit is
// alt-prefixed so the textarea keeps its editing keys.
type keyMap struct {
	NextBuffer key.Binding
	PrevBuffer key.Binding
	EvalBuffer key.Binding
	LoadBuffer key.Binding
	LoadFile   key.Binding
	Save       key.Binding
	Toggle     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextBuffer: key.NewBinding(
			key.WithKeys("alt+n"),
			key.WithHelp("alt+n", "next buffer"),
		),
		PrevBuffer: key.NewBinding(
			key.WithKeys("alt+p"),
			key.WithHelp("alt+p", "prev buffer"),
		),
		EvalBuffer: key.NewBinding(
			key.WithKeys("alt+e"),
			key.WithHelp("alt+e", "eval buffer"),
		),
		LoadBuffer: key.NewBinding(
			key.WithKeys("alt+l"),
			key.WithHelp("alt+l", "load buffer"),
		),
		LoadFile: key.NewBinding(
			key.WithKeys("alt+f"),
			key.WithHelp("alt+f", "load file"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("alt+t", "toggle highlight"),
		),
		Help: key.NewBinding(
			key.WithKeys("alt+h"),
			key.WithHelp("alt+h", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.EvalBuffer, k.Toggle, k.NextBuffer, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.EvalBuffer, k.LoadBuffer, k.LoadFile},
		{k.Save, k.Toggle},
		{k.NextBuffer, k.PrevBuffer},
		{k.Help, k.Quit},
	}
}
