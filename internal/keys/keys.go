// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// PagerKeyMap defines the keybindings for the diff pager.
type PagerKeyMap struct {
	// Scrolling
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Files
	NextFile key.Binding
	PrevFile key.Binding

	// Layout
	ToggleMode key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// Pager holds the default pager keybindings.
var Pager = DefaultPagerKeyMap()

// DefaultPagerKeyMap returns the default pager keybindings.
func DefaultPagerKeyMap() PagerKeyMap {
	return PagerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("pgup/b", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", " ", "f"),
			key.WithHelp("pgdn/f", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		NextFile: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous file"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "unified/side-by-side"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k PagerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFile, k.ToggleMode, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k PagerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom}, // Scrolling
		{k.NextFile, k.PrevFile, k.ToggleMode},                // Files and layout
		{k.Help, k.Quit},                                      // General
	}
}
