package keys

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Views
	ViewAll       key.Binding
	ViewToday     key.Binding
	ViewUpcoming  key.Binding
	ViewCompleted key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	Search  key.Binding
	Command key.Binding
	Help    key.Binding

	// Task actions
	Open   key.Binding
	New    key.Binding
	Edit   key.Binding
	Toggle key.Binding
	Delete key.Binding

	// Reordering
	Pick key.Binding
	Drop key.Binding

	// Screens
	Projects  key.Binding
	Analytics key.Binding
	Settings  key.Binding
	Theme     key.Binding

	Dismiss key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		ViewAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "all tasks"),
		),
		ViewToday: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "due today"),
		),
		ViewUpcoming: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "upcoming"),
		),
		ViewCompleted: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "completed"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Pick: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pick up to reorder"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drop"),
		),
		Projects: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "projects"),
		),
		Analytics: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "analytics"),
		),
		Settings: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "settings"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "dismiss newest notification"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.New, k.Toggle,
		k.Search, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Back, k.Dismiss, k.Quit},
		{k.ViewAll, k.ViewToday, k.ViewUpcoming, k.ViewCompleted},
		{k.Open, k.New, k.Edit, k.Toggle, k.Delete},
		{k.Pick, k.Drop, k.Search, k.Command},
		{k.Projects, k.Analytics, k.Settings, k.Theme, k.Help},
	}
}

// FormKeyMap returns huh's default form bindings with esc added to abort,
// so every form can be left the same way as the other screens.
func FormKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "cancel"),
	)
	return km
}
