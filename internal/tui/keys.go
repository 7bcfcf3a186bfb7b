package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the browser key bindings.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Left     key.Binding
	Right    key.Binding

	// Tabs[i] jumps to the i-th tab.
	Tabs []key.Binding

	Toggle   key.Binding
	Group    key.Binding
	Grouping key.Binding
	Clear    key.Binding
	Commit   key.Binding
	Refresh  key.Binding
	Info     key.Binding

	Search key.Binding
	Filter key.Binding
	Back   key.Binding
	Cancel key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// DefaultKeyMap returns the bindings for the given tabs. Arrow keys and
// their vim counterparts share a binding.
func DefaultKeyMap(tabs []Tab) KeyMap {
	km := KeyMap{
		Up:       bind("↑/k", "move up", "up", "k"),
		Down:     bind("↓/j", "move down", "down", "j"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Home:     bind("home/g", "first row", "home", "g"),
		End:      bind("end/G", "last row", "end", "G"),
		Left:     bind("←", "previous tab", "left"),
		Right:    bind("→", "next tab", "right"),

		Toggle:   bind("space", "toggle package or group", " ", "enter"),
		Group:    bind("a", "toggle the whole group", "a"),
		Grouping: bind("c", "group by category/language", "c"),
		Clear:    bind("u", "clear selection", "u"),
		Commit:   bind("x", "commit selection", "x"),
		Refresh:  bind("r", "reload repositories", "r", "ctrl+r"),
		Info:     bind("o", "package details", "o"),

		Search: bind("/", "search", "/"),
		Filter: bind("f", "filter tree", "f"),
		Back:   bind("b", "back", "backspace", "b"),
		Cancel: bind("esc", "cancel", "esc"),
		Help:   bind("?", "help", "?"),
		Quit:   bind("q", "quit", "q", "ctrl+c"),
	}

	for i, t := range tabs {
		n := strconv.Itoa(i + 1)
		km.Tabs = append(km.Tabs, bind(n, t.Name, n))
	}
	return km
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Group, k.Commit, k.Search, k.Quit, k.Help}
}

// FullHelp implements help.KeyMap. Groups line up with helpSections.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		append([]key.Binding{k.Left, k.Right}, k.Tabs...),
		{k.Toggle, k.Group, k.Grouping, k.Clear, k.Commit, k.Refresh, k.Info},
		{k.Search, k.Filter, k.Back, k.Cancel},
		{k.Help, k.Quit},
	}
}

var helpSections = []string{"Navigation", "Tabs", "Selection", "Search", "General"}
