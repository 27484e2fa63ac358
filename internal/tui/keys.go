package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down    key.Binding
	Toggle      key.Binding
	Add, Edit   key.Binding
	Delete      key.Binding
	Search      key.Binding
	ClearFilter key.Binding
	HideDone    key.Binding
	NextTag     key.Binding
	PrevTag     key.Binding
	AllTags     key.Binding
	Refresh     key.Binding
	Copy        key.Binding
	Settings    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:      key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		ClearFilter: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		HideDone:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide done")),
		NextTag:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tag")),
		PrevTag:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tag")),
		AllTags:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "all tags")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy list")),
		Settings:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Edit, k.Delete, k.Search, k.NextTag, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Add, k.Edit, k.Delete},
		{k.Search, k.ClearFilter, k.HideDone, k.NextTag, k.PrevTag, k.AllTags},
		{k.Refresh, k.Copy, k.Settings, k.Help, k.Quit},
	}
}
