package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	next          key.Binding
	prev          key.Binding
	up            key.Binding
	down          key.Binding
	enter         key.Binding
	back          key.Binding
	rate          key.Binding
	less          key.Binding
	more          key.Binding
	add           key.Binding
	open          key.Binding
	remove        key.Binding
	toggleResults key.Binding
	toggleWatched key.Binding
	refresh       key.Binding
	help          key.Binding
	quit          key.Binding
	forceQuit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		next:          key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
		prev:          key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev panel")),
		up:            key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:          key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		rate:          key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("1-0", "rate")),
		less:          key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "fewer stars")),
		more:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more stars")),
		add:           key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to list")),
		open:          key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open IMDb")),
		remove:        key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		toggleResults: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "toggle results")),
		toggleWatched: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "toggle watched")),
		refresh:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "search again")),
		help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.next, k.help, k.forceQuit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.next, k.prev, k.up, k.down, k.enter, k.back},
		{k.rate, k.less, k.more, k.add, k.open, k.remove},
		{k.toggleResults, k.toggleWatched, k.refresh, k.help, k.quit},
	}
}
