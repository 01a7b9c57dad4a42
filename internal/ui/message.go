package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/popcorn/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSearchSettled MsgKind = iota
	MsgDetailSettled
	MsgBrowserOpened
	MsgStatusExpired
)

// searchSettledMsg is the constructor for [MsgSearchSettled]
func searchSettledMsg(out tasks.SearchOutcome) Msg {
	return Msg{kind: MsgSearchSettled, data: out}
}

// detailSettledMsg is the constructor for [MsgDetailSettled]
func detailSettledMsg(out tasks.DetailOutcome) Msg {
	return Msg{kind: MsgDetailSettled, data: out}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(url string, err error) Msg {
	return Msg{
		kind: MsgBrowserOpened,
		data: struct {
			url string
			err error
		}{url, err},
	}
}

// statusExpiredMsg is the constructor for [MsgStatusExpired]
func statusExpiredMsg(id int) Msg {
	return Msg{kind: MsgStatusExpired, data: id}
}
