package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mise/internal/shopping"
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
	MsgListGenerated MsgKind = iota
)

type generated struct {
	list *shopping.List
	err  error
}

// listGeneratedMsg is the constructor for [MsgListGenerated]
func listGeneratedMsg(l *shopping.List, err error) Msg {
	return Msg{kind: MsgListGenerated, data: generated{l, err}}
}
