package ui

import (
	tea "github.com/charmbracelet/bubbletea"
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
	MsgRouted MsgKind = iota
	MsgConfirmRequest
)

// owner identifies which controller slot a routed message belongs to.
type owner int

const (
	listOwner owner = iota
	pageOwner
)

// routed carries a controller message tagged with the mount it was issued under.
type routed struct {
	owner owner
	epoch uint64
	inner tea.Msg
}

// routedMsg is the constructor for [MsgRouted]
func routedMsg(o owner, epoch uint64, inner tea.Msg) Msg {
	return Msg{kind: MsgRouted, data: routed{owner: o, epoch: epoch, inner: inner}}
}

// confirmRequestMsg is the constructor for [MsgConfirmRequest]
func confirmRequestMsg(req confirmRequest) Msg {
	return Msg{kind: MsgConfirmRequest, data: req}
}

// route tags every message produced by cmd, including batched ones, with o and epoch.
func route(o owner, epoch uint64, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		switch msg := cmd().(type) {
		case nil:
			return nil
		case tea.BatchMsg:
			out := make(tea.BatchMsg, len(msg))
			for i, c := range msg {
				out[i] = route(o, epoch, c)
			}
			return out
		default:
			return routedMsg(o, epoch, msg)
		}
	}
}
