package session

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rutinas/internal/shared"
)

// Confirmer asks the user to approve a destructive action. Confirm may block until an answer arrives.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a plain function to [Confirmer].
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// AlwaysConfirm approves every prompt. Used by `--yes` flags.
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })

// NoticeKind classifies a transient notification.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeError
)

// Notice is a transient, dismissible message about a secondary action.
type Notice struct {
	Kind NoticeKind
	Text string
}

func (n Notice) IsError() bool { return n.Kind == NoticeError }

// Updater is implemented by every session controller.
type Updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// Run executes cmd on the calling goroutine and returns every message it produces, flattening batches.
func Run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, Run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// Drive runs cmd synchronously and feeds results back into u until no follow-up command remains.
//
// This is the CLI's replacement for the bubbletea runtime.
func Drive(u Updater, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, msg := range Run(next) {
			if follow := u.Update(msg); follow != nil {
				queue = append(queue, follow)
			}
		}
	}
}

// present rejects a gateway result that carries neither a value nor an error.
func present[T any](v *T, err error) (*T, error) {
	if err == nil && v == nil {
		return nil, fmt.Errorf("%w: empty response", shared.ErrTransport)
	}
	return v, err
}
