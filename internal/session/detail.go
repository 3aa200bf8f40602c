package session

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/services"
)

// DetailState is the lifecycle state of a [DetailSession].
type DetailState int

const (
	DetailLoading DetailState = iota
	DetailReady
	DetailErrored
	DetailDeleting
	DetailDeleted
)

// DetailSession shows one routine as a weekly calendar and can delete it.
//
// [DetailDeleted] is terminal; the caller navigates back to the list.
type DetailSession struct {
	ctx     context.Context
	gateway services.RoutineGateway
	confirm Confirmer

	state   DetailState
	id      int
	gen     uint64
	routine *models.Routine
	err     error
	notice  *Notice
}

// NewDetailSession creates a detail controller for id and returns the load command.
func NewDetailSession(ctx context.Context, gateway services.RoutineGateway, confirm Confirmer, id int) (*DetailSession, tea.Cmd) {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	s := &DetailSession{ctx: ctx, gateway: gateway, confirm: confirm}
	return s, s.Load(id)
}

// Load fetches id, superseding any earlier load.
func (s *DetailSession) Load(id int) tea.Cmd {
	s.gen++
	s.id = id
	s.state = DetailLoading
	s.err = nil

	ctx, gw, gen := s.ctx, s.gateway, s.gen
	return func() tea.Msg {
		routine, err := present(gw.Get(ctx, id))
		return RoutineLoadedMsg{gen: gen, routine: routine, err: err}
	}
}

// Retry reloads after a failed load.
func (s *DetailSession) Retry() tea.Cmd {
	if s.state != DetailErrored {
		return nil
	}
	return s.Load(s.id)
}

// Delete asks for confirmation and deletes the loaded routine.
func (s *DetailSession) Delete() tea.Cmd {
	if s.state != DetailReady {
		return nil
	}

	s.gen++
	s.state = DetailDeleting

	prompt := fmt.Sprintf("Delete routine %q?", s.routine.Name)
	ctx, gw, confirm, id, gen := s.ctx, s.gateway, s.confirm, s.id, s.gen
	return func() tea.Msg {
		if !confirm.Confirm(prompt) {
			return RoutineDeletedMsg{gen: gen, cancelled: true}
		}
		return RoutineDeletedMsg{gen: gen, err: gw.Delete(ctx, id)}
	}
}

// Update reconciles load and delete completions.
func (s *DetailSession) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RoutineLoadedMsg:
		if msg.gen != s.gen || s.state != DetailLoading {
			return nil
		}
		if msg.err != nil {
			s.state = DetailErrored
			s.err = msg.err
			return nil
		}
		s.routine = msg.routine
		s.state = DetailReady

	case RoutineDeletedMsg:
		if msg.gen != s.gen || s.state != DetailDeleting {
			return nil
		}
		switch {
		case msg.cancelled:
			s.state = DetailReady
		case msg.err != nil:
			s.state = DetailReady
			s.notice = &Notice{Kind: NoticeError, Text: fmt.Sprintf("Could not delete routine: %v", msg.err)}
		default:
			s.state = DetailDeleted
		}
	}

	return nil
}

// Calendar groups the loaded routine's exercises by weekday. It is empty before the first load.
func (s *DetailSession) Calendar() []models.CalendarDay {
	if s.routine == nil {
		return models.WeeklyCalendar(nil)
	}
	return models.WeeklyCalendar(s.routine.Exercises)
}

// DismissNotice clears the current notice.
func (s *DetailSession) DismissNotice() { s.notice = nil }

func (s *DetailSession) State() DetailState       { return s.state }
func (s *DetailSession) Routine() *models.Routine { return s.routine }
func (s *DetailSession) ID() int                  { return s.id }
func (s *DetailSession) Err() error               { return s.err }
func (s *DetailSession) Notice() *Notice          { return s.notice }
