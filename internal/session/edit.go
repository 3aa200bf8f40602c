package session

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rutinas/internal/services"
	"github.com/desertthunder/rutinas/internal/shared"
)

// EditState is the lifecycle state of an [EditSession].
type EditState int

const (
	EditLoading EditState = iota
	EditReady
	EditSaving
	EditSaved
	EditErrored
)

func (s EditState) String() string {
	switch s {
	case EditLoading:
		return "loading"
	case EditReady:
		return "ready"
	case EditSaving:
		return "saving"
	case EditSaved:
		return "saved"
	case EditErrored:
		return "errored"
	default:
		return fmt.Sprintf("EditState(%d)", int(s))
	}
}

// EditSession owns one in-progress [Draft] through load, edit, validate and submit.
//
// Draft mutations are only accepted in [EditReady]. [EditSaved] is terminal.
type EditSession struct {
	ctx     context.Context
	gateway services.RoutineGateway

	state   EditState
	draft   Draft
	gen     uint64
	id      int
	savedID int
	err     error
}

// NewEditSession starts a new routine in [EditReady] with one default row.
func NewEditSession(ctx context.Context, gateway services.RoutineGateway) *EditSession {
	return &EditSession{ctx: ctx, gateway: gateway, state: EditReady, draft: NewDraft()}
}

// OpenEditSession starts editing an existing routine and returns the load command.
func OpenEditSession(ctx context.Context, gateway services.RoutineGateway, id int) (*EditSession, tea.Cmd) {
	s := &EditSession{ctx: ctx, gateway: gateway}
	return s, s.Load(id)
}

// Load fetches id, superseding any earlier load.
func (s *EditSession) Load(id int) tea.Cmd {
	if s.state == EditSaving {
		return nil
	}

	s.gen++
	s.id = id
	s.state = EditLoading
	s.err = nil

	ctx, gw, gen := s.ctx, s.gateway, s.gen
	return func() tea.Msg {
		routine, err := present(gw.Get(ctx, id))
		return RoutineLoadedMsg{gen: gen, routine: routine, err: err}
	}
}

// Retry reloads after a failed load. It does nothing in other states.
func (s *EditSession) Retry() tea.Cmd {
	if s.state != EditErrored {
		return nil
	}
	return s.Load(s.id)
}

func (s *EditSession) editable() error {
	if s.state != EditReady {
		return fmt.Errorf("%w: draft is %s", shared.ErrBusy, s.state)
	}
	return nil
}

// SetField assigns the routine name or description.
func (s *EditSession) SetField(field RoutineField, value string) error {
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.SetField(field, value)
}

// SetExerciseField assigns one column of the row at index.
func (s *EditSession) SetExerciseField(index int, field ExerciseField, value string) error {
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.SetExerciseField(index, field, value)
}

// AddExercise appends a default row and returns its index, or -1 when the draft is not editable.
func (s *EditSession) AddExercise() int {
	if s.editable() != nil {
		return -1
	}
	return s.draft.AddExercise()
}

// RemoveExercise deletes the row at index without renumbering order values.
func (s *EditSession) RemoveExercise(index int) error {
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.RemoveExercise(index)
}

// Reorder moves one row; order values are untouched.
func (s *EditSession) Reorder(from, to int) error {
	if err := s.editable(); err != nil {
		return err
	}
	return s.draft.Reorder(from, to)
}

// Validate reports the first violation in the current draft, or nil.
func (s *EditSession) Validate() *shared.ValidationError {
	return s.draft.Validate()
}

// Submit validates and then creates or updates the routine.
//
// An invalid draft is reported through Err and yields no command. Submit is ignored outside [EditReady].
func (s *EditSession) Submit() tea.Cmd {
	if s.state != EditReady {
		return nil
	}

	if verr := s.draft.Validate(); verr != nil {
		s.err = verr
		return nil
	}

	payload := ToWire(s.draft)
	id := s.draft.ID

	s.gen++
	s.state = EditSaving
	s.err = nil

	ctx, gw, gen := s.ctx, s.gateway, s.gen
	return func() tea.Msg {
		if id == 0 {
			routine, err := present(gw.Create(ctx, payload))
			return RoutineSavedMsg{gen: gen, routine: routine, err: err}
		}
		routine, err := present(gw.Update(ctx, id, payload))
		return RoutineSavedMsg{gen: gen, routine: routine, err: err}
	}
}

// Update reconciles load and save completions.
func (s *EditSession) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RoutineLoadedMsg:
		if msg.gen != s.gen || s.state != EditLoading {
			return nil
		}
		if msg.err != nil {
			s.state = EditErrored
			s.err = msg.err
			return nil
		}
		s.draft = ToDraft(*msg.routine)
		s.state = EditReady

	case RoutineSavedMsg:
		if msg.gen != s.gen || s.state != EditSaving {
			return nil
		}
		if msg.err != nil {
			s.state = EditReady
			s.err = msg.err
			return nil
		}
		s.savedID = msg.routine.ID
		s.draft.ID = msg.routine.ID
		s.state = EditSaved
	}

	return nil
}

// Draft returns a copy of the working draft.
func (s *EditSession) Draft() Draft { return s.draft.Clone() }

func (s *EditSession) State() EditState { return s.state }
func (s *EditSession) Err() error       { return s.err }
func (s *EditSession) SavedID() int     { return s.savedID }
func (s *EditSession) IsNew() bool      { return s.ID() == 0 }

// ID is the routine being edited: the loaded id, or the persisted id once a new routine is saved.
func (s *EditSession) ID() int {
	if s.id != 0 {
		return s.id
	}
	return s.draft.ID
}
