package session

import (
	"github.com/desertthunder/rutinas/internal/models"
)

// ListLoadedMsg carries the result of a list fetch issued under generation gen.
type ListLoadedMsg struct {
	gen  uint64
	page *models.RoutinePage
	err  error
}

// StatsLoadedMsg carries a stats fetch result.
type StatsLoadedMsg struct {
	stats *models.Stats
	err   error
}

// DeleteResultMsg carries the outcome of a confirmed (or declined) delete.
type DeleteResultMsg struct {
	id        int
	cancelled bool
	err       error
}

// DuplicateResultMsg carries the routine created by a duplicate request.
type DuplicateResultMsg struct {
	id      int
	routine *models.Routine
	err     error
}

// ExportResultMsg carries the local path an export was written to.
type ExportResultMsg struct {
	format models.ExportFormat
	path   string
	err    error
}

// RoutineLoadedMsg carries a single routine fetch for the edit or detail sessions.
type RoutineLoadedMsg struct {
	gen     uint64
	routine *models.Routine
	err     error
}

// RoutineSavedMsg carries the persisted routine after create or update.
type RoutineSavedMsg struct {
	gen     uint64
	routine *models.Routine
	err     error
}

// RoutineDeletedMsg carries the outcome of a delete issued from the detail view.
type RoutineDeletedMsg struct {
	gen       uint64
	cancelled bool
	err       error
}

func (m DeleteResultMsg) ID() int                     { return m.id }
func (m DeleteResultMsg) Err() error                  { return m.err }
func (m DuplicateResultMsg) Routine() *models.Routine { return m.routine }
func (m ExportResultMsg) Path() string                { return m.path }
func (m RoutineSavedMsg) Err() error                  { return m.err }
