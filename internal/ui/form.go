package ui

import (
	"errors"
	"strings"

	"github.com/desertthunder/rutinas/internal/session"
	"github.com/desertthunder/rutinas/internal/shared"
)

// cell addresses one editable value of the form. Routine-level cells use row -1.
type cell struct {
	row   int
	field string
}

func (c cell) label() string {
	if c.row < 0 && c.field == string(session.FieldRoutineName) {
		return "Routine"
	}
	return strings.ToUpper(c.field[:1]) + c.field[1:]
}

// cells lists the form's cells in tab order.
func cells(d session.Draft) []cell {
	out := []cell{
		{row: -1, field: string(session.FieldRoutineName)},
		{row: -1, field: string(session.FieldRoutineDescription)},
	}
	for i := range d.Exercises {
		for _, f := range session.ExerciseFields {
			out = append(out, cell{row: i, field: string(f)})
		}
	}
	return out
}

func cellValue(d session.Draft, c cell) string {
	if c.row < 0 {
		if c.field == string(session.FieldRoutineName) {
			return d.Name
		}
		return d.Description
	}
	if c.row >= len(d.Exercises) {
		return ""
	}
	return d.Exercises[c.row].Cell(session.ExerciseField(c.field))
}

func setCell(s *session.EditSession, c cell, value string) error {
	if c.row < 0 {
		return s.SetField(session.RoutineField(c.field), value)
	}
	return s.SetExerciseField(c.row, session.ExerciseField(c.field), value)
}

// firstCell returns the index of row's first cell.
func firstCell(row int) int {
	return 2 + row*len(session.ExerciseFields)
}

// invalidCell returns the index of the cell a validation error points at, or -1.
func invalidCell(d session.Draft, err error) int {
	var verr *shared.ValidationError
	if !errors.As(err, &verr) {
		return -1
	}
	for i, c := range cells(d) {
		if c.row == verr.Index && c.field == verr.Field {
			return i
		}
	}
	return -1
}
