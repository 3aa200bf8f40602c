package session

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
)

// RoutineField names an editable routine-level field.
type RoutineField string

const (
	FieldRoutineName        RoutineField = "name"
	FieldRoutineDescription RoutineField = "description"
)

// ExerciseField names an editable column of an exercise row.
type ExerciseField string

const (
	FieldName        ExerciseField = "name"
	FieldDay         ExerciseField = "day"
	FieldSeries      ExerciseField = "series"
	FieldRepetitions ExerciseField = "repetitions"
	FieldWeight      ExerciseField = "weight"
	FieldNotes       ExerciseField = "notes"
	FieldOrder       ExerciseField = "order"
)

// ExerciseFields lists the row columns in form order.
var ExerciseFields = []ExerciseField{FieldName, FieldDay, FieldSeries, FieldRepetitions, FieldWeight, FieldNotes, FieldOrder}

// Draft is the mutable working copy of a routine being edited.
//
// ID is zero for a routine that has never been saved.
type Draft struct {
	ID          int
	Name        string
	Description string
	Exercises   []ExerciseDraft
}

// ExerciseDraft is one form row. Numeric columns hold the raw text typed by the user.
type ExerciseDraft struct {
	ID          *int
	Name        string
	Day         models.Weekday
	Series      string
	Repetitions string
	Weight      string
	Notes       string
	Order       string
}

// DefaultExercise is the row appended by "add exercise".
func DefaultExercise() ExerciseDraft {
	return ExerciseDraft{Day: models.Weekdays[0], Series: "3", Repetitions: "10", Order: "0"}
}

// NewDraft returns an unsaved routine with a single default row.
func NewDraft() Draft {
	return Draft{Exercises: []ExerciseDraft{DefaultExercise()}}
}

// Clone returns a deep copy of d.
func (d Draft) Clone() Draft {
	out := d
	out.Exercises = make([]ExerciseDraft, len(d.Exercises))
	for i, ex := range d.Exercises {
		out.Exercises[i] = ex
		if ex.ID != nil {
			id := *ex.ID
			out.Exercises[i].ID = &id
		}
	}
	return out
}

// ToDraft converts a persisted routine into form values.
//
// Absent weight, notes and description become empty strings; numbers become decimal text.
func ToDraft(r models.Routine) Draft {
	d := Draft{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.DescriptionOr(""),
		Exercises:   make([]ExerciseDraft, 0, len(r.Exercises)),
	}

	for _, ex := range r.Exercises {
		row := ExerciseDraft{
			Name:        ex.Name,
			Day:         ex.Day,
			Series:      strconv.Itoa(ex.Series),
			Repetitions: strconv.Itoa(ex.Repetitions),
			Order:       strconv.Itoa(ex.Order),
		}
		if ex.ID != nil {
			id := *ex.ID
			row.ID = &id
		}
		if ex.Weight != nil {
			row.Weight = strconv.FormatFloat(*ex.Weight, 'f', -1, 64)
		}
		if ex.Notes != nil {
			row.Notes = *ex.Notes
		}
		d.Exercises = append(d.Exercises, row)
	}

	return d
}

// ToWire converts form values into the create/update payload.
//
// Blank optional text becomes null, never an empty string. Unparseable integers become 0 and an unparseable weight becomes null.
func ToWire(d Draft) models.RoutinePayload {
	payload := models.RoutinePayload{
		Name:        d.Name,
		Description: optionalText(d.Description),
		Exercises:   make([]models.ExercisePayload, 0, len(d.Exercises)),
	}

	for _, row := range d.Exercises {
		ex := models.ExercisePayload{
			Name:        row.Name,
			Day:         row.Day,
			Series:      parseInt(row.Series),
			Repetitions: parseInt(row.Repetitions),
			Weight:      parseWeight(row.Weight),
			Notes:       optionalText(row.Notes),
			Order:       parseInt(row.Order),
		}
		if row.ID != nil {
			id := *row.ID
			ex.ID = &id
		}
		payload.Exercises = append(payload.Exercises, ex)
	}

	return payload
}

func optionalText(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func parseInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func parseWeight(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &w
}

// positive reports whether s is a strictly positive integer.
func positive(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}

// Validate returns the first violation found, or nil.
//
// The routine name is checked first, then each row in order for a blank name or a non-positive series or repetitions count.
func (d Draft) Validate() *shared.ValidationError {
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewValidationError(shared.CodeInvalidName, string(FieldRoutineName), -1, "routine name is required")
	}

	for i, row := range d.Exercises {
		switch {
		case strings.TrimSpace(row.Name) == "":
			return shared.NewValidationError(shared.CodeInvalidExercise, string(FieldName), i,
				fmt.Sprintf("exercise %d: name is required", i+1))
		case !positive(row.Series):
			return shared.NewValidationError(shared.CodeInvalidExercise, string(FieldSeries), i,
				fmt.Sprintf("exercise %d: series must be a positive integer", i+1))
		case !positive(row.Repetitions):
			return shared.NewValidationError(shared.CodeInvalidExercise, string(FieldRepetitions), i,
				fmt.Sprintf("exercise %d: repetitions must be a positive integer", i+1))
		}
	}

	return nil
}

// SetField assigns a routine-level field.
func (d *Draft) SetField(field RoutineField, value string) error {
	switch field {
	case FieldRoutineName:
		d.Name = value
	case FieldRoutineDescription:
		d.Description = value
	default:
		return fmt.Errorf("%w: unknown routine field %q", shared.ErrInvalidArgument, field)
	}
	return nil
}

// SetExerciseField assigns one column of the row at index.
//
// Day values must parse as a weekday; every other column accepts any text.
func (d *Draft) SetExerciseField(index int, field ExerciseField, value string) error {
	if index < 0 || index >= len(d.Exercises) {
		return fmt.Errorf("%w: exercise index %d out of range", shared.ErrInvalidArgument, index)
	}

	row := &d.Exercises[index]
	switch field {
	case FieldName:
		row.Name = value
	case FieldDay:
		day, err := models.ParseWeekday(value)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
		}
		row.Day = day
	case FieldSeries:
		row.Series = value
	case FieldRepetitions:
		row.Repetitions = value
	case FieldWeight:
		row.Weight = value
	case FieldNotes:
		row.Notes = value
	case FieldOrder:
		row.Order = value
	default:
		return fmt.Errorf("%w: unknown exercise field %q", shared.ErrInvalidArgument, field)
	}
	return nil
}

// AddExercise appends a default row and returns its index.
func (d *Draft) AddExercise() int {
	d.Exercises = append(d.Exercises, DefaultExercise())
	return len(d.Exercises) - 1
}

// RemoveExercise deletes the row at index. Remaining order values are kept as typed.
func (d *Draft) RemoveExercise(index int) error {
	if index < 0 || index >= len(d.Exercises) {
		return fmt.Errorf("%w: exercise index %d out of range", shared.ErrInvalidArgument, index)
	}
	d.Exercises = slices.Delete(d.Exercises, index, index+1)
	return nil
}

// Reorder moves the row at from to position to, shifting the rows in between.
//
// Only display position changes; order values are left untouched.
func (d *Draft) Reorder(from, to int) error {
	n := len(d.Exercises)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: cannot move exercise %d to %d", shared.ErrInvalidArgument, from, to)
	}
	if from == to {
		return nil
	}

	row := d.Exercises[from]
	d.Exercises = slices.Delete(d.Exercises, from, from+1)
	d.Exercises = slices.Insert(d.Exercises, to, row)
	return nil
}

// Cell returns the text of one column, for rendering forms.
func (e ExerciseDraft) Cell(field ExerciseField) string {
	switch field {
	case FieldName:
		return e.Name
	case FieldDay:
		return string(e.Day)
	case FieldSeries:
		return e.Series
	case FieldRepetitions:
		return e.Repetitions
	case FieldWeight:
		return e.Weight
	case FieldNotes:
		return e.Notes
	case FieldOrder:
		return e.Order
	default:
		return ""
	}
}
