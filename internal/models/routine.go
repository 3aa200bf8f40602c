package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is one of the seven fixed day labels used by the backend.
type Weekday string

const (
	Lunes     Weekday = "Lunes"
	Martes    Weekday = "Martes"
	Miercoles Weekday = "Miercoles"
	Jueves    Weekday = "Jueves"
	Viernes   Weekday = "Viernes"
	Sabado    Weekday = "Sabado"
	Domingo   Weekday = "Domingo"
)

// Weekdays lists every valid day in calendar order.
var Weekdays = []Weekday{Lunes, Martes, Miercoles, Jueves, Viernes, Sabado, Domingo}

// ParseWeekday matches s (case-insensitive, surrounding space ignored) against the weekday labels.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// Valid reports whether d is one of the fixed labels.
func (d Weekday) Valid() bool {
	for _, w := range Weekdays {
		if d == w {
			return true
		}
	}
	return false
}

// Index returns the position of d within [Weekdays], or -1.
func (d Weekday) Index() int {
	for i, w := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// Timestamp decodes the backend's datetimes, which may be sent without a zone offset.
//
// Naive values are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return t.Time.MarshalJSON()
}

// Routine is a named, ordered collection of scheduled exercises.
//
// ID is zero until the backend assigns one.
type Routine struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	CreatedAt   Timestamp  `json:"created_at"`
	Exercises   []Exercise `json:"exercises"`
}

// DescriptionOr returns the description or fallback when it is absent or blank.
func (r Routine) DescriptionOr(fallback string) string {
	if r.Description == nil || strings.TrimSpace(*r.Description) == "" {
		return fallback
	}
	return *r.Description
}

// Exercise is one scheduled movement within a routine.
type Exercise struct {
	ID          *int     `json:"id,omitempty"`
	RoutineID   int      `json:"routine_id,omitempty"`
	Name        string   `json:"name"`
	Day         Weekday  `json:"day"`
	Series      int      `json:"series"`
	Repetitions int      `json:"repetitions"`
	Weight      *float64 `json:"weight"`
	Notes       *string  `json:"notes"`
	Order       int      `json:"order"`
}

// RoutinePayload is the body sent on create and update.
type RoutinePayload struct {
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Exercises   []ExercisePayload `json:"exercises"`
}

// ExercisePayload is one exercise on the wire. ID is omitted for rows not yet persisted.
type ExercisePayload struct {
	ID          *int     `json:"id,omitempty"`
	Name        string   `json:"name"`
	Day         Weekday  `json:"day"`
	Series      int      `json:"series"`
	Repetitions int      `json:"repetitions"`
	Weight      *float64 `json:"weight"`
	Notes       *string  `json:"notes"`
	Order       int      `json:"order"`
}

// DefaultPageSize is the number of routines shown per page.
const DefaultPageSize = 6

// ListQuery is one immutable browse request.
type ListQuery struct {
	Name string  // substring filter, empty for none
	Day  Weekday // empty for none
	Page int     // 1-based
	Size int
}

// RoutinePage is one page of list results.
type RoutinePage struct {
	Items []Routine `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// RoutineCount is one entry of [Stats.TopRoutinesByExercises].
type RoutineCount struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	ExerciseCount int    `json:"exercise_count"`
}

// Stats is the server-derived aggregate shown next to the list.
type Stats struct {
	TotalRoutines          int             `json:"total_routines"`
	TotalExercises         int             `json:"total_exercises"`
	AvgExercisesPerRoutine float64         `json:"avg_exercises_per_routine"`
	TopRoutinesByExercises []RoutineCount  `json:"top_routines_by_exercises"`
	ExercisesPerDay        map[Weekday]int `json:"exercises_per_day"`
}

// ExportFormat is a server-side export format.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ParseExportFormat accepts "csv" or "pdf".
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportCSV, ExportPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Filename returns the default download name, e.g. "rutinas.csv".
func (f ExportFormat) Filename() string {
	return "rutinas." + string(f)
}

// ExportFile is a downloaded export blob.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
