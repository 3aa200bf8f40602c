package models

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//
// For TOML routine files only
//

// RoutineTOML is the on-disk shape used by `rutinas create --file` and `rutinas edit --file`.
//
// Numeric fields are strings so a file can carry the same blank/partial values a form would.
type RoutineTOML struct {
	Name        string         `toml:"name"`
	Description string         `toml:"description"`
	Exercises   []ExerciseTOML `toml:"exercise"`
}

type ExerciseTOML struct {
	Name        string `toml:"name"`
	Day         string `toml:"day"`
	Series      any    `toml:"series"`
	Repetitions any    `toml:"repetitions"`
	Weight      any    `toml:"weight,omitempty"`
	Notes       string `toml:"notes,omitempty"`
	Order       any    `toml:"order,omitempty"`
}

// LoadRoutineTOML decodes a routine file from path.
func LoadRoutineTOML(path string) (*RoutineTOML, error) {
	var r RoutineTOML
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, fmt.Errorf("failed to decode routine file %s: %w", path, err)
	}
	return &r, nil
}

// WriteRoutineTOML encodes a routine to path, suitable for editing and re-submitting.
func WriteRoutineTOML(path string, r Routine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	out := RoutineTOML{Name: r.Name, Description: r.DescriptionOr("")}
	for _, ex := range r.Exercises {
		row := ExerciseTOML{
			Name:        ex.Name,
			Day:         string(ex.Day),
			Series:      ex.Series,
			Repetitions: ex.Repetitions,
			Order:       ex.Order,
		}
		if ex.Weight != nil {
			row.Weight = *ex.Weight
		}
		if ex.Notes != nil {
			row.Notes = *ex.Notes
		}
		out.Exercises = append(out.Exercises, row)
	}

	if err := toml.NewEncoder(f).Encode(out); err != nil {
		return fmt.Errorf("failed to encode routine: %w", err)
	}
	return nil
}

// FieldText renders a loosely typed TOML value the way a form field would show it.
func FieldText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
