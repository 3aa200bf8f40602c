// package formatter renders routines locally (CSV, Markdown, plain text, JSON) and writes export files to disk
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
)

// Format is a local rendering format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat accepts json, csv, md (or markdown) and txt (or text).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, s)
	}
}

// Render converts a routine to the given format.
func Render(r models.Routine, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return RoutineToJSON(r)
	case FormatCSV:
		return RoutineToCSV(r)
	case FormatMarkdown:
		return RoutineToMarkdown(r)
	case FormatText:
		return RoutineToText(r)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidFlag, format)
	}
}

func weight(w *float64) string {
	if w == nil {
		return ""
	}
	return strconv.FormatFloat(*w, 'f', -1, 64)
}

func notes(n *string) string {
	if n == nil {
		return ""
	}
	return *n
}

// RoutineToCSV writes one row per exercise in calendar order with columns: Day, Order, Name, Series, Repetitions, Weight, Notes
func RoutineToCSV(r models.Routine) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Day", "Order", "Name", "Series", "Repetitions", "Weight", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, day := range models.WeeklyCalendar(r.Exercises) {
		for _, ex := range day.Exercises {
			record := []string{
				string(ex.Day),
				strconv.Itoa(ex.Order),
				ex.Name,
				strconv.Itoa(ex.Series),
				strconv.Itoa(ex.Repetitions),
				weight(ex.Weight),
				notes(ex.Notes),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func exerciseLine(ex models.Exercise) string {
	line := fmt.Sprintf("%s %dx%d", ex.Name, ex.Series, ex.Repetitions)
	if ex.Weight != nil {
		line += fmt.Sprintf(" @ %s kg", weight(ex.Weight))
	}
	if n := notes(ex.Notes); n != "" {
		line += fmt.Sprintf(" (%s)", n)
	}
	return line
}

// RoutineToMarkdown renders the weekly calendar as one section per day with exercises.
func RoutineToMarkdown(r models.Routine) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", r.Name)
	if d := r.DescriptionOr(""); d != "" {
		fmt.Fprintf(&buf, "%s\n\n", d)
	}

	fmt.Fprintf(&buf, "**Exercises**: %d\n", len(r.Exercises))
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(&buf, "**Created**: %s\n", r.CreatedAt.Format("2006-01-02"))
	}

	for _, day := range models.WeeklyCalendar(r.Exercises) {
		if len(day.Exercises) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "\n## %s\n\n", day.Day)
		for i, ex := range day.Exercises {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, exerciseLine(ex))
		}
	}

	return buf.Bytes(), nil
}

// RoutineToText renders the weekly calendar as plain text. Days without exercises show a dash.
func RoutineToText(r models.Routine) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Routine: %s\n", r.Name)
	if d := r.DescriptionOr(""); d != "" {
		fmt.Fprintf(&buf, "Description: %s\n", d)
	}
	fmt.Fprintf(&buf, "Exercises: %d\n\n", len(r.Exercises))

	for _, day := range models.WeeklyCalendar(r.Exercises) {
		fmt.Fprintf(&buf, "%s:\n", day.Day)
		if len(day.Exercises) == 0 {
			buf.WriteString("  -\n")
			continue
		}
		for _, ex := range day.Exercises {
			fmt.Fprintf(&buf, "  %s\n", exerciseLine(ex))
		}
	}

	return buf.Bytes(), nil
}

// RoutineToJSON renders the routine exactly as the backend returns it, indented.
func RoutineToJSON(r models.Routine) ([]byte, error) {
	return shared.MarshalJSON(r, true)
}

// Slug lowercases s and keeps letters and digits, joining runs of anything else with a single dash.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// RoutineFilename is "<id>_<slug>.<format>", e.g. "7_fuerza-total.md".
func RoutineFilename(r models.Routine, format Format) string {
	slug := Slug(r.Name)
	if slug == "" {
		slug = "routine"
	}
	return fmt.Sprintf("%d_%s.%s", r.ID, slug, format)
}

// WriteRoutine renders r and writes it to dir, creating dir as needed. Returns the written path.
func WriteRoutine(dir string, r models.Routine, format Format) (string, error) {
	data, err := Render(r, format)
	if err != nil {
		return "", fmt.Errorf("failed to render routine %d: %w", r.ID, err)
	}
	return writeFile(dir, RoutineFilename(r, format), data)
}

// WriteExportFile writes a downloaded export blob into dir under its server-provided name.
//
// Directory components in the filename are dropped.
func WriteExportFile(dir string, file *models.ExportFile) (string, error) {
	if file == nil {
		return "", fmt.Errorf("%w: no export data", shared.ErrInvalidInput)
	}

	name := filepath.Base(file.Filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "rutinas.bin"
	}

	return writeFile(dir, name, file.Data)
}

func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
