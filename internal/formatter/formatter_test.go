package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
	th "github.com/desertthunder/rutinas/internal/testing"
)

func sampleRoutine() models.Routine {
	w := 80.5
	n := "pausa 2 min"
	d := "Semana de fuerza"
	return models.Routine{
		ID:          7,
		Name:        "Fuerza Total",
		Description: &d,
		CreatedAt:   models.Timestamp{Time: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		Exercises: []models.Exercise{
			{Name: "Peso muerto", Day: models.Miercoles, Series: 5, Repetitions: 5, Order: 0},
			{Name: "Press banca", Day: models.Lunes, Series: 4, Repetitions: 8, Order: 2},
			{Name: "Sentadilla", Day: models.Lunes, Series: 4, Repetitions: 8, Weight: &w, Notes: &n, Order: 1},
			{Name: "Sin dia", Series: 1, Repetitions: 1},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("RoutineToCSV", func(t *testing.T) {
		data, err := RoutineToCSV(sampleRoutine())
		if err != nil {
			t.Fatalf("RoutineToCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if lines[0] != "Day,Order,Name,Series,Repetitions,Weight,Notes" {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if len(lines) != 4 {
			t.Fatalf("expected 3 exercise rows plus header, got %d lines", len(lines))
		}
		if lines[1] != "Lunes,1,Sentadilla,4,8,80.5,pausa 2 min" {
			t.Errorf("expected Sentadilla first (order 1 on Lunes), got %s", lines[1])
		}
		if !strings.HasPrefix(lines[3], "Miercoles") {
			t.Errorf("expected Miercoles last, got %s", lines[3])
		}
		if strings.Contains(string(data), "Sin dia") {
			t.Error("expected exercise without a day to be left out")
		}
	})

	t.Run("RoutineToMarkdown", func(t *testing.T) {
		data, err := RoutineToMarkdown(sampleRoutine())
		if err != nil {
			t.Fatalf("RoutineToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Fuerza Total",
			"Semana de fuerza",
			"**Exercises**: 4",
			"**Created**: 2025-03-01",
			"## Lunes",
			"1. Sentadilla 4x8 @ 80.5 kg (pausa 2 min)",
			"2. Press banca 4x8",
			"## Miercoles",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "## Martes") {
			t.Error("expected empty days to be skipped")
		}
	})

	t.Run("RoutineToText", func(t *testing.T) {
		data, err := RoutineToText(sampleRoutine())
		if err != nil {
			t.Fatalf("RoutineToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Routine: Fuerza Total") {
			t.Errorf("text missing routine name, got:\n%s", output)
		}
		if !strings.Contains(output, "Martes:\n  -\n") {
			t.Errorf("expected empty Martes placeholder, got:\n%s", output)
		}
		if strings.Index(output, "Lunes:") > strings.Index(output, "Domingo:") {
			t.Error("expected days in calendar order")
		}
	})

	t.Run("RoutineToJSON", func(t *testing.T) {
		data, err := RoutineToJSON(sampleRoutine())
		if err != nil {
			t.Fatalf("RoutineToJSON failed: %v", err)
		}

		var decoded models.Routine
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.ID != 7 || len(decoded.Exercises) != 4 {
			t.Errorf("unexpected decoded routine %+v", decoded)
		}
	})

	t.Run("Render", func(t *testing.T) {
		t.Run("Unknown Format", func(t *testing.T) {
			if _, err := Render(sampleRoutine(), Format("pdf")); !errors.Is(err, shared.ErrInvalidFlag) {
				t.Errorf("expected ErrInvalidFlag, got %v", err)
			}
		})
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "json", want: FormatJSON},
		{input: "CSV", want: FormatCSV},
		{input: "markdown", want: FormatMarkdown},
		{input: "md", want: FormatMarkdown},
		{input: "text", want: FormatText},
		{input: "pdf", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tc := map[string]string{
		"Fuerza Total":      "fuerza-total",
		"  Día 1: Piernas!": "día-1-piernas",
		"---":               "",
		"abc":               "abc",
	}

	for input, want := range tc {
		if got := Slug(input); got != want {
			t.Errorf("Slug(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestWriters(t *testing.T) {
	t.Run("WriteRoutine", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested")

		path, err := WriteRoutine(dir, sampleRoutine(), FormatMarkdown)
		if err != nil {
			t.Fatalf("WriteRoutine failed: %v", err)
		}
		if filepath.Base(path) != "7_fuerza-total.md" {
			t.Errorf("unexpected filename %s", path)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(th.MustReadFile(t, path), "# Fuerza Total") {
			t.Error("written file missing title")
		}
	})

	t.Run("RoutineFilename Without Name", func(t *testing.T) {
		if got := RoutineFilename(models.Routine{ID: 3, Name: "!!!"}, FormatCSV); got != "3_routine.csv" {
			t.Errorf("expected '3_routine.csv', got %s", got)
		}
	})

	t.Run("WriteExportFile", func(t *testing.T) {
		t.Run("Uses Base Name", func(t *testing.T) {
			dir := t.TempDir()
			file := &models.ExportFile{Filename: "../../rutinas.csv", Data: []byte("id,name\n")}

			path, err := WriteExportFile(dir, file)
			if err != nil {
				t.Fatalf("WriteExportFile failed: %v", err)
			}
			if path != filepath.Join(dir, "rutinas.csv") {
				t.Errorf("expected file inside %s, got %s", dir, path)
			}
			if th.MustReadFile(t, path) != "id,name\n" {
				t.Error("unexpected file contents")
			}
		})

		t.Run("Nil File", func(t *testing.T) {
			if _, err := WriteExportFile(t.TempDir(), nil); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("Unwritable Directory", func(t *testing.T) {
			dir := t.TempDir()
			blocker := filepath.Join(dir, "file")
			if _, err := WriteExportFile(dir, &models.ExportFile{Filename: "file", Data: []byte("x")}); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			_, err := WriteExportFile(blocker, &models.ExportFile{Filename: "rutinas.csv"})
			if err == nil || !strings.Contains(err.Error(), "failed to create directory") {
				t.Errorf("expected directory error, got %v", err)
			}
		})
	})
}
