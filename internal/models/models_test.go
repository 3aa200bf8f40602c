package models

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func TestWeekday(t *testing.T) {
	t.Run("ParseWeekday", func(t *testing.T) {
		tc := []struct {
			name    string
			input   string
			want    Weekday
			wantErr bool
		}{
			{name: "exact label", input: "Lunes", want: Lunes},
			{name: "lower case with space", input: "  miercoles ", want: Miercoles},
			{name: "unknown", input: "Monday", wantErr: true},
			{name: "empty", input: "", wantErr: true},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				got, err := ParseWeekday(tt.input)
				if (err != nil) != tt.wantErr {
					t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				}
				if got != tt.want {
					t.Errorf("ParseWeekday(%q) = %q, want %q", tt.input, got, tt.want)
				}
			})
		}
	})

	t.Run("Index and Valid", func(t *testing.T) {
		if Domingo.Index() != 6 {
			t.Errorf("expected Domingo at index 6, got %d", Domingo.Index())
		}
		if Weekday("Funday").Valid() {
			t.Error("expected unknown day to be invalid")
		}
		if Weekday("").Index() != -1 {
			t.Error("expected empty day to have index -1")
		}
	})
}

func TestExportFormat(t *testing.T) {
	t.Run("parses known formats", func(t *testing.T) {
		f, err := ParseExportFormat(" PDF ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if f.Filename() != "rutinas.pdf" {
			t.Errorf("expected rutinas.pdf, got %s", f.Filename())
		}
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		if _, err := ParseExportFormat("xlsx"); err == nil {
			t.Error("expected error for xlsx")
		}
	})
}

func TestWeeklyCalendar(t *testing.T) {
	exercises := []Exercise{
		{Name: "Squat", Day: Lunes, Order: 2},
		{Name: "Bench", Day: Lunes, Order: 1},
		{Name: "Row", Day: Miercoles, Order: 0},
		{Name: "Curl", Day: Lunes, Order: 1},
		{Name: "Ghost", Day: ""},
		{Name: "Typo", Day: "Lunnes"},
	}

	days := WeeklyCalendar(exercises)

	t.Run("always has seven days in order", func(t *testing.T) {
		if len(days) != 7 {
			t.Fatalf("expected 7 days, got %d", len(days))
		}
		for i, d := range days {
			if d.Day != Weekdays[i] {
				t.Errorf("day %d: expected %s, got %s", i, Weekdays[i], d.Day)
			}
		}
	})

	t.Run("sorts by order with ties kept in slice order", func(t *testing.T) {
		got := days[0].Exercises
		want := []string{"Bench", "Curl", "Squat"}
		if len(got) != len(want) {
			t.Fatalf("expected %d exercises on Lunes, got %d", len(want), len(got))
		}
		for i, name := range want {
			if got[i].Name != name {
				t.Errorf("position %d: expected %s, got %s", i, name, got[i].Name)
			}
		}
	})

	t.Run("drops exercises without a valid day", func(t *testing.T) {
		total := 0
		for _, d := range days {
			total += len(d.Exercises)
		}
		if total != 4 {
			t.Errorf("expected 4 scheduled exercises, got %d", total)
		}
	})

	t.Run("empty input yields empty days", func(t *testing.T) {
		for _, d := range WeeklyCalendar(nil) {
			if d.Exercises == nil || len(d.Exercises) != 0 {
				t.Errorf("expected empty, non-nil slice for %s", d.Day)
			}
		}
	})
}

func TestRoutineTOML(t *testing.T) {
	routine := Routine{
		ID:          3,
		Name:        "Push Pull",
		Description: strPtr("Upper body"),
		Exercises: []Exercise{
			{ID: intPtr(10), Name: "Bench Press", Day: Lunes, Series: 4, Repetitions: 8, Weight: floatPtr(62.5), Order: 1},
			{ID: intPtr(11), Name: "Pull Up", Day: Jueves, Series: 3, Repetitions: 10, Notes: strPtr("strict"), Order: 0},
		},
	}

	path := filepath.Join(t.TempDir(), "routine.toml")
	if err := WriteRoutineTOML(path, routine); err != nil {
		t.Fatalf("failed to write routine file: %v", err)
	}

	loaded, err := LoadRoutineTOML(path)
	if err != nil {
		t.Fatalf("failed to load routine file: %v", err)
	}

	if loaded.Name != "Push Pull" || loaded.Description != "Upper body" {
		t.Errorf("unexpected routine header %+v", loaded)
	}
	if len(loaded.Exercises) != 2 {
		t.Fatalf("expected 2 exercises, got %d", len(loaded.Exercises))
	}

	bench := loaded.Exercises[0]
	if FieldText(bench.Series) != "4" || FieldText(bench.Weight) != "62.5" {
		t.Errorf("unexpected bench fields series=%v weight=%v", bench.Series, bench.Weight)
	}
	if FieldText(loaded.Exercises[1].Weight) != "" {
		t.Errorf("expected blank weight for pull up, got %v", loaded.Exercises[1].Weight)
	}
	if loaded.Exercises[1].Notes != "strict" {
		t.Errorf("expected notes to survive, got %q", loaded.Exercises[1].Notes)
	}
}

func TestSnapshotValidate(t *testing.T) {
	run := NewBackupRun("json", "/tmp/out")
	if err := run.Validate(); err != nil {
		t.Errorf("expected valid run, got %v", err)
	}
	if err := NewBackupRun("", "/tmp").Validate(); err == nil {
		t.Error("expected error for missing format")
	}

	run.Finish(3, 1)
	if run.Total != 4 || run.FinishedAt == nil {
		t.Errorf("expected finished run with total 4, got %+v", run)
	}

	snap := NewRoutineSnapshot("run-1", Routine{ID: 0, Name: "x"}, "/tmp/x.json")
	if err := snap.Validate(); err == nil {
		t.Error("expected error for unsaved routine id")
	}
}

func TestTimestamp(t *testing.T) {
	tc := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "naive", input: `"2025-03-01T10:00:00"`, want: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "naive with micros", input: `"2025-03-01T10:00:00.250000"`, want: time.Date(2025, 3, 1, 10, 0, 0, 250000000, time.UTC)},
		{name: "with offset", input: `"2025-03-01T10:00:00Z"`, want: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)},
		{name: "null", input: `null`},
		{name: "garbage", input: `"yesterday"`, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}

	t.Run("zero marshals as null", func(t *testing.T) {
		data, err := json.Marshal(Routine{Name: "Fuerza"})
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		var raw map[string]any
		json.Unmarshal(data, &raw)
		if v, ok := raw["created_at"]; !ok || v != nil {
			t.Errorf("expected created_at null, got %v", v)
		}
	})
}
