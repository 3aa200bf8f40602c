package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
	tu "github.com/desertthunder/rutinas/internal/testing"
)

func TestEditSession(t *testing.T) {
	ctx := context.Background()

	t.Run("New Routine Starts Ready", func(t *testing.T) {
		s := NewEditSession(ctx, &tu.MockGateway{})

		if s.State() != EditReady {
			t.Fatalf("expected ready, got %s", s.State())
		}
		if !s.IsNew() {
			t.Error("expected new routine")
		}
		if d := s.Draft(); len(d.Exercises) != 1 || d.Exercises[0] != DefaultExercise() {
			t.Errorf("expected one default row, got %+v", d.Exercises)
		}
	})

	t.Run("Load", func(t *testing.T) {
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				r := loadedRoutine()
				return &r, nil
			},
		}
		s, cmd := OpenEditSession(ctx, gw, 7)
		if s.State() != EditLoading {
			t.Fatalf("expected loading, got %s", s.State())
		}
		if err := s.SetField(FieldRoutineName, "x"); !errors.Is(err, shared.ErrBusy) {
			t.Errorf("expected edits to be rejected while loading, got %v", err)
		}

		Drive(s, cmd)

		if s.State() != EditReady {
			t.Fatalf("expected ready, got %s", s.State())
		}
		if d := s.Draft(); d.ID != 7 || len(d.Exercises) != 2 {
			t.Errorf("unexpected draft %+v", d)
		}
	})

	t.Run("Load Supersession", func(t *testing.T) {
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				return &models.Routine{ID: id, Name: "r"}, nil
			},
		}
		s := NewEditSession(ctx, gw)
		first := s.Load(1)
		second := s.Load(2)
		m1, m2 := mustMsg(t, first), mustMsg(t, second)

		s.Update(m2)
		s.Update(m1)

		if s.Draft().ID != 2 {
			t.Errorf("expected the latest load to win, got draft %d", s.Draft().ID)
		}
	})

	t.Run("Load Failure And Retry", func(t *testing.T) {
		fail := true
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				if fail {
					return nil, &shared.NotFoundError{Resource: "routine", ID: id}
				}
				return &models.Routine{ID: id, Name: "ok"}, nil
			},
		}
		s, cmd := OpenEditSession(ctx, gw, 9)
		Drive(s, cmd)

		if s.State() != EditErrored || !errors.Is(s.Err(), shared.ErrNotFound) {
			t.Fatalf("expected errored with not found, got %s %v", s.State(), s.Err())
		}
		if s.Submit() != nil {
			t.Error("expected submit to be ignored while errored")
		}

		fail = false
		Drive(s, s.Retry())
		if s.State() != EditReady || s.Draft().Name != "ok" {
			t.Errorf("expected retry to recover, got %s", s.State())
		}
		if s.Retry() != nil {
			t.Error("expected retry to be a no-op when ready")
		}
	})

	t.Run("Invalid Draft Never Reaches Network", func(t *testing.T) {
		gw := &tu.MockGateway{}
		s := &EditSession{ctx: ctx, gateway: gw, state: EditReady}

		i := s.AddExercise()
		if err := s.SetField(FieldRoutineName, "Pecho"); err != nil {
			t.Fatal(err)
		}
		if err := s.SetExerciseField(i, FieldName, "Bench Press"); err != nil {
			t.Fatal(err)
		}
		if err := s.SetExerciseField(i, FieldSeries, "0"); err != nil {
			t.Fatal(err)
		}

		if cmd := s.Submit(); cmd != nil {
			t.Fatal("expected no command for an invalid draft")
		}

		var verr *shared.ValidationError
		if !errors.As(s.Err(), &verr) || verr.Code != shared.CodeInvalidExercise || verr.Index != 0 {
			t.Errorf("expected exercise error at 0, got %v", s.Err())
		}
		if gw.Calls("Create")+gw.Calls("Update") != 0 {
			t.Error("expected no network call")
		}
		if s.State() != EditReady {
			t.Errorf("expected to stay ready, got %s", s.State())
		}
	})

	t.Run("Submit Creates New Routine", func(t *testing.T) {
		gw := &tu.MockGateway{
			CreateFunc: func(ctx context.Context, p models.RoutinePayload) (*models.Routine, error) {
				return &models.Routine{ID: 31, Name: p.Name}, nil
			},
		}
		s := NewEditSession(ctx, gw)
		s.SetField(FieldRoutineName, "Espalda")
		s.SetExerciseField(0, FieldName, "Remo")

		cmd := s.Submit()
		if s.State() != EditSaving {
			t.Fatalf("expected saving, got %s", s.State())
		}
		if s.Submit() != nil {
			t.Error("expected second submit to be ignored while saving")
		}
		if s.AddExercise() != -1 {
			t.Error("expected edits to be rejected while saving")
		}

		Drive(s, cmd)

		if s.State() != EditSaved || s.SavedID() != 31 {
			t.Errorf("expected saved with id 31, got %s %d", s.State(), s.SavedID())
		}
		if gw.Calls("Create") != 1 || gw.Calls("Update") != 0 {
			t.Error("expected exactly one create")
		}
		if gw.LastPayload.Exercises[0].Series != 3 || gw.LastPayload.Exercises[0].Weight != nil {
			t.Errorf("unexpected payload %+v", gw.LastPayload.Exercises[0])
		}
		if s.Submit() != nil {
			t.Error("expected submit to be ignored once saved")
		}
	})

	t.Run("Load Then Submit Round Trips", func(t *testing.T) {
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				r := loadedRoutine()
				return &r, nil
			},
		}
		s, cmd := OpenEditSession(ctx, gw, 7)
		Drive(s, cmd)
		Drive(s, s.Submit())

		if gw.Calls("Update") != 1 || gw.Calls("Create") != 0 {
			t.Fatalf("expected one update, got create=%d update=%d", gw.Calls("Create"), gw.Calls("Update"))
		}

		r := loadedRoutine()
		got := gw.LastPayload
		if got.Name != r.Name || got.Description != nil || len(got.Exercises) != len(r.Exercises) {
			t.Fatalf("unexpected payload %+v", got)
		}
		for i, ex := range r.Exercises {
			want := models.ExercisePayload{
				ID: ex.ID, Name: ex.Name, Day: ex.Day, Series: ex.Series, Repetitions: ex.Repetitions,
				Weight: ex.Weight, Notes: ex.Notes, Order: ex.Order,
			}
			if !reflect.DeepEqual(got.Exercises[i], want) {
				t.Errorf("exercise %d: got %+v, want %+v", i, got.Exercises[i], want)
			}
		}
	})

	t.Run("Save Failure Preserves Draft", func(t *testing.T) {
		gw := &tu.MockGateway{
			CreateFunc: func(ctx context.Context, p models.RoutinePayload) (*models.Routine, error) {
				return nil, &shared.ValidationError{Code: shared.CodeServerRejected, Message: "duplicate name", StatusCode: 400}
			},
		}
		s := NewEditSession(ctx, gw)
		s.SetField(FieldRoutineName, "Espalda")
		s.SetExerciseField(0, FieldName, "Remo")
		before := s.Draft()

		Drive(s, s.Submit())

		if s.State() != EditReady {
			t.Fatalf("expected ready after failure, got %s", s.State())
		}
		if !errors.Is(s.Err(), shared.ErrValidation) {
			t.Errorf("expected validation error to surface, got %v", s.Err())
		}
		if !reflect.DeepEqual(s.Draft(), before) {
			t.Error("expected draft to be unchanged after a failed save")
		}
		if shared.IsRetryable(s.Err()) {
			t.Error("expected server validation to need edits before retry")
		}
	})

	t.Run("Empty Responses", func(t *testing.T) {
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				return nil, nil
			},
			CreateFunc: func(ctx context.Context, p models.RoutinePayload) (*models.Routine, error) {
				return nil, nil
			},
		}

		t.Run("Load Errors", func(t *testing.T) {
			s, cmd := OpenEditSession(ctx, gw, 4)
			Drive(s, cmd)

			if s.State() != EditErrored || !errors.Is(s.Err(), shared.ErrTransport) {
				t.Errorf("expected errored with transport error, got %s %v", s.State(), s.Err())
			}
		})

		t.Run("Save Keeps Draft", func(t *testing.T) {
			s := NewEditSession(ctx, gw)
			s.SetField(FieldRoutineName, "Pierna")
			s.SetExerciseField(0, FieldName, "Prensa")
			before := s.Draft()

			Drive(s, s.Submit())

			if s.State() != EditReady || !errors.Is(s.Err(), shared.ErrTransport) {
				t.Fatalf("expected ready with transport error, got %s %v", s.State(), s.Err())
			}
			if s.SavedID() != 0 || !s.IsNew() {
				t.Errorf("expected nothing to be marked saved, got id %d", s.SavedID())
			}
			if !reflect.DeepEqual(s.Draft(), before) {
				t.Error("expected draft to be unchanged")
			}
		})
	})

	t.Run("Draft Accessor Returns Copy", func(t *testing.T) {
		s := NewEditSession(ctx, &tu.MockGateway{})
		d := s.Draft()
		d.Exercises[0].Name = "leak"
		if s.Draft().Exercises[0].Name == "leak" {
			t.Error("expected Draft() to return a copy")
		}
	})

	t.Run("Row Operations", func(t *testing.T) {
		s := NewEditSession(ctx, &tu.MockGateway{})
		s.SetExerciseField(0, FieldName, "A")
		s.SetExerciseField(s.AddExercise(), FieldName, "B")

		if err := s.Reorder(1, 0); err != nil {
			t.Fatal(err)
		}
		if s.Draft().Exercises[0].Name != "B" {
			t.Errorf("expected B first after reorder, got %+v", s.Draft().Exercises)
		}
		if err := s.RemoveExercise(0); err != nil {
			t.Fatal(err)
		}
		if len(s.Draft().Exercises) != 1 || s.Draft().Exercises[0].Name != "A" {
			t.Errorf("unexpected rows %+v", s.Draft().Exercises)
		}
		if err := s.SetExerciseField(3, FieldName, "x"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected index error, got %v", err)
		}
		if v := s.Validate(); v == nil || v.Code != shared.CodeInvalidName {
			t.Errorf("expected name error, got %v", v)
		}
	})
}
