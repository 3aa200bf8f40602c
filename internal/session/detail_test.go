package session

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
	tu "github.com/desertthunder/rutinas/internal/testing"
)

func TestDetailSession(t *testing.T) {
	ctx := context.Background()

	okGateway := func() *tu.MockGateway {
		return &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				r := loadedRoutine()
				return &r, nil
			},
		}
	}

	t.Run("Load And Calendar", func(t *testing.T) {
		s, cmd := NewDetailSession(ctx, okGateway(), nil, 7)
		if s.State() != DetailLoading {
			t.Fatalf("expected loading, got %d", s.State())
		}
		if len(s.Calendar()) != 7 {
			t.Error("expected an empty seven-day calendar before load")
		}

		Drive(s, cmd)

		if s.State() != DetailReady || s.Routine().ID != 7 {
			t.Fatalf("expected ready with routine 7, got %d", s.State())
		}
		cal := s.Calendar()
		if cal[0].Day != models.Lunes || len(cal[0].Exercises) != 1 || cal[0].Exercises[0].Name != "Sentadilla" {
			t.Errorf("unexpected Lunes column %+v", cal[0])
		}
		if cal[3].Day != models.Jueves || len(cal[3].Exercises) != 1 {
			t.Errorf("unexpected Jueves column %+v", cal[3])
		}
	})

	t.Run("Load Failure And Retry", func(t *testing.T) {
		fail := true
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				if fail {
					return nil, &shared.TransportError{StatusCode: 502}
				}
				return &models.Routine{ID: id}, nil
			},
		}
		s, cmd := NewDetailSession(ctx, gw, nil, 3)
		Drive(s, cmd)
		if s.State() != DetailErrored || !errors.Is(s.Err(), shared.ErrTransport) {
			t.Fatalf("expected errored, got %d %v", s.State(), s.Err())
		}

		fail = false
		Drive(s, s.Retry())
		if s.State() != DetailReady || s.Err() != nil {
			t.Errorf("expected ready after retry, got %d %v", s.State(), s.Err())
		}
	})

	t.Run("Empty Load Response Errors", func(t *testing.T) {
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				return nil, nil
			},
		}
		s, cmd := NewDetailSession(ctx, gw, AlwaysConfirm, 5)
		Drive(s, cmd)

		if s.State() != DetailErrored || !errors.Is(s.Err(), shared.ErrTransport) {
			t.Fatalf("expected errored with transport error, got %d %v", s.State(), s.Err())
		}
		if s.Delete() != nil {
			t.Error("expected delete to be unavailable without a routine")
		}
	})

	t.Run("Stale Load Ignored", func(t *testing.T) {
		gw := &tu.MockGateway{
			GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
				return &models.Routine{ID: id}, nil
			},
		}
		s, first := NewDetailSession(ctx, gw, nil, 1)
		second := s.Load(2)
		m1, m2 := mustMsg(t, first), mustMsg(t, second)

		s.Update(m2)
		s.Update(m1)
		if s.Routine().ID != 2 {
			t.Errorf("expected routine 2, got %d", s.Routine().ID)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Confirmed", func(t *testing.T) {
			gw := okGateway()
			s, cmd := NewDetailSession(ctx, gw, AlwaysConfirm, 7)
			Drive(s, cmd)
			Drive(s, s.Delete())

			if s.State() != DetailDeleted || gw.Calls("Delete") != 1 {
				t.Errorf("expected deleted after one call, got %d", s.State())
			}
			if s.Delete() != nil {
				t.Error("expected delete to be ignored once deleted")
			}
		})

		t.Run("Declined", func(t *testing.T) {
			gw := okGateway()
			s, cmd := NewDetailSession(ctx, gw, ConfirmFunc(func(string) bool { return false }), 7)
			Drive(s, cmd)
			Drive(s, s.Delete())

			if s.State() != DetailReady || gw.Calls("Delete") != 0 {
				t.Errorf("expected ready with no delete call, got %d", s.State())
			}
		})

		t.Run("Failure Notifies", func(t *testing.T) {
			gw := okGateway()
			gw.DeleteFunc = func(ctx context.Context, id int) error {
				return &shared.TransportError{StatusCode: 500}
			}
			s, cmd := NewDetailSession(ctx, gw, AlwaysConfirm, 7)
			Drive(s, cmd)
			Drive(s, s.Delete())

			if s.State() != DetailReady || s.Routine() == nil {
				t.Errorf("expected state intact, got %d", s.State())
			}
			if s.Err() != nil {
				t.Errorf("expected no error state, got %v", s.Err())
			}
			if n := s.Notice(); n == nil || !n.IsError() {
				t.Errorf("expected error notice, got %+v", n)
			}
		})

		t.Run("Ignored Before Load", func(t *testing.T) {
			s, _ := NewDetailSession(ctx, okGateway(), AlwaysConfirm, 7)
			if s.Delete() != nil {
				t.Error("expected no command while loading")
			}
		})
	})
}
