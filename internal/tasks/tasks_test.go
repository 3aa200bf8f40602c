package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/repositories"
	"github.com/desertthunder/rutinas/internal/shared"
	tu "github.com/desertthunder/rutinas/internal/testing"
)

// pagedGateway serves n routines through List pages and fails Get for the ids in failing.
func pagedGateway(n int, failing ...int) *tu.MockGateway {
	all := make([]models.Routine, 0, n)
	for i := 1; i <= n; i++ {
		all = append(all, tu.SampleRoutine(i, "Rutina "+string(rune('A'+i-1)), i%3))
	}

	return &tu.MockGateway{
		ListFunc: func(ctx context.Context, q models.ListQuery) (*models.RoutinePage, error) {
			start := min((q.Page-1)*q.Size, len(all))
			end := min(start+q.Size, len(all))
			return &models.RoutinePage{Items: all[start:end], Total: len(all), Page: q.Page, Size: q.Size}, nil
		},
		GetFunc: func(ctx context.Context, id int) (*models.Routine, error) {
			for _, f := range failing {
				if f == id {
					return nil, &shared.TransportError{StatusCode: 500}
				}
			}
			r := all[id-1]
			return &r, nil
		},
	}
}

func setupHistory(t *testing.T) (*repositories.BackupRunRepository, *repositories.SnapshotRepository) {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repositories.NewBackupRunRepository(db), repositories.NewSnapshotRepository(db)
}

func fastOpts(dir string) BackupOpts {
	return BackupOpts{OutputDir: dir, RateLimit: 1000, PageSize: 3}
}

func TestBackupEngine_Backup(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes Every Routine And Records History", func(t *testing.T) {
		runs, snapshots := setupHistory(t)
		gw := pagedGateway(7, 4)
		engine := NewBackupEngine(gw, runs, snapshots, nil)
		dir := t.TempDir()
		prog := make(chan ProgressUpdate, 64)

		result, err := engine.Backup(ctx, prog, fastOpts(dir))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Total != 7 || result.Succeeded != 6 || result.Failed != 1 {
			t.Errorf("unexpected counts %d/%d/%d", result.Total, result.Succeeded, result.Failed)
		}
		if gw.Calls("List") != 3 {
			t.Errorf("expected 3 list pages, got %d", gw.Calls("List"))
		}
		if gw.Calls("Get") != 7 {
			t.Errorf("expected 7 fetches, got %d", gw.Calls("Get"))
		}

		for i, res := range result.Results {
			if res.RoutineID != i+1 {
				t.Fatalf("expected results ordered by id, got %d at %d", res.RoutineID, i)
			}
			if res.RoutineID == 4 {
				if res.Success || !errors.Is(res.Error, shared.ErrTransport) || res.Message == "" {
					t.Errorf("expected transport failure for routine 4, got %+v", res)
				}
				continue
			}
			tu.AssertFileExists(t, res.Path)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "1_rutina-a.json"))
		manifest := tu.MustReadFile(t, result.ManifestPath)
		if !strings.Contains(manifest, `"succeeded": 6`) {
			t.Errorf("manifest missing counts:\n%s", manifest)
		}

		run, err := runs.Get(result.RunID)
		if err != nil {
			t.Fatalf("expected recorded run: %v", err)
		}
		if run.Total != 7 || run.Failed != 1 || run.FinishedAt == nil {
			t.Errorf("unexpected run %+v", run)
		}

		snaps, err := snapshots.ListByRun(result.RunID)
		if err != nil {
			t.Fatal(err)
		}
		if len(snaps) != 6 {
			t.Errorf("expected 6 snapshots, got %d", len(snaps))
		}

		close(prog)
		var phases []Phase
		for u := range prog {
			phases = append(phases, u.Phase)
		}
		if phases[0] != FetchList || phases[len(phases)-1] != WriteManifest {
			t.Errorf("unexpected phase order %v", phases)
		}
	})

	t.Run("Without History", func(t *testing.T) {
		engine := NewBackupEngine(pagedGateway(2), nil, nil, nil)
		opts := fastOpts(t.TempDir())
		opts.Format = "md"

		result, err := engine.Backup(ctx, nil, opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.RunID != "" {
			t.Error("expected no run id without a recorder")
		}
		if !strings.HasSuffix(result.Results[0].Path, ".md") {
			t.Errorf("expected markdown files, got %s", result.Results[0].Path)
		}
	})

	t.Run("Empty Backend", func(t *testing.T) {
		engine := NewBackupEngine(&tu.MockGateway{}, nil, nil, nil)

		result, err := engine.Backup(ctx, nil, fastOpts(t.TempDir()))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 || len(result.Results) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
		tu.AssertFileExists(t, result.ManifestPath)
	})

	t.Run("List Failure", func(t *testing.T) {
		runs, snapshots := setupHistory(t)
		gw := &tu.MockGateway{
			ListFunc: func(ctx context.Context, q models.ListQuery) (*models.RoutinePage, error) {
				return nil, &shared.TransportError{Err: errors.New("connection refused")}
			},
		}
		engine := NewBackupEngine(gw, runs, snapshots, nil)

		if _, err := engine.Backup(ctx, nil, fastOpts(t.TempDir())); !errors.Is(err, shared.ErrTransport) {
			t.Errorf("expected transport error, got %v", err)
		}
		if recorded, _ := runs.List(0); len(recorded) != 0 {
			t.Error("expected no run recorded when the list fails")
		}
	})

	t.Run("Invalid Format", func(t *testing.T) {
		engine := NewBackupEngine(pagedGateway(1), nil, nil, nil)
		opts := fastOpts(t.TempDir())
		opts.Format = "pdf"

		if _, err := engine.Backup(ctx, nil, opts); !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected invalid flag error, got %v", err)
		}
	})

	t.Run("Nil Gateway", func(t *testing.T) {
		engine := NewBackupEngine(nil, nil, nil, nil)
		if _, err := engine.Backup(ctx, nil, BackupOpts{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected service unavailable, got %v", err)
		}
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		engine := NewBackupEngine(pagedGateway(3), nil, nil, nil)
		dir := t.TempDir()

		result, err := engine.Backup(cctx, nil, fastOpts(dir))
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
		if result == nil || result.Succeeded != 0 {
			t.Errorf("expected partial result with no successes, got %+v", result)
		}
		if _, err := os.Stat(filepath.Join(dir, ManifestName)); !os.IsNotExist(err) {
			t.Error("expected no manifest for a cancelled backup")
		}
	})
}

func TestBackupOpts_Defaults(t *testing.T) {
	o := BackupOpts{NumWorkers: 50}.withDefaults()
	if o.NumWorkers != 10 || o.RateLimit != 5 || o.PageSize != 50 || o.Format != "json" {
		t.Errorf("unexpected defaults %+v", o)
	}
	if !strings.HasPrefix(o.OutputDir, "rutinas_backup_") {
		t.Errorf("unexpected output dir %s", o.OutputDir)
	}
}

func TestProgressUpdate_NonBlocking(t *testing.T) {
	engine := NewBackupEngine(&tu.MockGateway{}, nil, nil, nil)
	blocked := make(chan ProgressUpdate)

	engine.sendProgress(blocked, fetchPageUpdate(1, 1))
	engine.sendProgress(nil, fetchPageUpdate(1, 1))
}

func TestPhase_String(t *testing.T) {
	tests := map[Phase]string{
		FetchList:     "fetch_list",
		BackupRoutine: "backup_routine",
		RecordHistory: "record_history",
		WriteManifest: "write_manifest",
		Phase(99):     "",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
