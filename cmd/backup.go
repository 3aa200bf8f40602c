package main

import (
	"context"
	"time"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/repositories"
	"github.com/desertthunder/rutinas/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Backup writes every routine to a local directory and records the run in the history database.
func (r *Runner) Backup(ctx context.Context, cmd *cli.Command) error {
	db, release, err := r.database()
	if err != nil {
		return err
	}
	defer release()

	engine := tasks.NewBackupEngine(r.gateway,
		repositories.NewBackupRunRepository(db),
		repositories.NewSnapshotRepository(db),
		r.logger,
	)

	opts := tasks.BackupOpts{
		Format:     r.config.Backup.Format,
		OutputDir:  cmd.String("dir"),
		NumWorkers: r.config.Backup.Workers,
		RateLimit:  r.config.Backup.RateLimit,
	}
	if f := cmd.String("format"); f != "" {
		opts.Format = f
	}
	if n := cmd.Int("workers"); n > 0 {
		opts.NumWorkers = n
	}
	if rate := cmd.Float("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchList:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.BackupRoutine:
				r.writePlain("  [%d/%d] %s\n", update.Step, update.Total, update.Message)
			default:
				r.writePlain("💾 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Backup(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainHeader("Backup complete")
	r.writePlain("Run:        %s\n", result.RunID)
	r.writePlain("Directory:  %s\n", result.OutputDir)
	r.writePlain("Routines:   %d\n", result.Total)
	r.writePlain("Succeeded:  %d\n", result.Succeeded)
	r.writePlain("Failed:     %d\n", result.Failed)

	if result.Failed > 0 {
		r.writePlainln("Failures:")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  ✗ #%d %s: %s\n", res.RoutineID, res.Name, res.Message)
			}
		}
	}
	r.writePlain("\nManifest: %s\n", result.ManifestPath)
	return nil
}

type runView struct {
	ID         string     `json:"id"`
	Format     string     `json:"format"`
	OutputDir  string     `json:"output_dir"`
	Total      int        `json:"total"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type snapshotView struct {
	ID            string    `json:"id"`
	RunID         string    `json:"run_id"`
	RoutineID     int       `json:"routine_id"`
	Name          string    `json:"name"`
	ExerciseCount int       `json:"exercise_count"`
	Path          string    `json:"path"`
	CreatedAt     time.Time `json:"created_at"`
}

func newRunView(b *models.BackupRun) runView {
	return runView{
		ID: b.ID(), Format: b.Format, OutputDir: b.OutputDir, Total: b.Total,
		Succeeded: b.Succeeded, Failed: b.Failed, StartedAt: b.CreatedAt(), FinishedAt: b.FinishedAt,
	}
}

func newSnapshotView(s *models.RoutineSnapshot) snapshotView {
	return snapshotView{
		ID: s.ID(), RunID: s.RunID, RoutineID: s.RoutineID, Name: s.Name,
		ExerciseCount: s.ExerciseCount, Path: s.Path, CreatedAt: s.CreatedAt(),
	}
}

// History lists recorded backup runs, or the snapshots of one run or one routine.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, release, err := r.database()
	if err != nil {
		return err
	}
	defer release()

	runID, routineID := cmd.String("run"), cmd.Int("routine")
	if runID == "" && routineID == 0 {
		return r.listRuns(repositories.NewBackupRunRepository(db), cmd.Int("limit"), cmd.Bool("json"))
	}

	snapshots := repositories.NewSnapshotRepository(db)
	var found []*models.RoutineSnapshot
	if runID != "" {
		found, err = snapshots.ListByRun(runID)
	} else {
		found, err = snapshots.ListByRoutine(routineID)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]snapshotView, 0, len(found))
		for _, s := range found {
			views = append(views, newSnapshotView(s))
		}
		return r.writeJSON(views, true)
	}

	if len(found) == 0 {
		r.writePlain("No snapshots recorded.\n")
		return nil
	}
	for _, s := range found {
		r.writePlain("%s  #%-5d %-28s %2d exercises  %s\n",
			s.CreatedAt().Local().Format("2006-01-02 15:04"), s.RoutineID, s.Name, s.ExerciseCount, s.Path)
	}
	return nil
}

func (r *Runner) listRuns(runs *repositories.BackupRunRepository, limit int, asJSON bool) error {
	found, err := runs.List(limit)
	if err != nil {
		return err
	}

	if asJSON {
		views := make([]runView, 0, len(found))
		for _, b := range found {
			views = append(views, newRunView(b))
		}
		return r.writeJSON(views, true)
	}

	if len(found) == 0 {
		r.writePlain("No backups recorded.\n")
		return nil
	}
	for _, b := range found {
		status := "running"
		if b.FinishedAt != nil {
			status = "done"
		}
		r.writePlain("%s  %s  %-4s %3d ok %3d failed  %-7s %s\n",
			b.CreatedAt().Local().Format("2006-01-02 15:04"), b.ID(), b.Format, b.Succeeded, b.Failed, status, b.OutputDir)
	}
	return nil
}
