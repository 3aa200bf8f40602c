package tasks

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/rutinas/internal/formatter"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
	"golang.org/x/time/rate"
)

const ManifestName = "backup_manifest.json"

// BackupOpts contains configuration for a backup run.
type BackupOpts struct {
	Format     string  // json, csv, md or txt (default: json)
	OutputDir  string  // Output directory (default: rutinas_backup_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Requests per second (default: 5)
	PageSize   int     // List page size used to collect ids (default: 50)
}

func (o BackupOpts) withDefaults() BackupOpts {
	if o.Format == "" {
		o.Format = string(formatter.FormatJSON)
	}
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("rutinas_backup_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 5
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
	if o.PageSize <= 0 {
		o.PageSize = 50
	}
	return o
}

type backupJob struct {
	id   int
	name string
}

type backupOutcome struct {
	RoutineBackupResult
	routine *models.Routine
}

// Backup writes every routine to opts.OutputDir and records the run.
//
// Individual routine failures are reported in the result. An error is returned when the list cannot be
// collected, the run cannot be recorded, the context is cancelled, or the manifest cannot be written.
func (e *BackupEngine) Backup(ctx context.Context, prog chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error) {
	if e.gateway == nil {
		return nil, fmt.Errorf("%w: gateway not initialized", shared.ErrServiceUnavailable)
	}

	opts = opts.withDefaults()
	format, err := formatter.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs, err := e.collect(ctx, prog, opts.PageSize)
	if err != nil {
		return nil, err
	}
	e.sendProgress(prog, foundRoutinesUpdate(len(jobs)))

	result := &BackupResult{
		Format:    string(format),
		OutputDir: opts.OutputDir,
		Total:     len(jobs),
		Results:   make([]RoutineBackupResult, 0, len(jobs)),
	}

	var run *models.BackupRun
	if e.runs != nil {
		run = models.NewBackupRun(string(format), opts.OutputDir)
		if err := e.runs.Create(run); err != nil {
			return nil, fmt.Errorf("failed to record backup run: %w", err)
		}
		result.RunID = run.ID()
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	queue := make(chan backupJob, len(jobs))
	outcomes := make(chan backupOutcome, len(jobs))

	for _, j := range jobs {
		queue <- j
	}
	close(queue)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.backupWorker(ctx, &wg, limiter, queue, outcomes, opts.OutputDir, format)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for out := range outcomes {
		completed++
		if out.Success {
			result.Succeeded++
			e.recordSnapshot(run, out)
		} else {
			result.Failed++
			e.logger.Warn("routine backup failed", "id", out.RoutineID, "err", out.Error)
		}
		result.Results = append(result.Results, out.RoutineBackupResult)
		e.sendProgress(prog, routineDoneUpdate(completed, len(jobs), out.RoutineBackupResult))
	}

	slices.SortFunc(result.Results, func(a, b RoutineBackupResult) int {
		return cmp.Compare(a.RoutineID, b.RoutineID)
	})

	if run != nil {
		run.Finish(result.Succeeded, result.Failed)
		if err := e.runs.Finish(run); err != nil {
			return result, fmt.Errorf("backup completed but failed to record history: %w", err)
		}
		e.sendProgress(prog, recordHistoryUpdate(run.ID()))
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestName)
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("backup completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("backup completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// collect pages through the list until every routine id is known.
func (e *BackupEngine) collect(ctx context.Context, prog chan<- ProgressUpdate, size int) ([]backupJob, error) {
	var (
		jobs  []backupJob
		seen  = map[int]bool{}
		pages int
	)

	for page := 1; ; page++ {
		e.sendProgress(prog, fetchPageUpdate(page, pages))

		res, err := e.gateway.List(ctx, models.ListQuery{Page: page, Size: size})
		if err != nil {
			return nil, fmt.Errorf("failed to list routines: %w", err)
		}
		pages = (res.Total + size - 1) / size

		for _, r := range res.Items {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			jobs = append(jobs, backupJob{id: r.ID, name: r.Name})
		}

		if len(res.Items) == 0 || len(jobs) >= res.Total || page >= pages {
			return jobs, nil
		}
	}
}

// backupWorker drains the queue until it is empty or the context is cancelled.
func (e *BackupEngine) backupWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	queue <-chan backupJob,
	outcomes chan<- backupOutcome,
	dir string,
	format formatter.Format,
) {
	defer wg.Done()

	for job := range queue {
		if ctx.Err() != nil {
			return
		}
		outcomes <- e.backupOne(ctx, limiter, job, dir, format)
	}
}

func (e *BackupEngine) backupOne(
	ctx context.Context,
	limiter *rate.Limiter,
	job backupJob,
	dir string,
	format formatter.Format,
) backupOutcome {
	out := backupOutcome{RoutineBackupResult: RoutineBackupResult{RoutineID: job.id, Name: job.name}}
	fail := func(err error) backupOutcome {
		out.Error = err
		out.Message = err.Error()
		return out
	}

	if err := limiter.Wait(ctx); err != nil {
		return fail(err)
	}

	r, err := e.gateway.Get(ctx, job.id)
	if err != nil {
		return fail(fmt.Errorf("failed to fetch routine: %w", err))
	}

	path, err := formatter.WriteRoutine(dir, *r, format)
	if err != nil {
		return fail(fmt.Errorf("failed to write routine: %w", err))
	}

	e.logger.Debug("routine backed up", "id", r.ID, "path", path)
	out.Name = r.Name
	out.Path = path
	out.Success = true
	out.routine = r
	return out
}

func (e *BackupEngine) recordSnapshot(run *models.BackupRun, out backupOutcome) {
	if run == nil || e.snapshots == nil || out.routine == nil {
		return
	}
	s := models.NewRoutineSnapshot(run.ID(), *out.routine, out.Path)
	if err := e.snapshots.Create(s); err != nil {
		e.logger.Warn("failed to record snapshot", "id", out.RoutineID, "err", err)
	}
}
