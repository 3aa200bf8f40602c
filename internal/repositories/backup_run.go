package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
)

var _ models.Repository[*models.BackupRun] = (*BackupRunRepository)(nil)

// BackupRunRepository implements models.Repository[*models.BackupRun].
type BackupRunRepository struct {
	db *sql.DB
}

// NewBackupRunRepository creates a new BackupRunRepository with the given database connection
func NewBackupRunRepository(db *sql.DB) *BackupRunRepository {
	return &BackupRunRepository{db: db}
}

// Create inserts a new run with a generated ID
func (r *BackupRunRepository) Create(run *models.BackupRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `
		INSERT INTO backup_runs (id, format, output_dir, total, succeeded, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		run.Format,
		run.OutputDir,
		run.Total,
		run.Succeeded,
		run.Failed,
		run.CreatedAt(),
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert backup run: %w", err)
	}

	run.SetID(id)
	return nil
}

// Get retrieves a run by ID
func (r *BackupRunRepository) Get(id string) (*models.BackupRun, error) {
	query := `
		SELECT id, format, output_dir, total, succeeded, failed, started_at, finished_at
		FROM backup_runs
		WHERE id = ?
	`

	run, err := r.scan(r.db.QueryRow(query, id))
	if err != nil {
		return nil, wrapScanErr(err, "backup run", id)
	}
	return run, nil
}

// Finish persists the counts and completion time set by [models.BackupRun.Finish]
func (r *BackupRunRepository) Finish(run *models.BackupRun) error {
	query := `
		UPDATE backup_runs
		SET total = ?, succeeded = ?, failed = ?, finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, run.Total, run.Succeeded, run.Failed, run.FinishedAt, run.ID())
	if err != nil {
		return fmt.Errorf("failed to update backup run: %w", err)
	}

	return expectAffected(result, "backup run", run.ID())
}

// Delete removes a run and, through the foreign key, its snapshots
func (r *BackupRunRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM backup_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete backup run: %w", err)
	}

	return expectAffected(result, "backup run", id)
}

// List retrieves the most recent runs, newest first. A non-positive limit returns all runs.
func (r *BackupRunRepository) List(limit int) ([]*models.BackupRun, error) {
	query := `
		SELECT id, format, output_dir, total, succeeded, failed, started_at, finished_at
		FROM backup_runs
		ORDER BY started_at DESC, rowid DESC
	` + limitClause(limit)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query backup runs: %w", err)
	}
	defer rows.Close()

	runs := []*models.BackupRun{}
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backup run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

func (r *BackupRunRepository) scan(row rowScanner) (*models.BackupRun, error) {
	var (
		id         string
		format     string
		outputDir  string
		total      int
		succeeded  int
		failed     int
		startedAt  time.Time
		finishedAt sql.NullTime
	)

	if err := row.Scan(&id, &format, &outputDir, &total, &succeeded, &failed, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	run := models.RestoreBackupRun(id, startedAt)
	run.Format = format
	run.OutputDir = outputDir
	run.Total = total
	run.Succeeded = succeeded
	run.Failed = failed
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}

	return run, nil
}
