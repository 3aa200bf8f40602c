package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/shared"
)

var _ models.Repository[*models.RoutineSnapshot] = (*SnapshotRepository)(nil)

const snapshotColumns = `id, run_id, routine_id, name, exercise_count, path, created_at`

// SnapshotRepository implements models.Repository[*models.RoutineSnapshot].
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a new snapshot with a generated ID. The parent run must exist.
func (r *SnapshotRepository) Create(s *models.RoutineSnapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO routine_snapshots (` + snapshotColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.Exec(query, id, s.RunID, s.RoutineID, s.Name, s.ExerciseCount, s.Path, s.CreatedAt()); err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	s.SetID(id)
	return nil
}

// Get retrieves a snapshot by ID
func (r *SnapshotRepository) Get(id string) (*models.RoutineSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM routine_snapshots WHERE id = ?`

	s, err := r.scan(r.db.QueryRow(query, id))
	if err != nil {
		return nil, wrapScanErr(err, "snapshot", id)
	}
	return s, nil
}

// Delete removes a single snapshot
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM routine_snapshots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return expectAffected(result, "snapshot", id)
}

// List retrieves the most recent snapshots across all runs, newest first
func (r *SnapshotRepository) List(limit int) ([]*models.RoutineSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM routine_snapshots ORDER BY created_at DESC, rowid DESC` + limitClause(limit)
	return r.query(query)
}

// ListByRun retrieves every snapshot written during runID, in routine id order
func (r *SnapshotRepository) ListByRun(runID string) ([]*models.RoutineSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM routine_snapshots WHERE run_id = ? ORDER BY routine_id ASC`
	return r.query(query, runID)
}

// ListByRoutine retrieves the backup history of one routine, newest first
func (r *SnapshotRepository) ListByRoutine(routineID int) ([]*models.RoutineSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM routine_snapshots WHERE routine_id = ? ORDER BY created_at DESC, rowid DESC`
	return r.query(query, routineID)
}

func (r *SnapshotRepository) query(query string, args ...any) ([]*models.RoutineSnapshot, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*models.RoutineSnapshot{}
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snapshots, nil
}

func (r *SnapshotRepository) scan(row rowScanner) (*models.RoutineSnapshot, error) {
	var (
		id            string
		runID         string
		routineID     int
		name          string
		exerciseCount int
		path          string
		createdAt     time.Time
	)

	if err := row.Scan(&id, &runID, &routineID, &name, &exerciseCount, &path, &createdAt); err != nil {
		return nil, err
	}

	s := models.RestoreRoutineSnapshot(id, createdAt)
	s.RunID = runID
	s.RoutineID = routineID
	s.Name = name
	s.ExerciseCount = exerciseCount
	s.Path = path

	return s, nil
}
