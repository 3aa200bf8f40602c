package models

import (
	"fmt"
	"time"
)

var (
	_ Model = (*BackupRun)(nil)
	_ Model = (*RoutineSnapshot)(nil)
)

// BackupRun records one invocation of the backup task.
type BackupRun struct {
	id         string
	Format     string
	OutputDir  string
	Total      int
	Succeeded  int
	Failed     int
	startedAt  time.Time
	FinishedAt *time.Time
}

// NewBackupRun creates an unsaved run started now.
func NewBackupRun(format, outputDir string) *BackupRun {
	return &BackupRun{Format: format, OutputDir: outputDir, startedAt: time.Now().UTC()}
}

// RestoreBackupRun rebuilds a run from stored columns.
func RestoreBackupRun(id string, startedAt time.Time) *BackupRun {
	return &BackupRun{id: id, startedAt: startedAt}
}

func (b *BackupRun) ID() string           { return b.id }
func (b *BackupRun) SetID(id string)      { b.id = id }
func (b *BackupRun) CreatedAt() time.Time { return b.startedAt }

// Finish stamps the run with its counts and completion time.
func (b *BackupRun) Finish(succeeded, failed int) {
	now := time.Now().UTC()
	b.Succeeded = succeeded
	b.Failed = failed
	b.Total = succeeded + failed
	b.FinishedAt = &now
}

func (b *BackupRun) Validate() error {
	if b.Format == "" {
		return fmt.Errorf("backup run format is required")
	}
	if b.OutputDir == "" {
		return fmt.Errorf("backup run output directory is required")
	}
	return nil
}

// RoutineSnapshot records one routine written to disk during a backup run.
type RoutineSnapshot struct {
	id            string
	RunID         string
	RoutineID     int
	Name          string
	ExerciseCount int
	Path          string
	createdAt     time.Time
}

// NewRoutineSnapshot creates an unsaved snapshot of r written to path.
func NewRoutineSnapshot(runID string, r Routine, path string) *RoutineSnapshot {
	return &RoutineSnapshot{
		RunID:         runID,
		RoutineID:     r.ID,
		Name:          r.Name,
		ExerciseCount: len(r.Exercises),
		Path:          path,
		createdAt:     time.Now().UTC(),
	}
}

// RestoreRoutineSnapshot rebuilds a snapshot from stored columns.
func RestoreRoutineSnapshot(id string, createdAt time.Time) *RoutineSnapshot {
	return &RoutineSnapshot{id: id, createdAt: createdAt}
}

func (s *RoutineSnapshot) ID() string           { return s.id }
func (s *RoutineSnapshot) SetID(id string)      { s.id = id }
func (s *RoutineSnapshot) CreatedAt() time.Time { return s.createdAt }

func (s *RoutineSnapshot) Validate() error {
	if s.RunID == "" {
		return fmt.Errorf("snapshot run id is required")
	}
	if s.RoutineID <= 0 {
		return fmt.Errorf("snapshot routine id must be positive")
	}
	if s.Path == "" {
		return fmt.Errorf("snapshot path is required")
	}
	return nil
}
