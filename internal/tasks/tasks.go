package tasks

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/services"
)

// RunRecorder persists backup runs.
type RunRecorder interface {
	Create(run *models.BackupRun) error
	Finish(run *models.BackupRun) error
}

// SnapshotRecorder persists one row per routine written during a run.
type SnapshotRecorder interface {
	Create(s *models.RoutineSnapshot) error
}

// RoutineBackupResult is the outcome of backing up a single routine.
type RoutineBackupResult struct {
	RoutineID int    `json:"routine_id"`
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Success   bool   `json:"success"`
	Error     error  `json:"-"`
	Message   string `json:"error,omitempty"`
}

// BackupResult summarizes a backup run.
type BackupResult struct {
	RunID        string                `json:"run_id,omitempty"`
	Format       string                `json:"format"`
	OutputDir    string                `json:"output_dir"`
	Total        int                   `json:"total"`
	Succeeded    int                   `json:"succeeded"`
	Failed       int                   `json:"failed"`
	Results      []RoutineBackupResult `json:"results"`
	ManifestPath string                `json:"-"`
}

// BackupEngine copies every routine from the backend to local files.
type BackupEngine struct {
	gateway   services.RoutineGateway
	runs      RunRecorder
	snapshots SnapshotRecorder
	logger    *log.Logger
}

// NewBackupEngine creates an engine. runs and snapshots may be nil to skip history.
func NewBackupEngine(gw services.RoutineGateway, runs RunRecorder, snapshots SnapshotRecorder, logger *log.Logger) *BackupEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &BackupEngine{gateway: gw, runs: runs, snapshots: snapshots, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *BackupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
