package tasks

import (
	"fmt"
)

// ProgressUpdate represents a progress event during a long-running operation.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase identifies a stage of a backup.
type Phase int

const (
	FetchList Phase = iota
	BackupRoutine
	RecordHistory
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchList:
		return "fetch_list"
	case BackupRoutine:
		return "backup_routine"
	case RecordHistory:
		return "record_history"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchPageUpdate(page, pages int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchList,
		Step:    page,
		Total:   pages,
		Message: fmt.Sprintf("Fetching routine list (page %d)...", page),
	}
}

func foundRoutinesUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchList,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d routines", total),
		Data:    total,
	}
}

func routineDoneUpdate(step, total int, res RoutineBackupResult) ProgressUpdate {
	if !res.Success {
		return ProgressUpdate{
			Phase:   BackupRoutine,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✗ %d: %v", step, total, res.RoutineID, res.Error),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   BackupRoutine,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Name),
		Data:    res,
	}
}

func recordHistoryUpdate(runID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordHistory,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded backup run %s", runID),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Manifest written to %s", path),
	}
}
