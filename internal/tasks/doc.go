// Package tasks runs long operations against the routines backend with progress reporting.
//
// # Backup
//
// [BackupEngine.Backup] snapshots every routine to disk:
//
//  1. Pages through the routine list to collect ids
//  2. Fetches each routine with a worker pool throttled by a shared rate limiter
//  3. Renders each routine through the formatter package (json, csv, md or txt)
//  4. Records the run and one snapshot per written file in the history store
//  5. Writes a backup_manifest.json summarizing the run
//
// One failing routine does not abort the run; it is reported in [BackupResult.Results].
//
// # Progress Reporting
//
// Operations accept an optional send-only channel of [ProgressUpdate].
// Updates use select with default so a slow reader never blocks the engine.
//
// # History
//
// The [RunRecorder] and [SnapshotRecorder] interfaces are satisfied by the SQLite repositories.
// Both are optional: a nil recorder skips persistence.
package tasks
