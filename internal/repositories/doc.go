// Package repositories implements SQLite persistence for the local backup history.
//
// The routines themselves live on the remote backend; this package only records what the backup task wrote to disk.
//
// Key Implementations:
//   - [BackupRunRepository] : one row per `rutinas backup` invocation with its counts and completion time
//   - [SnapshotRepository] : one row per routine file written during a run, queryable by run or by routine
//
// Both implement [models.Repository]. Ids are v4 UUIDs from [shared.GenerateID].
// Lookups of missing ids wrap [shared.ErrNotFound]. Deleting a run cascades to its snapshots.
package repositories
