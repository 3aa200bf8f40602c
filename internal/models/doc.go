// Package models defines domain entities for the rutinas client.
//
// The package contains three categories of types:
//
// 1. Domain types mirroring the routines REST API
//   - [Routine] : A named collection of exercises scheduled on weekdays
//   - [Exercise] : One scheduled movement with series, repetitions and optional weight
//   - [Stats] : Server-derived aggregate statistics
//   - [ListQuery] and [RoutinePage] : Paginated, filtered listing
//
// 2. Wire payloads sent on create and update: [RoutinePayload] and [ExercisePayload].
// Optional values are pointers so blanks travel as explicit JSON nulls.
//
// 3. Persistent entities for the local backup history: [BackupRun] and [RoutineSnapshot].
// Both implement [Model] and are stored through a [Repository].
//
// [WeeklyCalendar] derives the canonical calendar view of a routine: exercises grouped by weekday and sorted by order.
package models
