package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rutinas/internal/formatter"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/session"
	"github.com/desertthunder/rutinas/internal/shared"
	"github.com/urfave/cli/v3"
)

func parseDayFlag(s string) (models.Weekday, error) {
	if s == "" {
		return "", nil
	}
	day, err := models.ParseWeekday(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return day, nil
}

func idArg(cmd *cli.Command) (int, error) {
	id := cmd.IntArg("id")
	if id <= 0 {
		return 0, fmt.Errorf("%w: routine id", shared.ErrMissingArgument)
	}
	return id, nil
}

// noticeErr turns an error notice left by a controller into an error.
func noticeErr(n *session.Notice) error {
	if n != nil && n.IsError() {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, n.Text)
	}
	return nil
}

// List prints one page of routines.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	day, err := parseDayFlag(cmd.String("day"))
	if err != nil {
		return err
	}

	s := session.NewListSession(ctx, r.gateway, session.ListOptions{
		PageSize:  r.config.Session.PageSize,
		ExportDir: r.config.Export.Dir,
	})
	s.SetFilter(cmd.String("name"), day)
	session.Drive(s, s.SetPage(cmd.Int("page")))

	if err := s.Err(); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(models.RoutinePage{
			Items: s.Results(),
			Total: s.Total(),
			Page:  s.Page(),
			Size:  s.Query().Size,
		}, true)
	}

	r.writePlain("Page %d of %d (%d routines)\n\n", s.Page(), s.TotalPages(), s.Total())
	r.writeRoutines(s.Results())
	return nil
}

// Search prints every routine whose name matches.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	day, err := parseDayFlag(cmd.String("day"))
	if err != nil {
		return err
	}

	r.logger.Debug("searching routines", "name", name, "day", day)
	routines, err := r.gateway.Search(ctx, name, day)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(routines, true)
	}

	r.writePlain("%d routines match %q\n\n", len(routines), name)
	r.writeRoutines(routines)
	return nil
}

func (r *Runner) writeRoutines(routines []models.Routine) {
	if len(routines) == 0 {
		r.writePlain("No routines found.\n")
		return
	}
	for _, rt := range routines {
		r.writePlain("#%-5d %-30s %d exercises\n", rt.ID, rt.Name, len(rt.Exercises))
	}
}

// Show prints one routine as a calendar, as JSON, or rendered in a local format.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	s, load := session.NewDetailSession(ctx, r.gateway, nil, id)
	session.Drive(s, load)
	if err := s.Err(); err != nil {
		return err
	}
	routine := *s.Routine()

	if cmd.Bool("json") {
		return r.writeJSON(routine, true)
	}

	if f := cmd.String("format"); f != "" {
		format, err := formatter.ParseFormat(f)
		if err != nil {
			return err
		}

		if dir := cmd.String("output"); dir != "" {
			path, err := formatter.WriteRoutine(dir, routine, format)
			if err != nil {
				return err
			}
			r.writePlain("✓ Written to %s\n", path)
			return nil
		}

		data, err := formatter.Render(routine, format)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	printCalendar(r.output, routine, s.Calendar())
	return nil
}

// Create submits a new routine read from a TOML file.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	file, err := models.LoadRoutineTOML(cmd.String("file"))
	if err != nil {
		return err
	}

	s := session.NewEditSession(ctx, r.gateway)
	return r.submit(s, file)
}

// Edit replaces a routine with a TOML file, or with --dump writes the routine out for editing.
func (r *Runner) Edit(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}
	path := cmd.String("file")

	s, load := session.OpenEditSession(ctx, r.gateway, id)
	session.Drive(s, load)
	if s.State() != session.EditReady {
		return s.Err()
	}

	if cmd.Bool("dump") {
		if err := models.WriteRoutineTOML(path, draftRoutine(s.Draft())); err != nil {
			return err
		}
		r.writePlain("✓ Routine #%d written to %s\n", id, path)
		return nil
	}

	file, err := models.LoadRoutineTOML(path)
	if err != nil {
		return err
	}
	return r.submit(s, file)
}

// submit copies file into the session's draft and saves it.
func (r *Runner) submit(s *session.EditSession, file *models.RoutineTOML) error {
	if err := applyRoutineFile(s, file); err != nil {
		return err
	}

	save := s.Submit()
	if save == nil {
		return s.Err()
	}
	session.Drive(s, save)

	if s.State() != session.EditSaved {
		return s.Err()
	}

	r.logger.Info("routine saved", "id", s.SavedID())
	r.writePlain("✓ Saved routine #%d (%s)\n", s.SavedID(), s.Draft().Name)
	return nil
}

// applyRoutineFile overwrites the draft with file. Rows are matched by position so existing exercises keep their ids.
func applyRoutineFile(s *session.EditSession, file *models.RoutineTOML) error {
	if err := s.SetField(session.FieldRoutineName, file.Name); err != nil {
		return err
	}
	if err := s.SetField(session.FieldRoutineDescription, file.Description); err != nil {
		return err
	}

	for len(s.Draft().Exercises) > len(file.Exercises) {
		if err := s.RemoveExercise(len(s.Draft().Exercises) - 1); err != nil {
			return err
		}
	}
	for len(s.Draft().Exercises) < len(file.Exercises) {
		if s.AddExercise() < 0 {
			return shared.ErrBusy
		}
	}

	for i, ex := range file.Exercises {
		values := map[session.ExerciseField]string{
			session.FieldName:        ex.Name,
			session.FieldDay:         ex.Day,
			session.FieldSeries:      models.FieldText(ex.Series),
			session.FieldRepetitions: models.FieldText(ex.Repetitions),
			session.FieldWeight:      models.FieldText(ex.Weight),
			session.FieldNotes:       ex.Notes,
			session.FieldOrder:       models.FieldText(ex.Order),
		}
		for _, field := range session.ExerciseFields {
			if field == session.FieldDay && ex.Day == "" {
				continue
			}
			if err := s.SetExerciseField(i, field, values[field]); err != nil {
				return fmt.Errorf("exercise %d: %w", i+1, err)
			}
		}
	}

	return nil
}

// draftRoutine converts a loaded draft back into the shape written by --dump.
func draftRoutine(d session.Draft) models.Routine {
	wire := session.ToWire(d)
	rt := models.Routine{ID: d.ID, Name: wire.Name, Description: wire.Description}
	for _, ex := range wire.Exercises {
		rt.Exercises = append(rt.Exercises, models.Exercise{
			ID: ex.ID, Name: ex.Name, Day: ex.Day, Series: ex.Series, Repetitions: ex.Repetitions,
			Weight: ex.Weight, Notes: ex.Notes, Order: ex.Order,
		})
	}
	return rt
}

// Delete removes a routine after confirmation.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	s, load := session.NewDetailSession(ctx, r.gateway, r.confirmer(cmd.Bool("yes")), id)
	session.Drive(s, load)
	if err := s.Err(); err != nil {
		return err
	}

	session.Drive(s, s.Delete())

	if err := noticeErr(s.Notice()); err != nil {
		return err
	}
	if s.State() != session.DetailDeleted {
		return shared.ErrCancelled
	}

	r.logger.Info("routine deleted", "id", id)
	r.writePlain("✓ Deleted routine #%d\n", id)
	return nil
}

// Duplicate copies a routine on the server.
func (r *Runner) Duplicate(ctx context.Context, cmd *cli.Command) error {
	id, err := idArg(cmd)
	if err != nil {
		return err
	}

	s := session.NewListSession(ctx, r.gateway, session.ListOptions{PageSize: r.config.Session.PageSize})
	session.Drive(s, s.Duplicate(id))

	if err := noticeErr(s.Notice()); err != nil {
		return err
	}

	results := s.Results()
	if len(results) == 0 {
		return fmt.Errorf("%w: duplicate returned no routine", shared.ErrAPIRequest)
	}
	r.writePlain("✓ Duplicated #%d as #%d (%s)\n", id, results[0].ID, results[0].Name)
	return nil
}

// Export downloads the server-side export into the export directory.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := models.ParseExportFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = r.config.Export.Dir
	}

	s := session.NewListSession(ctx, r.gateway, session.ListOptions{ExportDir: dir})

	var path string
	for _, msg := range session.Run(s.ExportAs(format)) {
		if res, ok := msg.(session.ExportResultMsg); ok {
			path = res.Path()
		}
		s.Update(msg)
	}

	if err := noticeErr(s.Notice()); err != nil {
		return err
	}

	r.writePlain("✓ Exported to %s\n", path)

	if cmd.Bool("open") {
		return shared.OpenPath(path)
	}
	return nil
}

// Stats prints the server's aggregate statistics.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	stats, err := r.gateway.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Routine statistics")
	r.writePlain("Routines:              %d\n", stats.TotalRoutines)
	r.writePlain("Exercises:             %d\n", stats.TotalExercises)
	r.writePlain("Exercises per routine: %.1f\n", stats.AvgExercisesPerRoutine)

	r.writePlainln("Exercises per day:")
	for _, d := range models.Weekdays {
		r.writePlain("  %-10s %d\n", d, stats.ExercisesPerDay[d])
	}

	if len(stats.TopRoutinesByExercises) > 0 {
		r.writePlainln("Largest routines:")
		for i, top := range stats.TopRoutinesByExercises {
			r.writePlain("  %d. %s (%d exercises)\n", i+1, top.Name, top.ExerciseCount)
		}
	}
	return nil
}

