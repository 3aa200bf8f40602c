package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/rutinas/internal/models"
	"github.com/desertthunder/rutinas/internal/session"
	"github.com/desertthunder/rutinas/internal/shared"
)

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case ListView:
		body = m.renderList()
	case DetailView:
		body = m.renderDetail()
	case FormView:
		body = m.renderForm()
	}

	if m.prompt != nil {
		body = join(body, m.renderPrompt())
	}
	return body
}

// join stacks non-empty blocks vertically.
func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, kept...)
}

// failure renders a load error, offering retry only when another attempt can help.
func failure(what string, err error) string {
	if shared.IsRetryable(err) {
		return styles.err.Render(fmt.Sprintf("Could not load %s: %v (press r to retry)", what, err))
	}
	return styles.err.Render(fmt.Sprintf("Could not load %s: %v", what, err))
}

func renderNotice(n *session.Notice) string {
	if n == nil {
		return ""
	}
	if n.IsError() {
		return styles.err.Render(n.Text)
	}
	return styles.ok.Render(n.Text)
}

func (m *Model) renderPrompt() string {
	return join(
		"",
		styles.warn.Render(m.prompt.prompt),
		m.help.ShortHelpView(m.keys.confirmHelp()),
	)
}

func (m *Model) renderList() string {
	var filter string
	if m.filtering {
		filter = m.filter.View()
	} else {
		q := m.list.Query()
		day := "all days"
		if q.Day != "" {
			day = string(q.Day)
		}
		name := q.Name
		if name == "" {
			name = "any name"
		}
		filter = styles.help.Render(fmt.Sprintf("Filter: %s • %s", name, day))
	}

	var banner string
	if err := m.list.Err(); err != nil {
		banner = failure("routines", err)
	} else if m.list.Loading() {
		banner = styles.help.Render("Loading...")
	}

	var status string
	if m.list.Exporting() {
		status = styles.help.Render("Exporting...")
	}

	pager := fmt.Sprintf("Page %d of %d • %d routines", m.list.Page(), m.list.TotalPages(), m.list.Total())

	return join(
		filter,
		banner,
		m.routines.View(),
		pager,
		renderStats(m.list.Stats(), m.list.StatsLoading()),
		renderNotice(m.list.Notice()),
		status,
		"",
		m.help.ShortHelpView(m.keys.listHelp()),
	)
}

func renderStats(s *models.Stats, loading bool) string {
	if s == nil {
		if loading {
			return styles.help.Render("Loading stats...")
		}
		return ""
	}

	lines := []string{
		styles.day.Render("Stats"),
		fmt.Sprintf("Routines: %d  Exercises: %d  Avg per routine: %.1f", s.TotalRoutines, s.TotalExercises, s.AvgExercisesPerRoutine),
	}

	days := make([]string, 0, len(models.Weekdays))
	for _, d := range models.Weekdays {
		days = append(days, fmt.Sprintf("%s %d", string(d)[:3], s.ExercisesPerDay[d]))
	}
	lines = append(lines, strings.Join(days, "  "))

	for i, top := range s.TopRoutinesByExercises {
		lines = append(lines, fmt.Sprintf("%d. %s (%d)", i+1, top.Name, top.ExerciseCount))
	}
	return join(lines...)
}

func (m *Model) renderDetail() string {
	d := m.detail
	help := m.help.ShortHelpView(m.keys.detailHelp())

	switch d.State() {
	case session.DetailLoading:
		return join(styles.help.Render("Loading routine..."), help)
	case session.DetailErrored:
		return join(failure(fmt.Sprintf("routine %d", d.ID()), d.Err()), help)
	}

	r := d.Routine()
	var desc string
	if r.Description != nil {
		desc = *r.Description
	}

	var status string
	if d.State() == session.DetailDeleting {
		status = styles.help.Render("Deleting...")
	}

	created := ""
	if !r.CreatedAt.IsZero() {
		created = styles.help.Render("Created " + r.CreatedAt.Format("2006-01-02"))
	}

	return join(
		styles.title.Render(r.Name),
		desc,
		created,
		renderCalendar(d.Calendar(), m.width),
		renderNotice(d.Notice()),
		status,
		"",
		help,
	)
}

// renderCalendar lays the seven days out as side-by-side columns.
func renderCalendar(days []models.CalendarDay, width int) string {
	colWidth := max(width/len(days)-4, 12)

	cols := make([]string, 0, len(days))
	for _, day := range days {
		lines := []string{styles.day.Render(string(day.Day))}
		if len(day.Exercises) == 0 {
			lines = append(lines, styles.help.Render("rest"))
		}
		for _, ex := range day.Exercises {
			load := fmt.Sprintf("%dx%d", ex.Series, ex.Repetitions)
			if ex.Weight != nil {
				load += " @ " + strconv.FormatFloat(*ex.Weight, 'f', -1, 64) + "kg"
			}
			lines = append(lines, ex.Name, styles.help.Render(load))
		}
		cols = append(cols, styles.column.Width(colWidth).Render(join(lines...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) renderForm() string {
	e := m.edit
	help := m.help.ShortHelpView(m.keys.formHelp())

	switch e.State() {
	case session.EditLoading:
		return join(styles.help.Render("Loading routine..."), help)
	case session.EditErrored:
		return join(failure("routine", e.Err()), help)
	}

	title := "New routine"
	if !e.IsNew() {
		title = fmt.Sprintf("Edit routine #%d", e.ID())
	}

	d := e.Draft()
	cs := cells(d)
	lines := []string{styles.title.Render(title)}
	row := -2
	var segments []string
	flush := func() {
		if len(segments) > 0 {
			lines = append(lines, strings.Join(segments, "  "))
			segments = nil
		}
	}

	for i, c := range cs {
		if c.row != row {
			flush()
			row = c.row
			if row >= 0 {
				lines = append(lines, styles.day.Render(fmt.Sprintf("Exercise %d", row+1)))
			}
		}
		if i == m.focus {
			segments = append(segments, styles.focus.Render(m.input.View()))
		} else {
			segments = append(segments, fmt.Sprintf("%s: %s", c.label(), cellValue(d, c)))
		}
		if c.row < 0 {
			flush()
		}
	}
	flush()

	var status string
	switch {
	case e.State() == session.EditSaving:
		status = styles.help.Render("Saving...")
	case m.formErr != nil:
		status = styles.err.Render(m.formErr.Error())
	case e.Err() != nil:
		status = styles.err.Render(e.Err().Error())
	}

	return join(append(lines, "", status, "", help)...)
}
