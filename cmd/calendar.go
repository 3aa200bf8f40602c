package main

import (
	"fmt"
	"io"

	"github.com/desertthunder/rutinas/internal/models"
	"github.com/fatih/color"
)

var (
	calendarTitle = color.New(color.FgCyan, color.Bold).SprintFunc()
	calendarDay   = color.New(color.FgYellow, color.Bold).SprintFunc()
	calendarRest  = color.New(color.FgHiBlack).SprintFunc()
	calendarNote  = color.New(color.Italic).SprintFunc()
)

// printCalendar writes the routine header and one block per weekday.
// Days without exercises are printed as rest days.
func printCalendar(w io.Writer, r models.Routine, days []models.CalendarDay) {
	fmt.Fprintf(w, "%s  #%d\n", calendarTitle(r.Name), r.ID)
	if desc := r.DescriptionOr(""); desc != "" {
		fmt.Fprintln(w, desc)
	}
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created %s\n", r.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintln(w)

	for _, d := range days {
		fmt.Fprintln(w, calendarDay(string(d.Day)))
		if len(d.Exercises) == 0 {
			fmt.Fprintf(w, "  %s\n", calendarRest("rest"))
			continue
		}

		for _, ex := range d.Exercises {
			line := fmt.Sprintf("  %-24s %dx%d", ex.Name, ex.Series, ex.Repetitions)
			if ex.Weight != nil {
				line += fmt.Sprintf(" @ %gkg", *ex.Weight)
			}
			fmt.Fprintln(w, line)
			if ex.Notes != nil && *ex.Notes != "" {
				fmt.Fprintf(w, "    %s\n", calendarNote(*ex.Notes))
			}
		}
	}
}
