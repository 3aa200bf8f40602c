package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rutinas/internal/models"
)

var _ list.DefaultItem = routineItem{}

// routineItem wraps [models.Routine] to implement [list.DefaultItem].
type routineItem struct {
	routine models.Routine
	pending bool
}

func (i routineItem) FilterValue() string { return i.routine.Name }
func (i routineItem) Title() string {
	if i.pending {
		return i.routine.Name + " (deleting...)"
	}
	return i.routine.Name
}

func (i routineItem) Description() string {
	var days []string
	for _, d := range models.WeeklyCalendar(i.routine.Exercises) {
		if len(d.Exercises) > 0 {
			days = append(days, string(d.Day)[:3])
		}
	}

	desc := fmt.Sprintf("%d exercises", len(i.routine.Exercises))
	if len(days) > 0 {
		desc = fmt.Sprintf("%s • %s", desc, strings.Join(days, " "))
	}
	if i.routine.Description != nil && *i.routine.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, *i.routine.Description)
	}
	return desc
}

// nextDay cycles the day filter: none, Lunes ... Domingo, none.
func nextDay(d models.Weekday) models.Weekday {
	i := d.Index()
	if i == len(models.Weekdays)-1 {
		return ""
	}
	return models.Weekdays[i+1]
}
