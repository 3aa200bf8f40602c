package models

import "sort"

// CalendarDay is one column of the weekly calendar.
type CalendarDay struct {
	Day       Weekday
	Exercises []Exercise
}

// WeeklyCalendar groups exercises by weekday in calendar order, each day sorted by Order ascending.
//
// Ties keep their relative slice position. Exercises without a valid day are left out. All seven days are always present.
func WeeklyCalendar(exercises []Exercise) []CalendarDay {
	days := make([]CalendarDay, len(Weekdays))
	for i, d := range Weekdays {
		days[i] = CalendarDay{Day: d, Exercises: []Exercise{}}
	}

	for _, ex := range exercises {
		if idx := ex.Day.Index(); idx >= 0 {
			days[idx].Exercises = append(days[idx].Exercises, ex)
		}
	}

	for i := range days {
		items := days[i].Exercises
		sort.SliceStable(items, func(a, b int) bool {
			return items[a].Order < items[b].Order
		})
	}

	return days
}
