package graph

import "time"

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	// Sunday is 0 in time.Weekday, shift so Monday is 0.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// DatesInWeek returns Monday..Sunday of the week containing t.
func DatesInWeek(t time.Time) [7]time.Time {
	var dates [7]time.Time
	monday := StartOfWeek(t)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// WeekStarts returns every Monday from the week containing from up to to,
// evaluated in loc. It returns nil when to is before from.
func WeekStarts(from, to time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	if to.Before(from) {
		return nil
	}
	var starts []time.Time
	for ws := StartOfWeek(from.In(loc)); !ws.After(to); ws = ws.AddDate(0, 0, 7) {
		starts = append(starts, ws)
	}
	return starts
}

// BuildGrid turns a date range into week columns with zero counts.
// Vertical grids are ordered most recent week first.
func BuildGrid(from, to time.Time, axis AxisMode, loc *time.Location) Grid {
	starts := WeekStarts(from, to, loc)
	if len(starts) == 0 {
		return Grid{}
	}

	grid := make(Grid, 0, len(starts))
	for _, ws := range starts {
		var col WeekColumn
		for i, d := range DatesInWeek(ws) {
			col[i] = DayCell{Date: d}
		}
		grid = append(grid, col)
	}

	if axis == Vertical {
		return grid.Reversed()
	}
	return grid
}
