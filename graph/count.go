package graph

import "time"

// dayKey identifies a calendar day independent of time of day.
type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time, loc *time.Location) dayKey {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return dayKey{year: y, month: m, day: d}
}

// CountForDay returns how many source dates fall on the calendar day of day in loc.
func CountForDay(sourceDates []time.Time, day time.Time, loc *time.Location) int {
	want := keyOf(day, loc)
	count := 0
	for _, d := range sourceDates {
		if keyOf(d, loc) == want {
			count++
		}
	}
	return count
}

// Counter holds source dates bucketed by calendar day.
type Counter struct {
	loc    *time.Location
	counts map[dayKey]int
}

// NewCounter buckets sourceDates by calendar day in loc.
func NewCounter(sourceDates []time.Time, loc *time.Location) *Counter {
	if loc == nil {
		loc = time.Local
	}
	c := &Counter{
		loc:    loc,
		counts: make(map[dayKey]int, len(sourceDates)),
	}
	for _, d := range sourceDates {
		c.counts[keyOf(d, loc)]++
	}
	return c
}

// Count returns the number of source dates on the calendar day of day.
func (c *Counter) Count(day time.Time) int {
	return c.counts[keyOf(day, c.loc)]
}

// Days returns the number of distinct days with at least one date.
func (c *Counter) Days() int {
	return len(c.counts)
}

// Fill returns a copy of grid with every cell's count taken from c.
func Fill(grid Grid, c *Counter) Grid {
	out := make(Grid, len(grid))
	for i, col := range grid {
		for j, cell := range col {
			col[j] = DayCell{Date: cell.Date, Count: c.Count(cell.Date)}
		}
		out[i] = col
	}
	return out
}

// Map builds the grid for cfg and counts sourceDates into it.
func Map(cfg Config, sourceDates []time.Time) Grid {
	loc := cfg.location()
	grid := BuildGrid(cfg.Range.From, cfg.Range.To, cfg.Axis, loc)
	return Fill(grid, NewCounter(sourceDates, loc))
}
