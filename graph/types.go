// Package graph builds the week-bucketed date grid behind a contribution graph.
package graph

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidLevelSpacing is returned when a level spacing is not positive.
var ErrInvalidLevelSpacing = errors.New("level spacing must be a positive integer")

// DefaultLevelSpacing is the unit between two contribution levels.
const DefaultLevelSpacing = 3

// AxisMode defines the orientation of the graph.
type AxisMode int

const (
	// Horizontal lays weeks out as columns.
	Horizontal AxisMode = iota
	// Vertical lays weeks out as rows, most recent week first.
	Vertical
)

func (a AxisMode) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("AxisMode(%d)", int(a))
	}
}

// DateRange holds the inclusive bounds of the visible grid.
type DateRange struct {
	From time.Time
	To   time.Time
}

// DefaultDateRange returns the range from one year before now through now.
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{
		From: StartOfDay(now).AddDate(-1, 0, 0),
		To:   now,
	}
}

// DayCell is one calendar day and the number of activities on it.
type DayCell struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Equal reports whether both cells hold the same day and the same count.
func (d DayCell) Equal(other DayCell) bool {
	return d.Date.Equal(other.Date) && d.Count == other.Count
}

// WeekColumn holds the seven days of a week, Monday first.
type WeekColumn [7]DayCell

// WeekStart returns the Monday of the column.
func (w WeekColumn) WeekStart() time.Time {
	return w[0].Date
}

// Grid is an ordered sequence of week columns.
type Grid []WeekColumn

// Equal reports whether both grids hold the same columns in the same order.
func (g Grid) Equal(other Grid) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		for j := range g[i] {
			if !g[i][j].Equal(other[i][j]) {
				return false
			}
		}
	}
	return true
}

// Reversed returns a copy of the grid with the column order reversed.
func (g Grid) Reversed() Grid {
	out := make(Grid, len(g))
	for i, col := range g {
		out[len(g)-1-i] = col
	}
	return out
}

// Cells returns the number of day cells in the grid.
func (g Grid) Cells() int {
	return len(g) * 7
}

// Config defines how a grid is derived.
type Config struct {
	Range        DateRange
	Axis         AxisMode
	LevelSpacing int
	// Location is the calendar used to compare days. nil means time.Local.
	Location *time.Location
}

// DefaultConfig returns a horizontal config covering the last year.
func DefaultConfig(now time.Time) Config {
	return Config{
		Range:        DefaultDateRange(now),
		Axis:         Horizontal,
		LevelSpacing: DefaultLevelSpacing,
		Location:     now.Location(),
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	if c.LevelSpacing <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidLevelSpacing, c.LevelSpacing)
	}
	if c.Axis != Horizontal && c.Axis != Vertical {
		return fmt.Errorf("unknown axis mode: %s", c.Axis)
	}
	return nil
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Span returns the first and last instant of the whole weeks drawn for the
// range. ok is false when the range contains no weeks.
func (c Config) Span() (start, end time.Time, ok bool) {
	starts := WeekStarts(c.Range.From, c.Range.To, c.location())
	if len(starts) == 0 {
		return time.Time{}, time.Time{}, false
	}
	last := starts[len(starts)-1]
	return starts[0], last.AddDate(0, 0, 7).Add(-time.Nanosecond), true
}
