// Package model provides value objects for API and CLI parameter validation.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stsysd/axisgraph/graph"
)

// ProjectName represents a project name value object.
type ProjectName struct {
	value string
}

// NewProjectName creates a new project name value object.
func NewProjectName(name string) (*ProjectName, error) {
	if name == "" {
		return nil, NewValidationError("project name is required")
	}
	if !projectNamePattern.MatchString(name) {
		return nil, NewValidationError("invalid project name")
	}
	return &ProjectName{value: name}, nil
}

// String returns the project name string.
func (p *ProjectName) String() string {
	return p.value
}

// DateRange represents a date range value object.
type DateRange struct {
	from time.Time
	to   time.Time
}

// NewDateRange creates a new date range value object.
// Date-only values are interpreted in the local time zone.
func NewDateRange(fromStr, toStr string) (*DateRange, error) {
	return newDateRange(fromStr, toStr, time.Now())
}

func newDateRange(fromStr, toStr string, now time.Time) (*DateRange, error) {
	defaults := graph.DefaultDateRange(now)
	fromTime, toTime := defaults.From, defaults.To
	var err error

	// Process from parameter
	if fromStr != "" {
		fromTime, err = ParseDateTime(fromStr)
		if err != nil {
			return nil, NewValidationError("invalid from parameter. Use ISO8601 format (YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ)")
		}
	}

	// Process to parameter
	if toStr != "" {
		toTime, err = ParseDateTime(toStr)
		if err != nil {
			return nil, NewValidationError("invalid to parameter. Use ISO8601 format (YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ)")
		}
	}

	return &DateRange{from: normalizeToBeginOfDay(fromTime), to: normalizeToEndOfDay(toTime)}, nil
}

// From returns the start date.
func (d *DateRange) From() time.Time {
	return d.from
}

// To returns the end date.
func (d *DateRange) To() time.Time {
	return d.to
}

// Graph returns the range as a graph.DateRange.
func (d *DateRange) Graph() graph.DateRange {
	return graph.DateRange{From: d.from, To: d.to}
}

// normalizeToBeginOfDay normalizes time to beginning of day (00:00:00).
func normalizeToBeginOfDay(t time.Time) time.Time {
	return graph.StartOfDay(t)
}

// normalizeToEndOfDay normalizes time to end of day (23:59:59.999999999).
func normalizeToEndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999999, t.Location())
}

// ParseDateTime parses a date string in RFC3339 or YYYY-MM-DD format.
// Date-only values are interpreted in the local time zone.
func ParseDateTime(dateStr string) (time.Time, error) {
	// Try RFC3339 format first (with time)
	if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
		return t, nil
	}

	// Try date-only format (YYYY-MM-DD)
	if t, err := time.ParseInLocation(time.DateOnly, dateStr, time.Local); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q", dateStr)
}

// ParseAxisMode parses an axis mode parameter. Empty means horizontal.
func ParseAxisMode(s string) (graph.AxisMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizontal", "h":
		return graph.Horizontal, nil
	case "vertical", "v":
		return graph.Vertical, nil
	default:
		return 0, NewValidationError("invalid axis parameter: must be horizontal or vertical")
	}
}

// LevelSpacing represents the unit between contribution levels.
type LevelSpacing struct {
	value int
}

// NewLevelSpacing creates a level spacing value object. Empty means the default.
func NewLevelSpacing(s string) (*LevelSpacing, error) {
	if s == "" {
		return &LevelSpacing{value: graph.DefaultLevelSpacing}, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return nil, NewValidationError("invalid spacing parameter: must be a positive integer")
	}
	return &LevelSpacing{value: v}, nil
}

// Int returns the integer value.
func (l *LevelSpacing) Int() int {
	return l.value
}

// Timestamp represents a timestamp value object.
type Timestamp struct {
	value time.Time
}

// NewTimestamp creates a new timestamp value object.
func NewTimestamp(timestampStr string) (*Timestamp, error) {
	if timestampStr == "" {
		// Use current time for empty string
		return &Timestamp{value: time.Now()}, nil
	}

	timestamp, err := ParseDateTime(timestampStr)
	if err != nil {
		return nil, NewValidationError("invalid datetime format. Use ISO8601 format (YYYY-MM-DDThh:mm:ssZ or YYYY-MM-DD)")
	}

	return &Timestamp{value: timestamp}, nil
}

// Time returns the time value.
func (t *Timestamp) Time() time.Time {
	return t.value
}

// Pagination represents pagination parameters value object.
type Pagination struct {
	limit  int
	offset int
}

// NewPagination creates a new pagination value object.
func NewPagination(limitStr, offsetStr string) (*Pagination, error) {
	limit := 100 // Default value
	offset := 0  // Default value

	// Process limit parameter
	if limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, NewValidationError("invalid limit parameter: must be a positive integer")
		}
		if parsedLimit <= 0 {
			return nil, NewValidationError("limit must be greater than 0")
		}
		if parsedLimit > 1000 { // Set upper limit
			parsedLimit = 1000
		}
		limit = parsedLimit
	}

	// Process offset parameter
	if offsetStr != "" {
		parsedOffset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, NewValidationError("invalid offset parameter: must be a non-negative integer")
		}
		if parsedOffset < 0 {
			return nil, NewValidationError("offset must be non-negative")
		}
		offset = parsedOffset
	}

	return &Pagination{limit: limit, offset: offset}, nil
}

// Limit returns the limit value.
func (p *Pagination) Limit() int {
	return p.limit
}

// Offset returns the offset value.
func (p *Pagination) Offset() int {
	return p.offset
}
