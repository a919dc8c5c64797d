package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// cellJSON is the wire form of a DayCell. Level is informational and
// ignored when decoding.
type cellJSON struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level *Level `json:"level,omitempty"`
}

const jsonDateLayout = "2006-01-02T15:04:05Z07:00"

// MarshalGrid encodes grid as an array of 7-cell arrays, annotating each cell
// with its level under spacing.
func MarshalGrid(grid Grid, spacing int) ([]byte, error) {
	weeks := make([][7]cellJSON, len(grid))
	for i, col := range grid {
		for j, cell := range col {
			level := LevelFor(cell.Count, spacing)
			weeks[i][j] = cellJSON{
				Date:  cell.Date.Format(jsonDateLayout),
				Count: cell.Count,
				Level: &level,
			}
		}
	}
	return json.Marshal(weeks)
}

// UnmarshalGrid decodes the format written by MarshalGrid. Every week must
// hold exactly 7 cells and counts must not be negative.
func UnmarshalGrid(data []byte) (Grid, error) {
	var weeks [][]cellJSON
	if err := json.Unmarshal(data, &weeks); err != nil {
		return nil, fmt.Errorf("decode grid: %w", err)
	}

	grid := make(Grid, len(weeks))
	for i, week := range weeks {
		if len(week) != len(WeekColumn{}) {
			return nil, fmt.Errorf("decode grid: week %d has %d cells, want 7", i, len(week))
		}
		for j, c := range week {
			date, err := parseJSONDate(c.Date)
			if err != nil {
				return nil, fmt.Errorf("decode grid: week %d cell %d: %w", i, j, err)
			}
			if c.Count < 0 {
				return nil, fmt.Errorf("decode grid: week %d cell %d: negative count %d", i, j, c.Count)
			}
			grid[i][j] = DayCell{Date: date, Count: c.Count}
		}
	}
	return grid, nil
}

// parseJSONDate accepts RFC3339 or a bare YYYY-MM-DD in the local zone.
func parseJSONDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, time.Local)
}
