// Generates a GitHub-like contribution graph as an SVG string.
package heatmap

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/stsysd/axisgraph/graph"
)

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// weekday initials and the row (Monday = 0) they label
var weekdayLabels = []struct {
	row   int
	label string
}{
	{0, "M"},
	{2, "W"},
	{4, "F"},
}

// MonthTitle returns the short month name of the column, or "" when the
// column starts in the same month as the previous one.
func MonthTitle(grid graph.Grid, column int) string {
	if column < 0 || column >= len(grid) {
		return ""
	}
	current := grid[column].WeekStart().Month()
	if column > 0 && grid[column-1].WeekStart().Month() == current {
		return ""
	}
	return months[current-1]
}

// layout holds the computed geometry of one rendering.
type layout struct {
	opts        *Options
	step        int
	titleHeight int
	originX     int // x of the first cell
	originY     int // y of the first cell
	gridWidth   int
	gridHeight  int
}

func newLayout(grid graph.Grid, opts *Options) *layout {
	l := &layout{opts: opts, step: opts.CellSize + opts.Spacing}
	if opts.ProjectName != "" {
		l.titleHeight = opts.FontSize + 8 // title text + padding
	}

	weeks := len(grid)
	if opts.Axis == graph.Vertical {
		// month titles on the left, weekday initials on top
		l.originX = textWidth("Mmm", opts.FontSize) + opts.Spacing
		l.originY = l.titleHeight + l.step
		l.gridWidth = l.originX + 7*l.step - opts.Spacing
		l.gridHeight = l.originY + weeks*l.step - opts.Spacing
	} else {
		// weekday initials on the left, month titles on top
		l.originX = textWidth("M", opts.FontSize) + opts.Spacing
		l.originY = l.titleHeight + l.step
		l.gridWidth = l.originX + weeks*l.step - opts.Spacing
		l.gridHeight = l.originY + 7*l.step - opts.Spacing
	}
	return l
}

// cellBox returns the box of the cell at column (week) and row (weekday).
func (l *layout) cellBox(column, row int) Box {
	if l.opts.Axis == graph.Vertical {
		return Box{X: l.originX + row*l.step, Y: l.originY + column*l.step, Size: l.opts.CellSize}
	}
	return Box{X: l.originX + column*l.step, Y: l.originY + row*l.step, Size: l.opts.CellSize}
}

// Render returns an SVG string representing the grid.
// The grid is expected in the order graph.BuildGrid produces for opts.Axis.
func Render(grid graph.Grid, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(grid) == 0 {
		return ""
	}

	l := newLayout(grid, opts)
	width, height := l.gridWidth, l.gridHeight
	legendY := 0
	if opts.ShowLegend {
		legendY = height + opts.Spacing*2
		height = legendY + opts.CellSize
		if lw := legendWidth(opts); lw > width {
			width = lw
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+"\n", width, height)
	fmt.Fprintf(&sb, `  <style>.label{font-family:%s;font-size:%dpx;fill:%s}.title{font-family:%s;font-size:%dpx;fill:%s;font-weight:bold}</style>`+"\n",
		opts.FontFamily, opts.FontSize, opts.textColor(), opts.FontFamily, opts.FontSize, opts.textColor())

	if opts.ProjectName != "" {
		fmt.Fprintf(&sb, `  <text x="0" y="%d" class="title">%s</text>`+"\n",
			opts.FontSize, html.EscapeString(opts.ProjectName))
	}

	writeAxisLabels(&sb, grid, l)
	writeCells(&sb, grid, l)
	if opts.ShowLegend {
		writeLegend(&sb, opts, width, legendY)
	}

	sb.WriteString(`</svg>`)
	return sb.String()
}

// RenderStore renders the store's current grid with its axis and level spacing.
func RenderStore(s *graph.Store, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	return Render(s.Grid(), o.ForStore(s))
}

func writeAxisLabels(sb *strings.Builder, grid graph.Grid, l *layout) {
	opts := l.opts
	for _, wd := range weekdayLabels {
		box := l.cellBox(0, wd.row)
		if opts.Axis == graph.Vertical {
			fmt.Fprintf(sb, `  <text x="%d" y="%d" class="label">%s</text>`+"\n",
				box.X, l.originY-opts.Spacing, wd.label)
		} else {
			fmt.Fprintf(sb, `  <text x="0" y="%d" class="label">%s</text>`+"\n",
				box.Y+opts.CellSize-1, wd.label)
		}
	}

	for c := range grid {
		title := MonthTitle(grid, c)
		if title == "" {
			continue
		}
		box := l.cellBox(c, 0)
		if opts.Axis == graph.Vertical {
			fmt.Fprintf(sb, `  <text x="%d" y="%d" class="label" text-anchor="end">%s</text>`+"\n",
				l.originX-opts.Spacing, box.Y+opts.CellSize-1, title)
		} else {
			fmt.Fprintf(sb, `  <text x="%d" y="%d" class="label">%s</text>`+"\n",
				box.X, l.originY-opts.Spacing, title)
		}
	}
}

func writeCells(sb *strings.Builder, grid graph.Grid, l *layout) {
	opts := l.opts
	background := opts.background()
	foreground := opts.foreground()

	for c, col := range grid {
		for r := range col {
			cell := col[r]
			pos := &Position{Column: c, Row: r}
			box := l.cellBox(c, r)
			key := cell.Date.Format("2006-01-02")
			opacity := graph.LevelOpacity(cell.Count, opts.LevelSpacing)

			fmt.Fprintf(sb, `  <g data-date="%s" data-count="%d" data-level="%d">`+"\n",
				key, cell.Count, graph.LevelFor(cell.Count, opts.LevelSpacing))
			fmt.Fprintf(sb, `    <title>%s: %d</title>`+"\n", key, cell.Count)
			sb.WriteString("    " + background(pos, &cell, box) + "\n")
			if opacity > 0 {
				fmt.Fprintf(sb, `    <g opacity="%s">%s</g>`+"\n", formatOpacity(opacity), foreground(pos, &cell, box))
			}
			sb.WriteString("  </g>\n")
		}
	}
}

// legendLabels returns the texts placed before and after the swatches.
func legendLabels(opts *Options) (string, string) {
	if opts.LegendLabel == LegendNumber {
		spacing := opts.LevelSpacing
		if spacing <= 0 {
			return "0", "1+"
		}
		return "0", strconv.Itoa(4*spacing+1) + "+"
	}
	return "Less", "More"
}

func legendWidth(opts *Options) int {
	less, more := legendLabels(opts)
	gap := opts.Spacing / 2
	levels := len(graph.LegendLevels())
	return textWidth(less, opts.FontSize) + gap + levels*opts.CellSize + gap + textWidth(more, opts.FontSize)
}

func writeLegend(sb *strings.Builder, opts *Options, width, y int) {
	less, more := legendLabels(opts)
	gap := opts.Spacing / 2
	background := opts.background()
	foreground := opts.foreground()

	x := width - legendWidth(opts)
	textY := y + opts.CellSize - 1
	sb.WriteString(`  <g class="legend">` + "\n")
	fmt.Fprintf(sb, `    <text x="%d" y="%d" class="label" opacity="0.6">%s</text>`+"\n", x, textY, less)
	x += textWidth(less, opts.FontSize) + gap

	for _, level := range graph.LegendLevels() {
		box := Box{X: x, Y: y, Size: opts.CellSize}
		fmt.Fprintf(sb, `    <g data-level="%d">%s`, level, background(nil, nil, box))
		if level.Opacity() > 0 {
			fmt.Fprintf(sb, `<g opacity="%s">%s</g>`, formatOpacity(level.Opacity()), foreground(nil, nil, box))
		}
		sb.WriteString("</g>\n")
		x += opts.CellSize
	}

	x += gap
	fmt.Fprintf(sb, `    <text x="%d" y="%d" class="label" opacity="0.6">%s</text>`+"\n", x, textY, more)
	sb.WriteString("  </g>\n")
}

// textWidth estimates the rendered width of s in a proportional font.
func textWidth(s string, fontSize int) int {
	return (len(s)*fontSize*6 + 9) / 10
}

func formatOpacity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
