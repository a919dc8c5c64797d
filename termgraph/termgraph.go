// Package termgraph renders a contribution graph for the terminal.
package termgraph

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/stsysd/axisgraph/graph"
	"github.com/stsysd/axisgraph/heatmap"
)

// Options configures terminal rendering.
type Options struct {
	Axis         graph.AxisMode
	LevelSpacing int
	Scheme       heatmap.Scheme
	Accent       string // empty for heatmap.DefaultAccent
	Inactive     string // empty for the scheme default
	Glyph        string // cell glyph, empty for "■"
	ShowLegend   bool
	LegendLabel  heatmap.LegendLabel

	// Renderer is used to build styles; nil uses lipgloss' default renderer.
	Renderer *lipgloss.Renderer
}

// DefaultOptions returns horizontal options with a legend.
func DefaultOptions() *Options {
	return &Options{
		Axis:         graph.Horizontal,
		LevelSpacing: graph.DefaultLevelSpacing,
		ShowLegend:   true,
	}
}

type painter struct {
	opts     *Options
	glyph    string
	accent   colorful.Color
	inactive colorful.Color
	label    lipgloss.Style
	styles   map[graph.Level]lipgloss.Style
}

func newPainter(opts *Options) *painter {
	p := &painter{opts: opts, glyph: opts.Glyph, styles: make(map[graph.Level]lipgloss.Style)}
	if p.glyph == "" {
		p.glyph = "■"
	}

	accent := opts.Accent
	if accent == "" {
		accent = heatmap.DefaultAccent
	}
	inactive := opts.Inactive
	if inactive == "" {
		inactive = heatmap.DefaultLightInactive
		if opts.Scheme == heatmap.Dark {
			inactive = heatmap.DefaultDarkInactive
		}
	}
	p.accent = parseColor(accent, heatmap.DefaultAccent)
	p.inactive = parseColor(inactive, heatmap.DefaultLightInactive)
	p.label = p.newStyle().Faint(true)
	return p
}

func (p *painter) newStyle() lipgloss.Style {
	if p.opts.Renderer != nil {
		return p.opts.Renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// colorFor blends the inactive colour towards the accent by the level opacity.
func (p *painter) colorFor(level graph.Level) string {
	return p.inactive.BlendRgb(p.accent, level.Opacity()).Clamped().Hex()
}

func (p *painter) cell(level graph.Level) string {
	style, ok := p.styles[level]
	if !ok {
		style = p.newStyle().Foreground(lipgloss.Color(p.colorFor(level)))
		p.styles[level] = style
	}
	return style.Render(p.glyph)
}

func parseColor(hex, fallback string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallback)
	}
	return c
}

// Render returns the grid drawn with glyphs, axis labels and an optional legend.
func Render(grid graph.Grid, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(grid) == 0 {
		return ""
	}

	p := newPainter(opts)
	var lines []string
	if opts.Axis == graph.Vertical {
		lines = renderVertical(grid, p)
	} else {
		lines = renderHorizontal(grid, p)
	}

	body := strings.Join(lines, "\n")
	if !opts.ShowLegend {
		return body
	}
	legend := renderLegend(p)
	width := max(lipgloss.Width(body), lipgloss.Width(legend))
	return body + "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Right, legend)
}

// RenderStore renders the store's current grid with its axis and level spacing.
func RenderStore(s *graph.Store, opts *Options) string {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	cfg := s.Config()
	o.Axis = cfg.Axis
	o.LevelSpacing = cfg.LevelSpacing
	return Render(s.Grid(), &o)
}

func weekdayLabel(row int) string {
	switch row {
	case 0:
		return "M"
	case 2:
		return "W"
	case 4:
		return "F"
	default:
		return " "
	}
}

func renderHorizontal(grid graph.Grid, p *painter) []string {
	// every column is two cells wide, behind a two cell gutter;
	// the last title may run past the final column
	header := []rune(strings.Repeat(" ", 2+2*len(grid)+3))
	free := 0
	for c := range grid {
		title := heatmap.MonthTitle(grid, c)
		at := 2 + 2*c
		if title == "" || at < free {
			continue
		}
		for i, r := range title {
			if at+i < len(header) {
				header[at+i] = r
			}
		}
		free = at + len(title) + 1
	}

	lines := []string{strings.TrimRight(string(header), " ")}
	for row := range 7 {
		var sb strings.Builder
		sb.WriteString(p.label.Render(weekdayLabel(row)) + " ")
		for c, col := range grid {
			if c > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(p.cell(graph.LevelFor(col[row].Count, p.opts.LevelSpacing)))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func renderVertical(grid graph.Grid, p *painter) []string {
	var header strings.Builder
	header.WriteString("    ")
	for row := range 7 {
		if row > 0 {
			header.WriteString(" ")
		}
		header.WriteString(weekdayLabel(row))
	}

	lines := []string{strings.TrimRight(header.String(), " ")}
	for c, col := range grid {
		var sb strings.Builder
		sb.WriteString(p.label.Render(padLeft(heatmap.MonthTitle(grid, c), 3)) + " ")
		for row, cell := range col {
			if row > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(p.cell(graph.LevelFor(cell.Count, p.opts.LevelSpacing)))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

func renderLegend(p *painter) string {
	less, more := "Less", "More"
	if p.opts.LegendLabel == heatmap.LegendNumber {
		less = "0"
		if p.opts.LevelSpacing > 0 {
			more = strconv.Itoa(4*p.opts.LevelSpacing+1) + "+"
		} else {
			more = "1+"
		}
	}

	parts := []string{p.label.Render(less)}
	for _, level := range graph.LegendLevels() {
		parts = append(parts, p.cell(level))
	}
	parts = append(parts, p.label.Render(more))
	return strings.Join(parts, " ")
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
