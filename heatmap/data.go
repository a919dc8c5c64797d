package heatmap

import (
	"fmt"

	"github.com/stsysd/axisgraph/graph"
)

// Scheme selects the default colour palette.
type Scheme int

const (
	Light Scheme = iota
	Dark
)

func (s Scheme) String() string {
	if s == Dark {
		return "dark"
	}
	return "light"
}

// LegendLabel selects the labels around the legend swatches.
type LegendLabel int

const (
	// LegendMoreOrLess brackets the swatches with "Less" and "More".
	LegendMoreOrLess LegendLabel = iota
	// LegendNumber brackets the swatches with the count range.
	LegendNumber
)

// Default colours.
const (
	DefaultAccent        = "#6CD164"
	DefaultLightInactive = "#F0F0F0"
	DefaultDarkInactive  = "#171B21"
	DefaultLightText     = "#666666"
	DefaultDarkText      = "#C9D1D9"
)

// Position locates a cell in the grid.
type Position struct {
	Column int
	Row    int
}

// Box is the square a cell is drawn into (px).
type Box struct {
	X    int
	Y    int
	Size int
}

// CellRenderer returns the SVG markup for one layer of a cell.
// pos and cell are nil when drawing a legend swatch.
type CellRenderer func(pos *Position, cell *graph.DayCell, box Box) string

// Options configures rendering parameters.
type Options struct {
	CellSize     int            // size of each day cell (px)
	Spacing      int            // gap between cells (px)
	FontSize     int            // font size for labels (px)
	FontFamily   string         // font family for labels
	Axis         graph.AxisMode // orientation the grid was built for
	LevelSpacing int            // unit between contribution levels
	Scheme       Scheme         // colour scheme for the defaults
	Accent       string         // foreground colour, empty for DefaultAccent
	Inactive     string         // background colour, empty for the scheme default
	TextColor    string         // label colour, empty for the scheme default
	ShowLegend   bool           // draw the Less/More legend below the grid
	LegendLabel  LegendLabel    // legend label style
	ProjectName  string         // title above the graph

	Background CellRenderer // nil for a plain inactive square
	Foreground CellRenderer // nil for a bordered accent square
}

// DefaultOptions returns the default rendering options.
func DefaultOptions() *Options {
	return &Options{
		CellSize:     11,
		Spacing:      4,
		FontSize:     9,
		FontFamily:   "sans-serif",
		Axis:         graph.Horizontal,
		LevelSpacing: graph.DefaultLevelSpacing,
		Scheme:       Light,
		ShowLegend:   true,
	}
}

// ForStore copies the axis and level spacing of the store's config into o.
func (o *Options) ForStore(s *graph.Store) *Options {
	cfg := s.Config()
	o.Axis = cfg.Axis
	o.LevelSpacing = cfg.LevelSpacing
	return o
}

func (o *Options) accent() string {
	if o.Accent != "" {
		return o.Accent
	}
	return DefaultAccent
}

func (o *Options) inactive() string {
	if o.Inactive != "" {
		return o.Inactive
	}
	if o.Scheme == Dark {
		return DefaultDarkInactive
	}
	return DefaultLightInactive
}

func (o *Options) textColor() string {
	if o.TextColor != "" {
		return o.TextColor
	}
	if o.Scheme == Dark {
		return DefaultDarkText
	}
	return DefaultLightText
}

func (o *Options) background() CellRenderer {
	if o.Background != nil {
		return o.Background
	}
	return DefaultBackground(o.inactive())
}

func (o *Options) foreground() CellRenderer {
	if o.Foreground != nil {
		return o.Foreground
	}
	return DefaultForeground(o.accent())
}

// DefaultBackground draws a plain rounded square.
func DefaultBackground(color string) CellRenderer {
	return func(_ *Position, _ *graph.DayCell, box Box) string {
		return fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="%s"/>`,
			box.X, box.Y, box.Size, box.Size, color)
	}
}

// DefaultForeground draws a rounded square with a faint white border.
func DefaultForeground(color string) CellRenderer {
	return func(_ *Position, _ *graph.DayCell, box Box) string {
		return fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" rx="2" fill="%s" stroke="#FFFFFF" stroke-opacity="0.2" stroke-width="1"/>`,
			box.X, box.Y, box.Size, box.Size, color)
	}
}
