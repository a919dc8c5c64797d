package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/stsysd/axisgraph/config"
	"github.com/stsysd/axisgraph/graph"
	"github.com/stsysd/axisgraph/heatmap"
	"github.com/stsysd/axisgraph/model"
	"github.com/stsysd/axisgraph/termgraph"
)

// 出力形式
const (
	formatAuto = "auto"
	formatSVG  = "svg"
	formatTerm = "term"
)

type renderOptions struct {
	input   string
	grid    string
	from    string
	to      string
	axis    string
	spacing string
	scheme  string
	legend  string
	theme   string
	format  string
	output  string
	title   string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a contribution graph from activity dates",
		Long: `Render a contribution graph.

Activity dates are read one per line (RFC3339 or YYYY-MM-DD) from --input
or stdin. Blank lines and lines starting with # are ignored. With --grid,
a pre-built grid in the JSON form served by /api/v0/p/{project}/grid is
rendered as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "-", "file with one activity date per line (- for stdin)")
	f.StringVar(&opts.grid, "grid", "", "JSON grid file to render instead of counting dates (- for stdin)")
	f.StringVar(&opts.from, "from", "", "first day (YYYY-MM-DD or RFC3339, default one year ago)")
	f.StringVar(&opts.to, "to", "", "last day (YYYY-MM-DD or RFC3339, default today)")
	f.StringVar(&opts.axis, "axis", "horizontal", "layout: horizontal or vertical")
	f.StringVar(&opts.spacing, "spacing", "", "activities per level step (default 3)")
	f.StringVar(&opts.scheme, "scheme", "light", "colour scheme: light or dark")
	f.StringVar(&opts.legend, "legend", "less", "legend: less, number or none")
	f.StringVar(&opts.theme, "theme", "", "TOML theme file (default $AXISGRAPH_THEME_FILE)")
	f.StringVarP(&opts.format, "format", "f", formatAuto, "output format: svg, term or auto")
	f.StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&opts.title, "title", "", "title drawn above the SVG graph")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	logger := root.logger

	cfg, legend, scheme, err := opts.graphConfig()
	if err != nil {
		return err
	}

	in, err := opts.graphInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	logger.Debug().
		Int("dates", len(in.Dates)).
		Int("external_weeks", len(in.External)).
		Msg("input loaded")

	gs := graph.NewStore()
	if _, err := gs.Configure(cfg, in); err != nil {
		return err
	}
	logger.Debug().Int("weeks", len(gs.Grid())).Str("axis", cfg.Axis.String()).Msg("grid built")

	themePath := opts.theme
	if themePath == "" {
		themePath = os.Getenv("AXISGRAPH_THEME_FILE")
	}
	theme, err := config.LoadTheme(themePath)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	format, err := resolveFormat(opts.format, out)
	if err != nil {
		return err
	}

	var rendered string
	switch format {
	case formatTerm:
		termOpts := termgraph.DefaultOptions()
		termOpts.Scheme = scheme
		termOpts.ShowLegend = legend.Show
		termOpts.LegendLabel = legend.Label
		termOpts.Renderer = lipgloss.NewRenderer(out)
		theme.ApplyTerm(termOpts)
		rendered = termgraph.RenderStore(gs, termOpts)
	default:
		svgOpts := heatmap.DefaultOptions()
		svgOpts.Scheme = scheme
		svgOpts.ShowLegend = legend.Show
		svgOpts.LegendLabel = legend.Label
		svgOpts.ProjectName = opts.title
		theme.ApplySVG(svgOpts)
		rendered = heatmap.RenderStore(gs, svgOpts)
	}

	if rendered == "" {
		logger.Warn().Msg("empty graph: the date range contains no weeks")
		return nil
	}
	if _, err := fmt.Fprintln(out, rendered); err != nil {
		return fmt.Errorf("failed to write graph: %w", err)
	}
	logger.Debug().Str("format", format).Str("output", opts.output).Msg("graph written")
	return nil
}

// graphConfig はフラグからグラフ設定を組み立てます。
func (o *renderOptions) graphConfig() (graph.Config, heatmap.Legend, heatmap.Scheme, error) {
	var cfg graph.Config

	dateRange, err := model.NewDateRange(o.from, o.to)
	if err != nil {
		return cfg, heatmap.Legend{}, 0, err
	}
	axis, err := model.ParseAxisMode(o.axis)
	if err != nil {
		return cfg, heatmap.Legend{}, 0, err
	}
	spacing, err := model.NewLevelSpacing(o.spacing)
	if err != nil {
		return cfg, heatmap.Legend{}, 0, err
	}
	scheme, err := heatmap.ParseScheme(o.scheme)
	if err != nil {
		return cfg, heatmap.Legend{}, 0, err
	}
	legend, err := heatmap.ParseLegend(o.legend)
	if err != nil {
		return cfg, heatmap.Legend{}, 0, err
	}

	cfg = graph.Config{
		Range:        dateRange.Graph(),
		Axis:         axis,
		LevelSpacing: spacing.Int(),
		Location:     time.Local,
	}
	return cfg, legend, scheme, nil
}

// graphInput は日付リストまたは外部グリッドを読み込みます。
func (o *renderOptions) graphInput(stdin io.Reader) (graph.Input, error) {
	if o.grid != "" {
		data, err := readSource(o.grid, stdin)
		if err != nil {
			return graph.Input{}, err
		}
		grid, err := graph.UnmarshalGrid(data)
		if err != nil {
			return graph.Input{}, err
		}
		return graph.Input{External: grid}, nil
	}

	r, closeFn, err := openSource(o.input, stdin)
	if err != nil {
		return graph.Input{}, err
	}
	defer closeFn()

	dates, err := ReadDates(r)
	if err != nil {
		return graph.Input{}, err
	}
	return graph.Input{Dates: dates}, nil
}

// ReadDates は1行に1つの日時を読み込みます。空行と#で始まる行は無視します。
func ReadDates(r io.Reader) ([]time.Time, error) {
	var dates []time.Time
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		t, err := model.ParseDateTime(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		dates = append(dates, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dates: %w", err)
	}
	return dates, nil
}

func openSource(path string, stdin io.Reader) (io.Reader, func() error, error) {
	if path == "" || path == "-" {
		return stdin, func() error { return nil }, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return file, file.Close, nil
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	r, closeFn, err := openSource(path, stdin)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// resolveFormat は auto を出力先に応じて svg または term に解決します。
func resolveFormat(format string, out io.Writer) (string, error) {
	switch strings.ToLower(format) {
	case formatSVG:
		return formatSVG, nil
	case formatTerm:
		return formatTerm, nil
	case formatAuto, "":
		if f, ok := out.(*os.File); ok && isTerminal(f) {
			return formatTerm, nil
		}
		return formatSVG, nil
	default:
		return "", errors.New("invalid format: must be svg, term or auto")
	}
}
