package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"

	"github.com/stsysd/axisgraph/heatmap"
	"github.com/stsysd/axisgraph/termgraph"
)

// Theme はグラフの配色です。
type Theme struct {
	Accent        string
	LightInactive string
	DarkInactive  string
	LightText     string
	DarkText      string
}

type tomlTheme struct {
	Accent   string        `toml:"accent"`
	Inactive tomlSchemeSet `toml:"inactive"`
	Text     tomlSchemeSet `toml:"text"`
}

type tomlSchemeSet struct {
	Light string `toml:"light"`
	Dark  string `toml:"dark"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultTheme はデフォルトの配色を返します。
func DefaultTheme() *Theme {
	return &Theme{
		Accent:        heatmap.DefaultAccent,
		LightInactive: heatmap.DefaultLightInactive,
		DarkInactive:  heatmap.DefaultDarkInactive,
		LightText:     heatmap.DefaultLightText,
		DarkText:      heatmap.DefaultDarkText,
	}
}

// LoadTheme はTOMLファイルからテーマを読み込みます。
// path が空の場合はデフォルトのテーマを返します。
func LoadTheme(path string) (*Theme, error) {
	if path == "" {
		return DefaultTheme(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme file: %w", err)
	}
	return ParseTheme(data)
}

// ParseTheme はTOMLのテーマ定義を解析します。未指定のキーはデフォルト値になります。
//
//	accent = "#6CD164"
//
//	[inactive]
//	light = "#F0F0F0"
//	dark = "#171B21"
//
//	[text]
//	light = "#666666"
//	dark = "#C9D1D9"
func ParseTheme(data []byte) (*Theme, error) {
	var tt tomlTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := DefaultTheme()
	fields := []struct {
		key string
		src string
		dst *string
	}{
		{"accent", tt.Accent, &t.Accent},
		{"inactive.light", tt.Inactive.Light, &t.LightInactive},
		{"inactive.dark", tt.Inactive.Dark, &t.DarkInactive},
		{"text.light", tt.Text.Light, &t.LightText},
		{"text.dark", tt.Text.Dark, &t.DarkText},
	}
	for _, f := range fields {
		if f.src == "" {
			continue
		}
		if !hexColorPattern.MatchString(f.src) {
			return nil, fmt.Errorf("theme: %s: invalid color %q (want #RRGGBB)", f.key, f.src)
		}
		*f.dst = f.src
	}
	return t, nil
}

// ApplySVG はテーマの配色をSVGの描画オプションに設定します。
func (t *Theme) ApplySVG(opts *heatmap.Options) {
	opts.Accent = t.Accent
	if opts.Scheme == heatmap.Dark {
		opts.Inactive = t.DarkInactive
		opts.TextColor = t.DarkText
	} else {
		opts.Inactive = t.LightInactive
		opts.TextColor = t.LightText
	}
}

// ApplyTerm はテーマの配色を端末描画オプションに設定します。
func (t *Theme) ApplyTerm(opts *termgraph.Options) {
	opts.Accent = t.Accent
	if opts.Scheme == heatmap.Dark {
		opts.Inactive = t.DarkInactive
	} else {
		opts.Inactive = t.LightInactive
	}
}
