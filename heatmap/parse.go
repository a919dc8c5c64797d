package heatmap

import (
	"errors"
	"strings"
)

// ParseScheme parses a colour scheme name. Empty means light.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "light":
		return Light, nil
	case "dark":
		return Dark, nil
	default:
		return 0, errors.New("invalid scheme parameter: must be light or dark")
	}
}

// Legend is the legend display setting.
type Legend struct {
	Show  bool
	Label LegendLabel
}

// ParseLegend parses a legend setting: "" or "less" (Less/More), "number", or "none".
func ParseLegend(s string) (Legend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "less", "more", "moreorless":
		return Legend{Show: true, Label: LegendMoreOrLess}, nil
	case "number":
		return Legend{Show: true, Label: LegendNumber}, nil
	case "none", "off", "false":
		return Legend{}, nil
	default:
		return Legend{}, errors.New("invalid legend parameter: must be less, number or none")
	}
}

