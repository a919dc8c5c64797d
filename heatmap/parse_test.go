package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("dark")
	require.NoError(t, err)
	assert.Equal(t, Dark, s)

	s, err = ParseScheme(" Light ")
	require.NoError(t, err)
	assert.Equal(t, Light, s)

	s, err = ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, Light, s)

	_, err = ParseScheme("sepia")
	assert.Error(t, err)
}

func TestParseLegend(t *testing.T) {
	tests := []struct {
		in   string
		want Legend
	}{
		{"", Legend{Show: true, Label: LegendMoreOrLess}},
		{"less", Legend{Show: true, Label: LegendMoreOrLess}},
		{"number", Legend{Show: true, Label: LegendNumber}},
		{"none", Legend{}},
		{"OFF", Legend{}},
	}
	for _, tt := range tests {
		got, err := ParseLegend(tt.in)
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}

	_, err := ParseLegend("sideways")
	assert.Error(t, err)
}
