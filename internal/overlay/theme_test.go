package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

func TestRelativeLuminance(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  float64
		ok    bool
	}{
		{name: "white hex", color: "#ffffff", want: 1.0, ok: true},
		{name: "black hex", color: "#000000", want: 0.0, ok: true},
		{name: "short hex", color: "#fff", want: 1.0, ok: true},
		{name: "hex with full alpha", color: "#ffffffff", want: 1.0, ok: true},
		{name: "rgb white", color: "rgb(255, 255, 255)", want: 1.0, ok: true},
		{name: "rgb black", color: "rgb(0, 0, 0)", want: 0.0, ok: true},
		{name: "rgba opaque dark", color: "rgba(18, 18, 18, 1)", want: 0.0056, ok: true},
		{name: "computed transparent", color: "rgba(0, 0, 0, 0)", ok: false},
		{name: "transparent keyword", color: "transparent", ok: false},
		{name: "hex fully transparent", color: "#ffffff00", ok: false},
		{name: "named color unsupported", color: "rebeccapurple", ok: false},
		{name: "garbage", color: "not-a-color", ok: false},
		{name: "empty", color: "", ok: false},
		{name: "malformed rgb", color: "rgb(255, 255)", ok: false},
		{name: "uppercase hex", color: "#FFFFFF", want: 1.0, ok: true},
		{name: "surrounding whitespace", color: "  rgb(255, 255, 255)  ", want: 1.0, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RelativeLuminance(tt.color)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.01)
			}
		})
	}
}

func TestBorderColorFor(t *testing.T) {
	assert.Equal(t, lightBorderColor, borderColorFor(schemas.ThemeDark),
		"a dark background needs the light border")
	assert.Equal(t, darkBorderColor, borderColorFor(schemas.ThemeLight),
		"a light background needs the dark border")
}
