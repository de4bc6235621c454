package overlay

import (
	"math"
	"strconv"
	"strings"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Border colors per background class. The names describe the background they
// contrast against, not the color itself.
const (
	// darkBorderColor is drawn over light backgrounds.
	darkBorderColor = "#D32F2F"
	// lightBorderColor is drawn over dark backgrounds.
	lightBorderColor = "#4FC3F7"
)

// borderColorFor maps a resolved theme to its contrasting border color. The
// theme names the background: a dark background gets the light border.
func borderColorFor(theme schemas.Theme) string {
	if theme == schemas.ThemeDark {
		return lightBorderColor
	}
	return darkBorderColor
}

// RelativeLuminance computes the WCAG relative luminance of a CSS color in
// the forms computed styles actually report: "#rgb", "#rrggbb" (with optional
// alpha digits), "rgb(r, g, b)" and "rgba(r, g, b, a)". A fully transparent
// color reveals nothing about the background and reports ok=false, as does
// anything unparseable.
func RelativeLuminance(color string) (float64, bool) {
	r, g, b, a, ok := parseColor(color)
	if !ok || a == 0 {
		return 0, false
	}
	return 0.2126*linearize(r) + 0.7152*linearize(g) + 0.0722*linearize(b), true
}

// linearize converts an 8-bit sRGB channel to its linear-light value.
func linearize(v float64) float64 {
	v /= 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// parseColor extracts 8-bit channels and an alpha fraction from a CSS color
// literal.
func parseColor(s string) (r, g, b, a float64, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseChannelList(s[4:len(s)-1], false)
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseChannelList(s[5:len(s)-1], true)
	case s == "transparent":
		return 0, 0, 0, 0, true
	}
	return 0, 0, 0, 0, false
}

func parseHexColor(hex string) (r, g, b, a float64, ok bool) {
	a = 1
	switch len(hex) {
	case 3, 4:
		// Short form doubles each digit.
		var expanded strings.Builder
		for _, c := range hex {
			expanded.WriteRune(c)
			expanded.WriteRune(c)
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return 0, 0, 0, 0, false
	}

	channel := func(i int) (float64, bool) {
		v, err := strconv.ParseUint(hex[i:i+2], 16, 8)
		if err != nil {
			return 0, false
		}
		return float64(v), true
	}

	var okR, okG, okB bool
	r, okR = channel(0)
	g, okG = channel(2)
	b, okB = channel(4)
	if !okR || !okG || !okB {
		return 0, 0, 0, 0, false
	}
	if len(hex) == 8 {
		av, okA := channel(6)
		if !okA {
			return 0, 0, 0, 0, false
		}
		a = av / 255
	}
	return r, g, b, a, true
}

func parseChannelList(list string, hasAlpha bool) (r, g, b, a float64, ok bool) {
	parts := strings.Split(list, ",")
	want := 3
	if hasAlpha {
		want = 4
	}
	if len(parts) != want {
		return 0, 0, 0, 0, false
	}

	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, 0, 0, false
		}
		vals[i] = v
	}

	a = 1
	if hasAlpha {
		a = vals[3]
	}
	return vals[0], vals[1], vals[2], a, true
}
