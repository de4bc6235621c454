package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// ParseViewBox parses a viewBox attribute value: four numbers separated by
// whitespace and/or commas, per the SVG attribute grammar. Non-finite values
// and negative dimensions are rejected.
func ParseViewBox(s string) (schemas.ViewBox, error) {
	fields := splitListValue(s)
	if len(fields) != 4 {
		return schemas.ViewBox{}, fmt.Errorf("viewBox %q: expected 4 numbers, got %d", s, len(fields))
	}

	nums := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return schemas.ViewBox{}, fmt.Errorf("viewBox %q: bad number %q: %w", s, f, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return schemas.ViewBox{}, fmt.Errorf("viewBox %q: non-finite number %q", s, f)
		}
		nums[i] = v
	}

	if nums[2] < 0 || nums[3] < 0 {
		return schemas.ViewBox{}, fmt.Errorf("viewBox %q: negative dimensions", s)
	}

	return schemas.ViewBox{MinX: nums[0], MinY: nums[1], Width: nums[2], Height: nums[3]}, nil
}

// FormatViewBox renders a viewBox as an attribute value. Integral values
// print without a decimal point so round-tripping an authored attribute does
// not churn the file.
func FormatViewBox(vb schemas.ViewBox) string {
	return fmt.Sprintf("%s %s %s %s",
		formatNumber(vb.MinX), formatNumber(vb.MinY),
		formatNumber(vb.Width), formatNumber(vb.Height))
}

// ParseLength parses an SVG length attribute (width, height, x, y). Only
// unitless and px values are supported; percentages and other units depend on
// context this package does not have.
func ParseLength(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimSuffix(trimmed, "px")
	if trimmed == "" {
		return 0, fmt.Errorf("length %q: empty value", s)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("length %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("length %q: non-finite value", s)
	}
	return v, nil
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// splitListValue splits an SVG list-of-numbers value on whitespace and
// commas, dropping empty entries. A sequence like "0,0, 10 10" yields four
// fields.
func splitListValue(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
