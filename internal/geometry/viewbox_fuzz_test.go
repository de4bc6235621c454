//go:build go1.18
// +build go1.18

package geometry

import (
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Fuzz_ParseViewBox feeds arbitrary attribute text through the parser. The
// parser must never panic, and any value it accepts must survive a
// format/reparse round trip.
func Fuzz_ParseViewBox(f *testing.F) {
	f.Add("0 0 400 300")
	f.Add("-200,-150, 400 300")
	f.Add("0.5\t0.25 10 20")
	f.Add("")
	f.Add("NaN NaN NaN NaN")

	f.Fuzz(func(t *testing.T, input string) {
		vb, err := ParseViewBox(input)
		if err != nil {
			return
		}

		if math.IsNaN(vb.MinX) || math.IsNaN(vb.MinY) || math.IsNaN(vb.Width) || math.IsNaN(vb.Height) {
			t.Fatalf("accepted NaN component from %q: %+v", input, vb)
		}
		if vb.Width < 0 || vb.Height < 0 {
			t.Fatalf("accepted negative dimensions from %q: %+v", input, vb)
		}

		reparsed, err := ParseViewBox(FormatViewBox(vb))
		if err != nil {
			t.Fatalf("round trip of %q failed to reparse: %v", input, err)
		}
		if reparsed != vb {
			t.Fatalf("round trip of %q changed value: %+v != %+v", input, reparsed, vb)
		}
	})
}

// Fuzz_MapToScreen drives the mapper with structured random geometry and
// checks the arithmetic invariants that hold for any finite input.
func Fuzz_MapToScreen(f *testing.F) {
	f.Add([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})

	f.Fuzz(func(t *testing.T, data []byte) {
		fz := fuzz.NewConsumer(data)

		var box schemas.Box
		if err := fz.GenerateStruct(&box); err != nil {
			return
		}
		var root schemas.RootGeometry
		if err := fz.GenerateStruct(&root); err != nil {
			return
		}
		padding, err := fz.GetFloat64()
		if err != nil {
			return
		}

		if !finiteBox(box) || !finiteBox(root.Rect) || !isFinite(padding) {
			return
		}
		if root.ViewBox != nil && !finiteViewBox(*root.ViewBox) {
			return
		}
		sx, sy := ScaleFactors(root)
		if sx == 0 || sy == 0 || !isFinite(sx) || !isFinite(sy) {
			return
		}

		got := MapToScreen(box, root, padding)

		if got.Space != schemas.SpaceScreen {
			t.Fatalf("mapped box not tagged screen space: %+v", got)
		}
		wantW := box.Width*sx + 2*padding
		if isFinite(wantW) && isFinite(got.Width) && math.Abs(got.Width-wantW) > 1e-6*math.Max(1, math.Abs(wantW)) {
			t.Fatalf("width %v, want %v (scale %v, padding %v)", got.Width, wantW, sx, padding)
		}
	})
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteBox(b schemas.Box) bool {
	return isFinite(b.X) && isFinite(b.Y) && isFinite(b.Width) && isFinite(b.Height)
}

func finiteViewBox(vb schemas.ViewBox) bool {
	return isFinite(vb.MinX) && isFinite(vb.MinY) && isFinite(vb.Width) && isFinite(vb.Height)
}
