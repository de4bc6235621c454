package geometry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Layout rounding in a real environment is subpixel; the mapper itself is
// exact, so tests compare within a tight tolerance.
var approxBox = cmpopts.EquateApprox(0, 1e-9)

func TestMapToScreen(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		box     schemas.Box
		root    schemas.RootGeometry
		padding float64
		want    schemas.Box
	}{
		{
			// viewBox="0 0 400 300" rendered at 800x600: scale is 2 on both
			// axes, padding 4 adds 8 to each dimension.
			name: "Declared viewport with uniform scale",
			box:  schemas.Box{X: 150, Y: 100, Width: 100, Height: 80, Space: schemas.SpaceLocal},
			root: schemas.RootGeometry{
				Rect:    schemas.Box{X: 20, Y: 10, Width: 800, Height: 600, Space: schemas.SpaceScreen},
				ViewBox: &schemas.ViewBox{MinX: 0, MinY: 0, Width: 400, Height: 300},
			},
			padding: 4,
			want:    schemas.Box{X: 316, Y: 206, Width: 208, Height: 168, Space: schemas.SpaceScreen},
		},
		{
			name: "Absent viewport maps one to one",
			box:  schemas.Box{X: 50, Y: 60, Width: 30, Height: 40, Space: schemas.SpaceLocal},
			root: schemas.RootGeometry{
				Rect: schemas.Box{X: 100, Y: 200, Width: 400, Height: 300, Space: schemas.SpaceScreen},
			},
			padding: 0,
			want:    schemas.Box{X: 150, Y: 260, Width: 30, Height: 40, Space: schemas.SpaceScreen},
		},
		{
			name: "Zero-size declared viewport treated as absent",
			box:  schemas.Box{X: 10, Y: 10, Width: 10, Height: 10, Space: schemas.SpaceLocal},
			root: schemas.RootGeometry{
				Rect:    schemas.Box{X: 0, Y: 0, Width: 400, Height: 300, Space: schemas.SpaceScreen},
				ViewBox: &schemas.ViewBox{MinX: 0, MinY: 0, Width: 0, Height: 0},
			},
			padding: 0,
			want:    schemas.Box{X: 10, Y: 10, Width: 10, Height: 10, Space: schemas.SpaceScreen},
		},
		{
			name: "Non-uniform scale",
			box:  schemas.Box{X: 0, Y: 0, Width: 100, Height: 100, Space: schemas.SpaceLocal},
			root: schemas.RootGeometry{
				Rect:    schemas.Box{X: 0, Y: 0, Width: 400, Height: 100, Space: schemas.SpaceScreen},
				ViewBox: &schemas.ViewBox{MinX: 0, MinY: 0, Width: 100, Height: 100},
			},
			padding: 0,
			want:    schemas.Box{X: 0, Y: 0, Width: 400, Height: 100, Space: schemas.SpaceScreen},
		},
		{
			name: "Padding can push the origin negative",
			box:  schemas.Box{X: 0, Y: 0, Width: 10, Height: 10, Space: schemas.SpaceLocal},
			root: schemas.RootGeometry{
				Rect: schemas.Box{X: 0, Y: 0, Width: 100, Height: 100, Space: schemas.SpaceScreen},
			},
			padding: 3,
			want:    schemas.Box{X: -3, Y: -3, Width: 16, Height: 16, Space: schemas.SpaceScreen},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapToScreen(tc.box, tc.root, tc.padding)
			if diff := cmp.Diff(tc.want, got, approxBox); diff != "" {
				t.Errorf("MapToScreen() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// A negative-origin viewport with correspondingly shifted content must land
// on exactly the same pixels as the positive-origin equivalent: the origin
// offset is subtracted out before scaling.
func TestMapToScreen_NegativeOriginEquivalence(t *testing.T) {
	t.Parallel()

	rect := schemas.Box{X: 20, Y: 10, Width: 800, Height: 600, Space: schemas.SpaceScreen}

	positive := MapToScreen(
		schemas.Box{X: 150, Y: 100, Width: 100, Height: 80, Space: schemas.SpaceLocal},
		schemas.RootGeometry{
			Rect:    rect,
			ViewBox: &schemas.ViewBox{MinX: 0, MinY: 0, Width: 400, Height: 300},
		},
		4,
	)
	negative := MapToScreen(
		schemas.Box{X: -50, Y: -50, Width: 100, Height: 80, Space: schemas.SpaceLocal},
		schemas.RootGeometry{
			Rect:    rect,
			ViewBox: &schemas.ViewBox{MinX: -200, MinY: -150, Width: 400, Height: 300},
		},
		4,
	)

	if diff := cmp.Diff(positive, negative, approxBox); diff != "" {
		t.Errorf("negative-origin mapping diverged (-positive +negative):\n%s", diff)
	}
}

func TestScaleFactors(t *testing.T) {
	t.Parallel()

	sx, sy := ScaleFactors(schemas.RootGeometry{
		Rect:    schemas.Box{Width: 800, Height: 600},
		ViewBox: &schemas.ViewBox{Width: 400, Height: 300},
	})
	assert.InDelta(t, 2.0, sx, 1e-9)
	assert.InDelta(t, 2.0, sy, 1e-9)

	sx, sy = ScaleFactors(schemas.RootGeometry{
		Rect: schemas.Box{Width: 400, Height: 300},
	})
	assert.InDelta(t, 1.0, sx, 1e-9)
	assert.InDelta(t, 1.0, sy, 1e-9)
}

func TestFitViewport(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		boxes   []schemas.Box
		padding float64
		want    schemas.ViewBox
	}{
		{
			"Single box with padding",
			[]schemas.Box{{X: 100, Y: 100, Width: 200, Height: 100, Space: schemas.SpaceLocal}},
			10,
			schemas.ViewBox{MinX: 90, MinY: 90, Width: 220, Height: 120},
		},
		{
			"Multiple boxes union first",
			[]schemas.Box{
				{X: 0, Y: 0, Width: 10, Height: 10, Space: schemas.SpaceLocal},
				{X: 5, Y: 5, Width: 10, Height: 10, Space: schemas.SpaceLocal},
			},
			0,
			schemas.ViewBox{MinX: 0, MinY: 0, Width: 15, Height: 15},
		},
		{
			"Negative content coordinates survive",
			[]schemas.Box{{X: -50, Y: -25, Width: 100, Height: 50, Space: schemas.SpaceLocal}},
			5,
			schemas.ViewBox{MinX: -55, MinY: -30, Width: 110, Height: 60},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FitViewport(tc.boxes, tc.padding)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got, approxBox); diff != "" {
				t.Errorf("FitViewport() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFitViewport_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := FitViewport(nil, 4)
	require.Error(t, err)

	var emptyErr *schemas.EmptyInputError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, "fit", emptyErr.Op)
}
