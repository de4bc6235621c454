package geometry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

func TestUnion(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		boxes []schemas.Box
		want  schemas.Box
	}{
		{
			"Two overlapping boxes",
			[]schemas.Box{
				{X: 0, Y: 0, Width: 10, Height: 10, Space: schemas.SpaceLocal},
				{X: 5, Y: 5, Width: 10, Height: 10, Space: schemas.SpaceLocal},
			},
			schemas.Box{X: 0, Y: 0, Width: 15, Height: 15, Space: schemas.SpaceLocal},
		},
		{
			"Single box is unchanged",
			[]schemas.Box{{X: 3, Y: 4, Width: 5, Height: 6, Space: schemas.SpaceLocal}},
			schemas.Box{X: 3, Y: 4, Width: 5, Height: 6, Space: schemas.SpaceLocal},
		},
		{
			"Disjoint boxes span the gap",
			[]schemas.Box{
				{X: -10, Y: -10, Width: 5, Height: 5, Space: schemas.SpaceLocal},
				{X: 20, Y: 30, Width: 5, Height: 5, Space: schemas.SpaceLocal},
			},
			schemas.Box{X: -10, Y: -10, Width: 35, Height: 45, Space: schemas.SpaceLocal},
		},
		{
			"Contained box does not grow the outer one",
			[]schemas.Box{
				{X: 0, Y: 0, Width: 100, Height: 100, Space: schemas.SpaceScreen},
				{X: 40, Y: 40, Width: 10, Height: 10, Space: schemas.SpaceScreen},
			},
			schemas.Box{X: 0, Y: 0, Width: 100, Height: 100, Space: schemas.SpaceScreen},
		},
		{
			"Degenerate box still contributes its position",
			[]schemas.Box{
				{X: 0, Y: 0, Width: 10, Height: 10, Space: schemas.SpaceLocal},
				{X: 50, Y: 5, Width: 0, Height: 0, Space: schemas.SpaceLocal},
			},
			schemas.Box{X: 0, Y: 0, Width: 50, Height: 10, Space: schemas.SpaceLocal},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Union(tc.boxes)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Union() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnion_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Union(nil)
	require.Error(t, err)

	var emptyErr *schemas.EmptyInputError
	require.True(t, errors.As(err, &emptyErr))
	assert.Equal(t, "union", emptyErr.Op)
}

func TestUnion_MixedSpaces(t *testing.T) {
	t.Parallel()

	_, err := Union([]schemas.Box{
		{X: 0, Y: 0, Width: 1, Height: 1, Space: schemas.SpaceLocal},
		{X: 0, Y: 0, Width: 1, Height: 1, Space: schemas.SpaceScreen},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mixed coordinate spaces")
}

func TestExpand(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   schemas.Box
		pad  float64
		want schemas.Box
	}{
		{
			"Positive padding grows all sides",
			schemas.Box{X: 10, Y: 10, Width: 20, Height: 20},
			5,
			schemas.Box{X: 5, Y: 5, Width: 30, Height: 30},
		},
		{
			"Zero padding is a no-op",
			schemas.Box{X: 1, Y: 2, Width: 3, Height: 4},
			0,
			schemas.Box{X: 1, Y: 2, Width: 3, Height: 4},
		},
		{
			"Over-shrinking clamps to a point",
			schemas.Box{X: 0, Y: 0, Width: 10, Height: 10},
			-8,
			schemas.Box{X: 5, Y: 5, Width: 0, Height: 0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Expand(tc.in, tc.pad)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Expand() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
