package measure

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/mocks"
)

func TestNeedsCorrection(t *testing.T) {
	solid := schemas.Box{X: 0, Y: 0, Width: 10, Height: 10}

	tests := []struct {
		name     string
		info     schemas.ElementInfo
		declared schemas.Box
		want     bool
	}{
		{name: "plain rect", info: schemas.ElementInfo{Tag: "rect"}, declared: solid, want: false},
		{name: "text", info: schemas.ElementInfo{Tag: "text"}, declared: solid, want: true},
		{name: "tspan", info: schemas.ElementInfo{Tag: "tspan"}, declared: solid, want: true},
		{name: "textPath", info: schemas.ElementInfo{Tag: "textPath"}, declared: solid, want: true},
		{name: "stroked path", info: schemas.ElementInfo{Tag: "path", HasStroke: true}, declared: solid, want: true},
		{name: "filtered group", info: schemas.ElementInfo{Tag: "g", HasFilter: true}, declared: solid, want: true},
		{name: "degenerate declared box", info: schemas.ElementInfo{Tag: "path"}, declared: schemas.Box{X: 5, Y: 5}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NeedsCorrection(&tt.info, tt.declared)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculator_Measure(t *testing.T) {
	ctx := context.Background()
	el := schemas.ElementHandle{Ref: "el-1"}
	identity := schemas.TransformMatrix{A: 1, D: 1}

	t.Run("trustworthy geometry takes the fast path", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10, Width: 50, Height: 20}, nil)

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "rect"})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceFast, got.Source)
		assert.Equal(t, schemas.Box{X: 10, Y: 10, Width: 50, Height: 20, Space: schemas.SpaceLocal}, got.Box)
		env.AssertNotCalled(t, "ScreenRect", mock.Anything, mock.Anything)
		env.AssertNotCalled(t, "ScreenMatrix", mock.Anything, mock.Anything)
	})

	t.Run("text grows to its rendered extent", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10, Width: 50, Height: 20}, nil)
		// Rendered at 2x scale; the on-screen rectangle maps back to a local
		// box larger than the declared one.
		env.On("ScreenRect", mock.Anything, el).Return(schemas.Box{X: 16, Y: 16, Width: 112, Height: 48, Space: schemas.SpaceScreen}, nil)
		env.On("ScreenMatrix", mock.Anything, el).Return(schemas.TransformMatrix{A: 2, D: 2}, nil)

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "text"})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceCorrected, got.Source)
		assert.Equal(t, schemas.Box{X: 8, Y: 8, Width: 56, Height: 24, Space: schemas.SpaceLocal}, got.Box)
	})

	t.Run("correction never shrinks the declared box", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10, Width: 50, Height: 20}, nil)
		// The rendered rectangle is smaller than the declared geometry,
		// e.g. a stroked shape mostly clipped away.
		env.On("ScreenRect", mock.Anything, el).Return(schemas.Box{X: 12, Y: 12, Width: 10, Height: 10, Space: schemas.SpaceScreen}, nil)
		env.On("ScreenMatrix", mock.Anything, el).Return(identity, nil)

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "path", HasStroke: true})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceCorrected, got.Source)
		assert.Equal(t, schemas.Box{X: 10, Y: 10, Width: 50, Height: 20, Space: schemas.SpaceLocal}, got.Box)
	})

	t.Run("degenerate declared box is rescued by the rendered pass", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10}, nil)
		env.On("ScreenRect", mock.Anything, el).Return(schemas.Box{X: 5, Y: 5, Width: 30, Height: 30, Space: schemas.SpaceScreen}, nil)
		env.On("ScreenMatrix", mock.Anything, el).Return(identity, nil)

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "path"})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceCorrected, got.Source)
		assert.Equal(t, schemas.Box{X: 5, Y: 5, Width: 30, Height: 30, Space: schemas.SpaceLocal}, got.Box)
	})

	t.Run("collapsed transform falls back to declared geometry", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10, Width: 50, Height: 20}, nil)
		env.On("ScreenRect", mock.Anything, el).Return(schemas.Box{Space: schemas.SpaceScreen}, nil)
		env.On("ScreenMatrix", mock.Anything, el).Return(schemas.TransformMatrix{}, nil)

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "text"})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceFast, got.Source)
		assert.Equal(t, schemas.Box{X: 10, Y: 10, Width: 50, Height: 20, Space: schemas.SpaceLocal}, got.Box)
	})

	t.Run("force runs correction for trustworthy elements too", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10, Width: 50, Height: 20}, nil)
		env.On("ScreenRect", mock.Anything, el).Return(schemas.Box{X: 0, Y: 0, Width: 60, Height: 30, Space: schemas.SpaceScreen}, nil)
		env.On("ScreenMatrix", mock.Anything, el).Return(identity, nil)

		c := NewCalculator(env, true, zaptest.NewLogger(t))
		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "rect"})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceCorrected, got.Source)
		assert.Equal(t, schemas.Box{X: 0, Y: 0, Width: 60, Height: 30, Space: schemas.SpaceLocal}, got.Box)
	})

	t.Run("declared geometry failure propagates", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(nil, errors.New("node detached"))

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		_, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "rect"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "declared geometry")
	})

	t.Run("custom predicate replaces the default", func(t *testing.T) {
		env := new(mocks.MockEnvironment)
		env.On("DeclaredBox", mock.Anything, el).Return(schemas.Box{X: 10, Y: 10, Width: 50, Height: 20}, nil)

		c := NewCalculator(env, false, zaptest.NewLogger(t))
		c.SetPredicate(func(*schemas.ElementInfo, schemas.Box) bool { return false })

		got, err := c.Measure(ctx, &schemas.ElementInfo{Handle: el, Tag: "text"})

		require.NoError(t, err)
		assert.Equal(t, schemas.SourceFast, got.Source, "the custom predicate suppressed correction")
	})
}
