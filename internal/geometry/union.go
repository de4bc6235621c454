package geometry

import (
	"fmt"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Union computes the minimal box enclosing all inputs. Every input must be
// expressed in the same coordinate space; the result carries that space. An
// empty slice fails with EmptyInputError.
func Union(boxes []schemas.Box) (schemas.Box, error) {
	if len(boxes) == 0 {
		return schemas.Box{}, schemas.NewEmptyInputError("union")
	}

	space := boxes[0].Space
	minX, minY := boxes[0].X, boxes[0].Y
	maxX, maxY := boxes[0].MaxX(), boxes[0].MaxY()

	for _, b := range boxes[1:] {
		if b.Space != space {
			return schemas.Box{}, fmt.Errorf("union: mixed coordinate spaces %q and %q", space, b.Space)
		}
		if b.X < minX {
			minX = b.X
		}
		if b.Y < minY {
			minY = b.Y
		}
		if b.MaxX() > maxX {
			maxX = b.MaxX()
		}
		if b.MaxY() > maxY {
			maxY = b.MaxY()
		}
	}

	return schemas.Box{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
		Space:  space,
	}, nil
}

// Expand grows a box symmetrically by pad on every side. A negative pad
// shrinks it; the result is clamped to zero size rather than going negative.
func Expand(b schemas.Box, pad float64) schemas.Box {
	out := schemas.Box{
		X:      b.X - pad,
		Y:      b.Y - pad,
		Width:  b.Width + 2*pad,
		Height: b.Height + 2*pad,
		Space:  b.Space,
	}
	if out.Width < 0 {
		out.X = b.X + b.Width/2
		out.Width = 0
	}
	if out.Height < 0 {
		out.Y = b.Y + b.Height/2
		out.Height = 0
	}
	return out
}
