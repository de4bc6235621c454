// Package geometry implements the pure coordinate math of the measurement
// pipeline: affine transforms, box union, viewport mapping, and viewBox
// parsing. Nothing here touches a rendering environment; every function is a
// deterministic value computation over the schema types.
package geometry

import (
	"fmt"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Identity returns the identity transform.
func Identity() schemas.TransformMatrix {
	return schemas.TransformMatrix{A: 1, D: 1}
}

// Translate returns a translation transform.
func Translate(tx, ty float64) schemas.TransformMatrix {
	return schemas.TransformMatrix{A: 1, D: 1, E: tx, F: ty}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) schemas.TransformMatrix {
	return schemas.TransformMatrix{A: sx, D: sy}
}

// Multiply combines two transforms (m1 * m2). Order matters: the result
// applies m2 first, then m1.
func Multiply(m1, m2 schemas.TransformMatrix) schemas.TransformMatrix {
	return schemas.TransformMatrix{
		A: m1.A*m2.A + m1.C*m2.B,
		B: m1.B*m2.A + m1.D*m2.B,
		C: m1.A*m2.C + m1.C*m2.D,
		D: m1.B*m2.C + m1.D*m2.D,
		E: m1.A*m2.E + m1.C*m2.F + m1.E,
		F: m1.B*m2.E + m1.D*m2.F + m1.F,
	}
}

// Apply transforms a point (x, y).
func Apply(m schemas.TransformMatrix, x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Invert calculates the inverse transform. A singular matrix (zero
// determinant, e.g. a collapsed scale) is not invertible and returns an
// error.
func Invert(m schemas.TransformMatrix) (schemas.TransformMatrix, error) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return schemas.TransformMatrix{}, fmt.Errorf("matrix is not invertible")
	}

	invDet := 1.0 / det
	return schemas.TransformMatrix{
		A: m.D * invDet,
		B: -m.B * invDet,
		C: -m.C * invDet,
		D: m.A * invDet,
		E: (m.C*m.F - m.D*m.E) * invDet,
		F: (m.B*m.E - m.A*m.F) * invDet,
	}, nil
}

// ProjectBox maps a box through a transform and returns the axis-aligned
// bounding box of its four transformed corners. Under rotation or skew the
// result is larger than the transformed shape, which is the conservative
// behavior the correction pass wants. The result carries no space tag;
// callers tag it for the space the transform maps into.
func ProjectBox(m schemas.TransformMatrix, b schemas.Box) schemas.Box {
	x0, y0 := Apply(m, b.X, b.Y)
	x1, y1 := Apply(m, b.MaxX(), b.Y)
	x2, y2 := Apply(m, b.X, b.MaxY())
	x3, y3 := Apply(m, b.MaxX(), b.MaxY())

	minX := min4(x0, x1, x2, x3)
	minY := min4(y0, y1, y2, y3)
	maxX := max4(x0, x1, x2, x3)
	maxY := max4(y0, y1, y2, y3)

	return schemas.Box{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

func min4(a, b, c, d float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	if d < m {
		m = d
	}
	return m
}

func max4(a, b, c, d float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	if d > m {
		m = d
	}
	return m
}
