package geometry

import (
	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// effectiveViewBox returns the logical viewport the mapping uses: the
// declared one when it has positive dimensions, otherwise a synthesized
// identity viewport covering the rendered area (one local unit per pixel).
func effectiveViewBox(root schemas.RootGeometry) schemas.ViewBox {
	if root.ViewBox != nil && root.ViewBox.IsPositive() {
		return *root.ViewBox
	}
	return schemas.ViewBox{
		MinX:   0,
		MinY:   0,
		Width:  root.Rect.Width,
		Height: root.Rect.Height,
	}
}

// ScaleFactors returns the local-to-screen scale on each axis for a root.
// The axes differ when the viewport aspect ratio does not match the rendered
// aspect ratio.
func ScaleFactors(root schemas.RootGeometry) (scaleX, scaleY float64) {
	vb := effectiveViewBox(root)
	if vb.Width == 0 || vb.Height == 0 {
		return 0, 0
	}
	return root.Rect.Width / vb.Width, root.Rect.Height / vb.Height
}

// MapToScreen converts a local-space box into on-screen pixels for the given
// root, expanded symmetrically by paddingPx. The viewport origin is
// subtracted before scaling, so negative-origin viewports land on the same
// pixels as an equivalent positive-origin layout.
func MapToScreen(box schemas.Box, root schemas.RootGeometry, paddingPx float64) schemas.Box {
	vb := effectiveViewBox(root)
	scaleX, scaleY := ScaleFactors(root)

	return schemas.Box{
		X:      root.Rect.X + (box.X-vb.MinX)*scaleX - paddingPx,
		Y:      root.Rect.Y + (box.Y-vb.MinY)*scaleY - paddingPx,
		Width:  box.Width*scaleX + 2*paddingPx,
		Height: box.Height*scaleY + 2*paddingPx,
		Space:  schemas.SpaceScreen,
	}
}

// FitViewport computes a logical viewport that tightly encloses the given
// local-space boxes, expanded by padding user units on every side. It is the
// caller's job to assign the result onto a root; nothing is mutated here.
// Fails with EmptyInputError when no boxes are given.
func FitViewport(boxes []schemas.Box, padding float64) (schemas.ViewBox, error) {
	if len(boxes) == 0 {
		return schemas.ViewBox{}, schemas.NewEmptyInputError("fit")
	}

	combined, err := Union(boxes)
	if err != nil {
		return schemas.ViewBox{}, err
	}

	padded := Expand(combined, padding)
	return schemas.ViewBox{
		MinX:   padded.X,
		MinY:   padded.Y,
		Width:  padded.Width,
		Height: padded.Height,
	}, nil
}
