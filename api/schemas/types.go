package schemas

import "fmt"

// -- Coordinate Spaces --

// Space identifies the coordinate system a Box is expressed in.
type Space string

const (
	// SpaceLocal is the element's own user coordinate system, before any
	// viewport scaling is applied.
	SpaceLocal Space = "local"
	// SpaceScreen is on-screen CSS pixels, relative to the viewport origin.
	SpaceScreen Space = "screen"
)

// -- Geometry Schemas --

// Box is an axis-aligned rectangle tagged with the coordinate space it is
// expressed in. Width and Height are always non-negative.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Space  Space   `json:"space,omitempty"`
}

// MaxX returns the right edge of the box.
func (b Box) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge of the box.
func (b Box) MaxY() float64 { return b.Y + b.Height }

// IsDegenerate reports whether the box has zero (or negative) area.
func (b Box) IsDegenerate() bool { return b.Width <= 0 || b.Height <= 0 }

// In returns a copy of the box tagged with the given space. It does not
// convert coordinates; callers use it after performing a conversion.
func (b Box) In(s Space) Box {
	b.Space = s
	return b
}

// ViewBox is a declared logical viewport: a local-space rectangle that is
// stretched to fill the root element's rendered pixel area. A nil *ViewBox
// means the root declares none and mapping is identity.
type ViewBox struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsPositive reports whether the viewport has usable (positive) dimensions.
// A declared viewBox with zero or negative size disables rendering and is
// treated the same as an absent one for mapping purposes.
func (v ViewBox) IsPositive() bool { return v.Width > 0 && v.Height > 0 }

// TransformMatrix is a 2D affine transform in SVG order:
//
//	| a c e |
//	| b d f |
//
// mapping (x, y) to (a*x + c*y + e, b*x + d*y + f). Field names match the
// DOMMatrix members returned by the rendering environment.
type TransformMatrix struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	E float64 `json:"e"`
	F float64 `json:"f"`
}

// -- Element Schemas --

// ElementHandle is an opaque, stable reference to a live element. The
// rendering environment assigns the reference on first lookup and resolves it
// back to the same node on later calls.
type ElementHandle struct {
	Ref string `json:"ref"`
}

// IsZero reports whether the handle refers to nothing.
func (h ElementHandle) IsZero() bool { return h.Ref == "" }

// ElementInfo describes the structural facts about an element that the
// measurement pipeline needs: its tag, reference-indirection attributes, the
// rendering properties that force aggressive re-measurement, and the nearest
// viewport-bearing ancestor.
type ElementInfo struct {
	Handle ElementHandle `json:"handle"`
	Tag    string        `json:"tag"`
	// Href is the reference target of an indirection element (the value of
	// href or xlink:href), empty for ordinary elements.
	Href string `json:"href,omitempty"`
	// X and Y are the instance offset declared on an indirection element.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	// HasStroke is true when the element paints a stroke (attribute or
	// effective style), which the declared geometry query ignores.
	HasStroke bool `json:"hasStroke"`
	// HasFilter is true when a filter effect applies, which can bleed
	// rendering outside the declared geometry.
	HasFilter bool `json:"hasFilter"`
	// Root is the nearest ancestor that establishes the coordinate system,
	// nil when the element has no viewport-bearing ancestor.
	Root *ElementHandle `json:"root,omitempty"`
}

// RootGeometry bundles everything the viewport mapper needs about a root in
// one layout read: its rendered on-screen rectangle and its declared logical
// viewport, if any.
type RootGeometry struct {
	Rect    Box      `json:"rect"`
	ViewBox *ViewBox `json:"viewBox,omitempty"`
}

// -- Targeting Schemas --

// Target addresses an element to measure: either a selector string or a
// handle obtained from an earlier resolution.
type Target struct {
	Selector string        `json:"selector,omitempty"`
	Handle   ElementHandle `json:"handle"`
}

// TargetSelector builds a Target from a selector string.
func TargetSelector(sel string) Target { return Target{Selector: sel} }

// TargetHandle builds a Target from an existing element handle.
func TargetHandle(h ElementHandle) Target { return Target{Handle: h} }

// String renders the target for logs and error messages.
func (t Target) String() string {
	if t.Selector != "" {
		return t.Selector
	}
	if !t.Handle.IsZero() {
		return fmt.Sprintf("handle(%s)", t.Handle.Ref)
	}
	return "<empty target>"
}

// Resolution is the resolver's answer for one target. Element anchors overlay
// positioning, Root defines the coordinate system, and Measured is the node
// whose geometry is actually queried. Measured differs from Element only when
// the target is a reference-indirection instance, in which case OffsetX and
// OffsetY carry the instance's declared translation.
type Resolution struct {
	Element  ElementHandle `json:"element"`
	Root     ElementHandle `json:"root"`
	Measured ElementHandle `json:"measured"`
	OffsetX  float64       `json:"offsetX,omitempty"`
	OffsetY  float64       `json:"offsetY,omitempty"`
}

// Indirect reports whether the resolution went through an indirection
// element, i.e. the measured node is not the anchoring node.
func (r Resolution) Indirect() bool { return r.Measured != r.Element }

// -- Measurement Schemas --

// BoxSource tags which pass of the calculator produced a box.
type BoxSource string

const (
	// SourceFast means only the declared-geometry query ran.
	SourceFast BoxSource = "fast"
	// SourceCorrected means the rendered-geometry correction pass ran and its
	// result was unioned with the declared geometry.
	SourceCorrected BoxSource = "corrected"
)

// Measurement is the calculator's tagged result: the local-space box and the
// pass that produced it.
type Measurement struct {
	Box    Box       `json:"box"`
	Source BoxSource `json:"source"`
}

// -- Overlay Schemas --

// Theme selects the overlay border contrast strategy.
type Theme string

const (
	// ThemeAuto samples the effective background and picks a contrasting color.
	ThemeAuto Theme = "auto"
	// ThemeLight assumes a light background and uses the dark border color.
	ThemeLight Theme = "light"
	// ThemeDark assumes a dark background and uses the light border color.
	ThemeDark Theme = "dark"
)

// Valid reports whether the theme is one of the known values.
func (t Theme) Valid() bool {
	switch t {
	case ThemeAuto, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// DefaultPaddingPx is the symmetric screen-space padding applied around an
// overlay box when the caller does not specify one.
const DefaultPaddingPx = 4.0

// OverlayOptions controls how a marker is drawn. A negative Padding means
// "use the renderer's configured default"; zero is a legitimate explicit
// value.
type OverlayOptions struct {
	Theme       Theme   `json:"theme,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	Padding     float64 `json:"padding"`
}

// OverlayResult reports a successful Show call: the final screen-space box
// (padding included) and the handle of the single marker node inserted.
type OverlayResult struct {
	Box    Box           `json:"box"`
	Marker ElementHandle `json:"marker"`
}

// Marker describes one overlay node for the environment to insert. The ID is
// stored on the node's marker attribute so a later sweep can find it.
type Marker struct {
	ID          string  `json:"id"`
	Box         Box     `json:"box"`
	Color       string  `json:"color"`
	BorderWidth float64 `json:"borderWidth"`
}
