package schemas

import (
	"context"
)

// -- Environment Interface --

// Environment is the capability surface of a live rendering environment. The
// measurement pipeline never performs layout itself; every geometric fact
// comes from an Environment, injected explicitly so multiple independent
// documents (tabs, offscreen pages) can coexist without hidden coupling.
//
// Implementations must tolerate repeated calls with the same arguments; all
// operations except InsertMarker and RemoveMarkers are read-only queries over
// the live tree.
//
//go:generate mockery --name Environment --output ../../internal/mocks --outpkg mocks
type Environment interface {
	// Query finds the first element matching the selector and returns a
	// stable handle to it. A miss returns an error satisfying
	// errors.Is(err, ErrNoMatch).
	Query(ctx context.Context, selector string) (ElementHandle, error)
	// Inspect returns the structural facts about an element: tag name,
	// indirection attributes, stroke/filter flags, and its nearest
	// viewport-bearing ancestor (nil Root when none exists).
	Inspect(ctx context.Context, el ElementHandle) (*ElementInfo, error)
	// DeclaredBox returns the element's declared geometric bounding box in
	// its local coordinate space. Cheap, but blind to stroke width, filter
	// bleed, and late-loading text metrics.
	DeclaredBox(ctx context.Context, el ElementHandle) (Box, error)
	// ScreenRect returns the element's rendered on-screen rectangle in CSS
	// pixels, viewport-relative.
	ScreenRect(ctx context.Context, el ElementHandle) (Box, error)
	// ScreenMatrix returns the transform mapping the element's local
	// coordinates to screen coordinates.
	ScreenMatrix(ctx context.Context, el ElementHandle) (TransformMatrix, error)
	// RootGeometry returns the root's on-screen rectangle together with its
	// declared logical viewport (nil when absent), read in one pass so the
	// two cannot disagree across a relayout.
	RootGeometry(ctx context.Context, root ElementHandle) (*RootGeometry, error)
	// Style returns the effective computed values of the requested style
	// properties for the element.
	Style(ctx context.Context, el ElementHandle, props []string) (map[string]string, error)
	// AwaitFonts blocks until the document's fonts are loaded or the context
	// is done, returning the context's error in the latter case. Timeout
	// policy belongs to the caller.
	AwaitFonts(ctx context.Context) error
	// InsertMarker inserts one overlay marker node into the live tree and
	// returns its handle.
	InsertMarker(ctx context.Context, m Marker) (ElementHandle, error)
	// RemoveMarkers deletes every marker node this system ever inserted into
	// the document and returns how many were removed. Safe with zero markers
	// present.
	RemoveMarkers(ctx context.Context) (int, error)
}
