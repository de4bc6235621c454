package measure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/geometry"
)

// CorrectionPredicate decides whether an element's declared geometry is
// trustworthy or the rendered-geometry correction pass must run.
type CorrectionPredicate func(info *schemas.ElementInfo, declared schemas.Box) bool

// NeedsCorrection is the default predicate. Text metrics, stroke painting,
// and filter effects all render outside the declared geometry, and a
// degenerate declared box usually means the query failed to see the real
// extent.
func NeedsCorrection(info *schemas.ElementInfo, declared schemas.Box) bool {
	switch info.Tag {
	case "text", "tspan", "textPath":
		return true
	}
	return info.HasStroke || info.HasFilter || declared.IsDegenerate()
}

// Calculator produces local-space bounding boxes with the two-pass strategy:
// a cheap declared-geometry query first, then, when the predicate fires, a
// rendered-geometry pass whose result is unioned with the first so the box
// never shrinks below what the element declares.
type Calculator struct {
	env       schemas.Environment
	predicate CorrectionPredicate
	force     bool
	logger    *zap.Logger
}

// NewCalculator creates a calculator using the default correction predicate.
// When force is true the correction pass runs for every element.
func NewCalculator(env schemas.Environment, force bool, logger *zap.Logger) *Calculator {
	return &Calculator{
		env:       env,
		predicate: NeedsCorrection,
		force:     force,
		logger:    logger.Named("calculator"),
	}
}

// SetPredicate replaces the correction predicate. A nil predicate restores
// the default.
func (c *Calculator) SetPredicate(p CorrectionPredicate) {
	if p == nil {
		p = NeedsCorrection
	}
	c.predicate = p
}

// Measure computes the element's local-space bounding box.
func (c *Calculator) Measure(ctx context.Context, info *schemas.ElementInfo) (schemas.Measurement, error) {
	declared, err := c.env.DeclaredBox(ctx, info.Handle)
	if err != nil {
		return schemas.Measurement{}, fmt.Errorf("declared geometry of <%s>: %w", info.Tag, err)
	}
	declared = declared.In(schemas.SpaceLocal)

	if !c.force && !c.predicate(info, declared) {
		return schemas.Measurement{Box: declared, Source: schemas.SourceFast}, nil
	}

	corrected, err := c.correct(ctx, info, declared)
	if err != nil {
		return schemas.Measurement{}, err
	}
	return corrected, nil
}

// correct runs the rendered-geometry pass: take the on-screen rectangle,
// map it back into local coordinates through the inverse screen transform,
// and union it with the declared box.
func (c *Calculator) correct(ctx context.Context, info *schemas.ElementInfo, declared schemas.Box) (schemas.Measurement, error) {
	rect, err := c.env.ScreenRect(ctx, info.Handle)
	if err != nil {
		return schemas.Measurement{}, fmt.Errorf("rendered geometry of <%s>: %w", info.Tag, err)
	}
	matrix, err := c.env.ScreenMatrix(ctx, info.Handle)
	if err != nil {
		return schemas.Measurement{}, fmt.Errorf("screen transform of <%s>: %w", info.Tag, err)
	}

	inverse, err := geometry.Invert(matrix)
	if err != nil {
		// A non-invertible transform means the element is collapsed on screen
		// (scale 0 somewhere up the tree). The declared box is the only
		// geometry left to report.
		c.logger.Debug("Screen transform not invertible; keeping declared geometry.",
			zap.String("tag", info.Tag))
		return schemas.Measurement{Box: declared, Source: schemas.SourceFast}, nil
	}

	mapped := geometry.ProjectBox(inverse, rect).In(schemas.SpaceLocal)
	union, err := geometry.Union([]schemas.Box{declared, mapped})
	if err != nil {
		return schemas.Measurement{}, fmt.Errorf("merging measurement passes: %w", err)
	}

	return schemas.Measurement{Box: union, Source: schemas.SourceCorrected}, nil
}
