package measure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/config"
	"github.com/xkilldash9x/svgscope-cli/internal/geometry"
)

// Result pairs a target with how it resolved and what it measured. The
// measurement box is local-space with any indirection offset already applied,
// so it is positioned in the coordinate system of Resolution.Root.
type Result struct {
	Target      schemas.Target
	Resolution  schemas.Resolution
	Measurement schemas.Measurement
}

// Measurer is the entry point of the pipeline. Every public operation passes
// the font readiness gate before touching geometry.
type Measurer struct {
	env      schemas.Environment
	gate     *FontGate
	resolver *Resolver
	calc     *Calculator
	logger   *zap.Logger
}

// New wires the pipeline against a rendering environment.
func New(env schemas.Environment, cfg config.MeasureConfig, logger *zap.Logger) *Measurer {
	logger = logger.Named("measure")
	return &Measurer{
		env:      env,
		gate:     NewFontGate(env, cfg.FontTimeout, logger),
		resolver: NewResolver(env, logger),
		calc:     NewCalculator(env, cfg.ForceCorrection, logger),
		logger:   logger,
	}
}

// MeasureTarget resolves and measures a single target.
func (m *Measurer) MeasureTarget(ctx context.Context, target schemas.Target) (*Result, error) {
	if err := m.gate.Await(ctx); err != nil {
		return nil, err
	}
	return m.measure(ctx, target)
}

// MeasureTargets resolves and measures each target in order, failing on the
// first target that cannot be measured. The gate is passed once for the whole
// batch.
func (m *Measurer) MeasureTargets(ctx context.Context, targets []schemas.Target) ([]*Result, error) {
	if err := m.gate.Await(ctx); err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(targets))
	for _, target := range targets {
		res, err := m.measure(ctx, target)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Union combines measured boxes into one enclosing local-space box. All
// results must share a coordinate root; boxes from different roots live in
// unrelated coordinate systems and cannot be combined.
func (m *Measurer) Union(results []*Result) (schemas.Box, error) {
	if len(results) == 0 {
		return schemas.Box{}, schemas.NewEmptyInputError("union")
	}

	root := results[0].Resolution.Root
	boxes := make([]schemas.Box, 0, len(results))
	for _, r := range results {
		if r.Resolution.Root != root {
			return schemas.Box{}, fmt.Errorf("union: targets %s and %s have different coordinate roots",
				results[0].Target, r.Target)
		}
		boxes = append(boxes, r.Measurement.Box)
	}
	return geometry.Union(boxes)
}

// MapToScreen converts a local-space box under the given root into on-screen
// pixels, padded by paddingPx on every side.
func (m *Measurer) MapToScreen(ctx context.Context, root schemas.ElementHandle, box schemas.Box, paddingPx float64) (schemas.Box, error) {
	if err := m.gate.Await(ctx); err != nil {
		return schemas.Box{}, err
	}

	rg, err := m.env.RootGeometry(ctx, root)
	if err != nil {
		return schemas.Box{}, fmt.Errorf("reading root geometry: %w", err)
	}
	return geometry.MapToScreen(box, *rg, paddingPx), nil
}

// FitToContent measures the targets and computes the logical viewport that
// tightly encloses them, padded by padding user units. All targets must share
// a coordinate root. The returned root handle identifies which element the
// viewport belongs on. Nothing is mutated; assigning the viewport is the
// caller's decision.
func (m *Measurer) FitToContent(ctx context.Context, targets []schemas.Target, padding float64) (schemas.ViewBox, schemas.ElementHandle, error) {
	results, err := m.MeasureTargets(ctx, targets)
	if err != nil {
		return schemas.ViewBox{}, schemas.ElementHandle{}, err
	}
	if len(results) == 0 {
		return schemas.ViewBox{}, schemas.ElementHandle{}, schemas.NewEmptyInputError("fit")
	}

	combined, err := m.Union(results)
	if err != nil {
		return schemas.ViewBox{}, schemas.ElementHandle{}, err
	}

	vb, err := geometry.FitViewport([]schemas.Box{combined}, padding)
	if err != nil {
		return schemas.ViewBox{}, schemas.ElementHandle{}, err
	}
	return vb, results[0].Resolution.Root, nil
}

// measure runs resolution and calculation for one target, assuming the gate
// has already been passed.
func (m *Measurer) measure(ctx context.Context, target schemas.Target) (*Result, error) {
	res, info, err := m.resolver.Resolve(ctx, target)
	if err != nil {
		return nil, err
	}

	meas, err := m.calc.Measure(ctx, info)
	if err != nil {
		return nil, fmt.Errorf("measuring %s: %w", target, err)
	}

	// An indirection instance positions the referenced geometry at its own
	// declared offset.
	meas.Box.X += res.OffsetX
	meas.Box.Y += res.OffsetY

	m.logger.Debug("Measured target.",
		zap.String("target", target.String()),
		zap.String("source", string(meas.Source)),
		zap.Bool("indirect", res.Indirect()),
		zap.Float64("width", meas.Box.Width),
		zap.Float64("height", meas.Box.Height))

	return &Result{
		Target:      target,
		Resolution:  *res,
		Measurement: meas,
	}, nil
}
