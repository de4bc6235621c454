// Package overlay draws and removes visual box markers in the live document.
// A marker is a screen-space node with a dashed border; it never intercepts
// pointer events and is tracked only through its marker attribute, so removal
// is a stateless sweep.
package overlay

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/config"
	"github.com/xkilldash9x/svgscope-cli/internal/measure"
)

// Renderer shows measured boxes as overlay markers.
type Renderer struct {
	env    schemas.Environment
	meas   *measure.Measurer
	cfg    config.OverlayConfig
	logger *zap.Logger
}

// NewRenderer wires a renderer to a rendering environment and the measurement
// pipeline that feeds it.
func NewRenderer(env schemas.Environment, meas *measure.Measurer, cfg config.OverlayConfig, logger *zap.Logger) *Renderer {
	return &Renderer{
		env:    env,
		meas:   meas,
		cfg:    cfg,
		logger: logger.Named("overlay"),
	}
}

// Show measures the target and inserts exactly one marker node sized to the
// mapped screen box. The returned result carries the final box, padding
// included, and the marker's handle.
func (r *Renderer) Show(ctx context.Context, target schemas.Target, opts schemas.OverlayOptions) (*schemas.OverlayResult, error) {
	res, err := r.meas.MeasureTarget(ctx, target)
	if err != nil {
		return nil, err
	}

	padding := opts.Padding
	if padding < 0 {
		padding = r.cfg.PaddingPx
	}

	screenBox, err := r.meas.MapToScreen(ctx, res.Resolution.Root, res.Measurement.Box, padding)
	if err != nil {
		return nil, err
	}

	marker := schemas.Marker{
		ID:          uuid.NewString(),
		Box:         screenBox,
		Color:       r.pickColor(ctx, opts, res.Resolution.Root),
		BorderWidth: r.cfg.BorderWidth,
	}

	handle, err := r.env.InsertMarker(ctx, marker)
	if err != nil {
		return nil, fmt.Errorf("inserting overlay marker: %w", err)
	}

	r.logger.Debug("Overlay shown.",
		zap.String("target", target.String()),
		zap.String("marker", marker.ID),
		zap.String("color", marker.Color),
		zap.Float64("padding", padding))

	return &schemas.OverlayResult{Box: screenBox, Marker: handle}, nil
}

// RemoveAll sweeps every marker this system ever inserted out of the document
// and reports how many were removed. Removing zero markers is not an error.
func (r *Renderer) RemoveAll(ctx context.Context) (int, error) {
	count, err := r.env.RemoveMarkers(ctx)
	if err != nil {
		return 0, fmt.Errorf("removing overlay markers: %w", err)
	}
	if count > 0 {
		r.logger.Debug("Overlays removed.", zap.Int("count", count))
	}
	return count, nil
}

// pickColor applies the override chain: an explicit border color wins (call
// option, then config), then a forced theme, then background sampling.
func (r *Renderer) pickColor(ctx context.Context, opts schemas.OverlayOptions, root schemas.ElementHandle) string {
	if opts.BorderColor != "" {
		return opts.BorderColor
	}
	if r.cfg.BorderColor != "" {
		return r.cfg.BorderColor
	}

	theme := opts.Theme
	if theme == "" {
		theme = schemas.Theme(r.cfg.Theme)
	}
	if theme == "" || theme == schemas.ThemeAuto {
		theme = r.sampleBackground(ctx, root)
	}
	return borderColorFor(theme)
}

// sampleBackground classifies the effective background behind the root as
// light or dark. Anything unreadable counts as light, which yields the more
// visible dark border on the common white page.
func (r *Renderer) sampleBackground(ctx context.Context, root schemas.ElementHandle) schemas.Theme {
	styles, err := r.env.Style(ctx, root, []string{"background-color"})
	if err != nil {
		r.logger.Debug("Background sampling failed; assuming a light background.", zap.Error(err))
		return schemas.ThemeLight
	}

	lum, ok := RelativeLuminance(styles["background-color"])
	if !ok {
		return schemas.ThemeLight
	}
	if lum < 0.5 {
		return schemas.ThemeDark
	}
	return schemas.ThemeLight
}
