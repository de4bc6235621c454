// Package measure implements the measurement pipeline: font readiness
// gating, target resolution (including use-element indirection), two-pass
// bounding box calculation, and the facade that ties them to a live
// rendering environment.
package measure

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// FontGate delays measurement until the document's fonts have settled, so
// text metrics are final.
//
// The gate bounds its own wait and never fails a measurement because of it:
// when the budget expires, measurement proceeds with whatever metrics are
// current. Only cancellation of the caller's context aborts.
type FontGate struct {
	env     schemas.Environment
	timeout time.Duration
	logger  *zap.Logger
}

// NewFontGate creates a gate with the given wait budget. A zero or negative
// budget disables waiting entirely.
func NewFontGate(env schemas.Environment, timeout time.Duration, logger *zap.Logger) *FontGate {
	return &FontGate{
		env:     env,
		timeout: timeout,
		logger:  logger.Named("fontgate"),
	}
}

// Await blocks until fonts are ready, the budget expires, or ctx is done.
// Budget expiry is not an error.
func (g *FontGate) Await(ctx context.Context) error {
	if g.timeout <= 0 {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	err := g.env.AwaitFonts(waitCtx)
	if err == nil {
		return nil
	}
	// The caller going away is the one condition that propagates.
	if ctx.Err() != nil {
		return fmt.Errorf("font readiness wait: %w", ctx.Err())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		g.logger.Debug("Font readiness wait expired; measuring with current metrics.",
			zap.Duration("timeout", g.timeout))
		return nil
	}
	// The gate is best-effort accuracy, not a correctness guarantee. A broken
	// readiness probe downgrades to a warning; the measurement itself will
	// surface any real document failure.
	g.logger.Warn("Font readiness probe failed; measuring anyway.", zap.Error(err))
	return nil
}
