package measure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// Resolver turns a Target into a Resolution: the anchoring element, its
// coordinate root, and the node whose geometry actually gets measured.
//
// Reference-indirection instances (use elements) are followed one hop: the
// referenced definition is measured and the instance's declared x/y offset is
// recorded on the resolution. A dangling reference degrades to measuring the
// instance itself.
type Resolver struct {
	env    schemas.Environment
	logger *zap.Logger
}

// NewResolver creates a resolver bound to a rendering environment.
func NewResolver(env schemas.Environment, logger *zap.Logger) *Resolver {
	return &Resolver{
		env:    env,
		logger: logger.Named("resolver"),
	}
}

// Resolve locates the target and decides what to measure. The returned
// ElementInfo describes the measured node, so callers can feed it straight to
// the calculator without a second inspection.
func (r *Resolver) Resolve(ctx context.Context, target schemas.Target) (*schemas.Resolution, *schemas.ElementInfo, error) {
	handle, err := r.locate(ctx, target)
	if err != nil {
		return nil, nil, err
	}

	info, err := r.env.Inspect(ctx, handle)
	if err != nil {
		if errors.Is(err, schemas.ErrNoMatch) {
			// A handle that no longer resolves is a stale reference; to the
			// caller that is the same as a selector matching nothing.
			return nil, nil, schemas.NewTargetNotFoundError(target.String())
		}
		return nil, nil, fmt.Errorf("inspecting %s: %w", target, err)
	}

	if info.Root == nil {
		return nil, nil, schemas.NewNoCoordinateRootError(target.String())
	}

	res := &schemas.Resolution{
		Element:  handle,
		Root:     *info.Root,
		Measured: handle,
	}

	measured := info
	if isIndirection(info) {
		refInfo := r.followReference(ctx, target, info)
		if refInfo != nil {
			res.Measured = refInfo.Handle
			res.OffsetX = info.X
			res.OffsetY = info.Y
			measured = refInfo
		}
	}

	return res, measured, nil
}

// locate obtains a live handle for the target, querying when it carries a
// selector and validating when it carries a handle.
func (r *Resolver) locate(ctx context.Context, target schemas.Target) (schemas.ElementHandle, error) {
	if !target.Handle.IsZero() {
		return target.Handle, nil
	}
	if target.Selector == "" {
		return schemas.ElementHandle{}, schemas.NewTargetNotFoundError(target.String())
	}

	handle, err := r.env.Query(ctx, target.Selector)
	if err != nil {
		if errors.Is(err, schemas.ErrNoMatch) {
			return schemas.ElementHandle{}, schemas.NewTargetNotFoundError(target.String())
		}
		return schemas.ElementHandle{}, fmt.Errorf("querying %s: %w", target, err)
	}
	return handle, nil
}

// followReference resolves a use element's href to the referenced definition.
// It returns nil when the reference cannot be followed, in which case the
// instance itself is measured.
func (r *Resolver) followReference(ctx context.Context, target schemas.Target, info *schemas.ElementInfo) *schemas.ElementInfo {
	frag, ok := fragmentOf(info.Href)
	if !ok {
		r.logger.Debug("Reference is not a local fragment; measuring the instance itself.",
			zap.String("target", target.String()),
			zap.String("href", info.Href))
		return nil
	}

	refHandle, err := r.env.Query(ctx, fmt.Sprintf("[id=%q]", frag))
	if err != nil {
		if errors.Is(err, schemas.ErrNoMatch) {
			r.logger.Debug("Dangling reference; measuring the instance itself.",
				zap.String("target", target.String()),
				zap.String("href", info.Href))
			return nil
		}
		r.logger.Debug("Reference lookup failed; measuring the instance itself.",
			zap.String("target", target.String()),
			zap.Error(err))
		return nil
	}

	refInfo, err := r.env.Inspect(ctx, refHandle)
	if err != nil {
		r.logger.Debug("Referenced element vanished; measuring the instance itself.",
			zap.String("target", target.String()),
			zap.Error(err))
		return nil
	}
	return refInfo
}

// isIndirection reports whether the element instances other geometry via a
// reference.
func isIndirection(info *schemas.ElementInfo) bool {
	return info.Tag == "use" && info.Href != ""
}

// fragmentOf extracts the id from a same-document reference like "#icon".
// References to other documents are out of scope.
func fragmentOf(href string) (string, bool) {
	frag, found := strings.CutPrefix(strings.TrimSpace(href), "#")
	if !found || frag == "" {
		return "", false
	}
	return frag, true
}
