package schemas

import (
	"errors"
	"fmt"
)

// Typed errors for the measurement pipeline. Consumers classify failures with
// errors.As instead of string matching; everything else is wrapped transport
// or environment failure.

// ErrNoMatch is returned (wrapped) by Environment.Query when a selector
// matches nothing. Resolvers translate it into a TargetNotFoundError carrying
// the original target text.
var ErrNoMatch = errors.New("no matching element")

// TargetNotFoundError reports a target whose selector or handle resolves to
// no element in the live document.
type TargetNotFoundError struct {
	Target string
}

// Error implements the error interface.
func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("target not found: %q", e.Target)
}

// NewTargetNotFoundError creates a TargetNotFoundError for the given target.
func NewTargetNotFoundError(target string) *TargetNotFoundError {
	return &TargetNotFoundError{Target: target}
}

// NoCoordinateRootError reports an element with no viewport-bearing ancestor,
// leaving it without a coordinate system to measure or map in.
type NoCoordinateRootError struct {
	Target string
}

// Error implements the error interface.
func (e *NoCoordinateRootError) Error() string {
	return fmt.Sprintf("no coordinate root: %q has no viewport-bearing ancestor", e.Target)
}

// NewNoCoordinateRootError creates a NoCoordinateRootError for the given target.
func NewNoCoordinateRootError(target string) *NoCoordinateRootError {
	return &NoCoordinateRootError{Target: target}
}

// EmptyInputError reports an aggregate operation (union, fit) invoked with
// zero inputs.
type EmptyInputError struct {
	Op string
}

// Error implements the error interface.
func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input", e.Op)
}

// NewEmptyInputError creates an EmptyInputError for the given operation name.
func NewEmptyInputError(op string) *EmptyInputError {
	return &EmptyInputError{Op: op}
}
