// Package mocks holds shared testify mocks for the capability interfaces in
// api/schemas, used by the measure, overlay, and cmd test suites.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// -- Environment Mock --

// MockEnvironment mocks schemas.Environment.
type MockEnvironment struct {
	mock.Mock
}

// Query mocks selector lookup.
func (m *MockEnvironment) Query(ctx context.Context, selector string) (schemas.ElementHandle, error) {
	args := m.Called(ctx, selector)
	if args.Get(0) == nil {
		return schemas.ElementHandle{}, args.Error(1)
	}
	return args.Get(0).(schemas.ElementHandle), args.Error(1)
}

// Inspect mocks structural inspection.
func (m *MockEnvironment) Inspect(ctx context.Context, el schemas.ElementHandle) (*schemas.ElementInfo, error) {
	args := m.Called(ctx, el)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.ElementInfo), args.Error(1)
}

// DeclaredBox mocks the declared-geometry query.
func (m *MockEnvironment) DeclaredBox(ctx context.Context, el schemas.ElementHandle) (schemas.Box, error) {
	args := m.Called(ctx, el)
	if args.Get(0) == nil {
		return schemas.Box{}, args.Error(1)
	}
	return args.Get(0).(schemas.Box), args.Error(1)
}

// ScreenRect mocks the rendered-rectangle query.
func (m *MockEnvironment) ScreenRect(ctx context.Context, el schemas.ElementHandle) (schemas.Box, error) {
	args := m.Called(ctx, el)
	if args.Get(0) == nil {
		return schemas.Box{}, args.Error(1)
	}
	return args.Get(0).(schemas.Box), args.Error(1)
}

// ScreenMatrix mocks the local-to-screen transform query.
func (m *MockEnvironment) ScreenMatrix(ctx context.Context, el schemas.ElementHandle) (schemas.TransformMatrix, error) {
	args := m.Called(ctx, el)
	if args.Get(0) == nil {
		return schemas.TransformMatrix{}, args.Error(1)
	}
	return args.Get(0).(schemas.TransformMatrix), args.Error(1)
}

// RootGeometry mocks the combined root rect and viewBox read.
func (m *MockEnvironment) RootGeometry(ctx context.Context, root schemas.ElementHandle) (*schemas.RootGeometry, error) {
	args := m.Called(ctx, root)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.RootGeometry), args.Error(1)
}

// Style mocks the computed-style query.
func (m *MockEnvironment) Style(ctx context.Context, el schemas.ElementHandle, props []string) (map[string]string, error) {
	args := m.Called(ctx, el, props)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// AwaitFonts mocks the font readiness wait.
func (m *MockEnvironment) AwaitFonts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// InsertMarker mocks overlay node insertion.
func (m *MockEnvironment) InsertMarker(ctx context.Context, marker schemas.Marker) (schemas.ElementHandle, error) {
	args := m.Called(ctx, marker)
	if args.Get(0) == nil {
		return schemas.ElementHandle{}, args.Error(1)
	}
	return args.Get(0).(schemas.ElementHandle), args.Error(1)
}

// RemoveMarkers mocks the marker sweep.
func (m *MockEnvironment) RemoveMarkers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
