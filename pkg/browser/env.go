package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// fontPollInterval paces the font readiness probe so a slow document is not
// hammered with evaluations.
const fontPollInterval = 100 * time.Millisecond

// Evaluator runs a JavaScript expression in a live document and returns the
// JSON-encoded result.
type Evaluator interface {
	Evaluate(ctx context.Context, script string) (json.RawMessage, error)
}

var _ Evaluator = (*Session)(nil)

// Env implements schemas.Environment on top of a browser session. It owns no
// document state of its own; every geometric fact is read live through the
// evaluator.
type Env struct {
	runner  Evaluator
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ schemas.Environment = (*Env)(nil)

// NewEnv wraps a session in the Environment capability surface.
func NewEnv(runner Evaluator, logger *zap.Logger) *Env {
	return &Env{
		runner:  runner,
		limiter: rate.NewLimiter(rate.Every(fontPollInterval), 1),
		logger:  logger.Named("env"),
	}
}

// scriptFailure is the shape scripts use to report failures the document can
// explain. The key is deliberately obscure so it cannot collide with real
// payload fields (style property names are caller-controlled).
type scriptFailure struct {
	Error string `json:"svgscopeError"`
}

// boxPayload mirrors the {x, y, width, height} objects the scripts return.
type boxPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b boxPayload) box(space schemas.Space) schemas.Box {
	return schemas.Box{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Space: space}
}

// eval runs a script and decodes its result into out. A null result maps to
// schemas.ErrNoMatch; an svgscopeError payload becomes a plain error.
func (e *Env) eval(ctx context.Context, script string, out interface{}) error {
	res, err := e.runner.Evaluate(ctx, script)
	if err != nil {
		return err
	}
	if len(res) == 0 || string(res) == "null" {
		return schemas.ErrNoMatch
	}

	var failure scriptFailure
	if err := json.Unmarshal(res, &failure); err == nil && failure.Error != "" {
		return errors.New(failure.Error)
	}

	if err := json.Unmarshal(res, out); err != nil {
		return fmt.Errorf("decoding evaluation result: %w (payload: %s)", err, string(res))
	}
	return nil
}

// Query finds the first element matching the selector, tags it with a stable
// ref attribute, and returns its handle. Repeated queries for the same node
// return the same handle.
func (e *Env) Query(ctx context.Context, selector string) (schemas.ElementHandle, error) {
	script := fmt.Sprintf(jsQuery, jsonEncode(selector), jsonEncode(uuid.NewString()))

	var payload struct {
		Ref string `json:"ref"`
	}
	if err := e.eval(ctx, script, &payload); err != nil {
		if errors.Is(err, schemas.ErrNoMatch) {
			return schemas.ElementHandle{}, fmt.Errorf("no element matches %q: %w", selector, schemas.ErrNoMatch)
		}
		return schemas.ElementHandle{}, fmt.Errorf("querying %q: %w", selector, err)
	}

	e.logger.Debug("Element resolved.", zap.String("selector", selector), zap.String("ref", payload.Ref))
	return schemas.ElementHandle{Ref: payload.Ref}, nil
}

// Inspect returns the structural facts about an element. The element's
// nearest viewport-bearing ancestor is tagged on demand so the returned root
// is itself a usable handle.
func (e *Env) Inspect(ctx context.Context, el schemas.ElementHandle) (*schemas.ElementInfo, error) {
	script := fmt.Sprintf(jsInspect, jsonEncode(el.Ref), jsonEncode(uuid.NewString()))

	var payload struct {
		Tag       string  `json:"tag"`
		Href      string  `json:"href"`
		X         float64 `json:"x"`
		Y         float64 `json:"y"`
		HasStroke bool    `json:"hasStroke"`
		HasFilter bool    `json:"hasFilter"`
		Root      string  `json:"root"`
	}
	if err := e.eval(ctx, script, &payload); err != nil {
		if errors.Is(err, schemas.ErrNoMatch) {
			return nil, fmt.Errorf("handle %s resolves to nothing: %w", el.Ref, schemas.ErrNoMatch)
		}
		return nil, fmt.Errorf("inspecting %s: %w", el.Ref, err)
	}

	info := &schemas.ElementInfo{
		Handle:    el,
		Tag:       payload.Tag,
		Href:      payload.Href,
		X:         payload.X,
		Y:         payload.Y,
		HasStroke: payload.HasStroke,
		HasFilter: payload.HasFilter,
	}
	if payload.Root != "" {
		info.Root = &schemas.ElementHandle{Ref: payload.Root}
	}
	return info, nil
}

// DeclaredBox returns the element's declared geometry in its local space.
func (e *Env) DeclaredBox(ctx context.Context, el schemas.ElementHandle) (schemas.Box, error) {
	script := fmt.Sprintf(jsDeclaredBox, jsonEncode(el.Ref))

	var payload boxPayload
	if err := e.eval(ctx, script, &payload); err != nil {
		return schemas.Box{}, fmt.Errorf("reading declared geometry of %s: %w", el.Ref, err)
	}
	return payload.box(schemas.SpaceLocal), nil
}

// ScreenRect returns the element's rendered on-screen rectangle.
func (e *Env) ScreenRect(ctx context.Context, el schemas.ElementHandle) (schemas.Box, error) {
	script := fmt.Sprintf(jsScreenRect, jsonEncode(el.Ref))

	var payload boxPayload
	if err := e.eval(ctx, script, &payload); err != nil {
		return schemas.Box{}, fmt.Errorf("reading rendered geometry of %s: %w", el.Ref, err)
	}
	return payload.box(schemas.SpaceScreen), nil
}

// ScreenMatrix returns the transform mapping local coordinates to screen
// coordinates.
func (e *Env) ScreenMatrix(ctx context.Context, el schemas.ElementHandle) (schemas.TransformMatrix, error) {
	script := fmt.Sprintf(jsScreenMatrix, jsonEncode(el.Ref))

	var m schemas.TransformMatrix
	if err := e.eval(ctx, script, &m); err != nil {
		return schemas.TransformMatrix{}, fmt.Errorf("reading screen transform of %s: %w", el.Ref, err)
	}
	return m, nil
}

// RootGeometry returns the root's screen rectangle and declared viewport in
// one layout read.
func (e *Env) RootGeometry(ctx context.Context, root schemas.ElementHandle) (*schemas.RootGeometry, error) {
	script := fmt.Sprintf(jsRootGeometry, jsonEncode(root.Ref))

	var payload struct {
		Rect    boxPayload `json:"rect"`
		ViewBox *struct {
			MinX   float64 `json:"minX"`
			MinY   float64 `json:"minY"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
		} `json:"viewBox"`
	}
	if err := e.eval(ctx, script, &payload); err != nil {
		return nil, fmt.Errorf("reading root geometry of %s: %w", root.Ref, err)
	}

	geo := &schemas.RootGeometry{Rect: payload.Rect.box(schemas.SpaceScreen)}
	if payload.ViewBox != nil {
		geo.ViewBox = &schemas.ViewBox{
			MinX:   payload.ViewBox.MinX,
			MinY:   payload.ViewBox.MinY,
			Width:  payload.ViewBox.Width,
			Height: payload.ViewBox.Height,
		}
	}
	return geo, nil
}

// Style returns effective computed style values for the requested properties.
func (e *Env) Style(ctx context.Context, el schemas.ElementHandle, props []string) (map[string]string, error) {
	script := fmt.Sprintf(jsStyle, jsonEncode(el.Ref), jsonEncode(props))

	out := make(map[string]string, len(props))
	if err := e.eval(ctx, script, &out); err != nil {
		return nil, fmt.Errorf("reading style of %s: %w", el.Ref, err)
	}
	return out, nil
}

// AwaitFonts blocks until the document reports its fonts loaded or the
// context is done. Timeout policy belongs to the caller.
func (e *Env) AwaitFonts(ctx context.Context) error {
	for {
		if err := e.limiter.Wait(ctx); err != nil {
			if ctx.Err() == nil {
				// The limiter rejects waits that cannot finish before the
				// deadline. Hold until the context is actually done.
				<-ctx.Done()
			}
			return ctx.Err()
		}

		var status string
		if err := e.eval(ctx, jsFontsStatus, &status); err != nil {
			return fmt.Errorf("probing font status: %w", err)
		}
		if status == "loaded" {
			return nil
		}
	}
}

// InsertMarker inserts one overlay marker node and returns its handle.
func (e *Env) InsertMarker(ctx context.Context, m schemas.Marker) (schemas.ElementHandle, error) {
	payload := struct {
		ID          string     `json:"id"`
		Box         boxPayload `json:"box"`
		Color       string     `json:"color"`
		BorderWidth float64    `json:"borderWidth"`
	}{
		ID:          m.ID,
		Box:         boxPayload{X: m.Box.X, Y: m.Box.Y, Width: m.Box.Width, Height: m.Box.Height},
		Color:       m.Color,
		BorderWidth: m.BorderWidth,
	}
	script := fmt.Sprintf(jsInsertMarker, jsonEncode(payload))

	var id string
	if err := e.eval(ctx, script, &id); err != nil {
		return schemas.ElementHandle{}, fmt.Errorf("inserting marker %s: %w", m.ID, err)
	}
	return schemas.ElementHandle{Ref: id}, nil
}

// RemoveMarkers deletes every overlay marker in the document and returns how
// many were removed.
func (e *Env) RemoveMarkers(ctx context.Context) (int, error) {
	var count int
	if err := e.eval(ctx, jsRemoveMarkers, &count); err != nil {
		return 0, fmt.Errorf("removing markers: %w", err)
	}
	return count, nil
}

// jsonEncode safely encodes a value for injection into a script.
func jsonEncode(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
