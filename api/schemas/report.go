package schemas

import "time"

// -- Report Schemas --

// TargetBox is one measured target in a report.
type TargetBox struct {
	Target string    `json:"target"`
	Source BoxSource `json:"source"`
	Local  Box       `json:"local"`
	Screen *Box      `json:"screen,omitempty"`
}

// MeasureReport is the result of measuring one input document. The aggregate
// fields are set only by the operations that produce them.
type MeasureReport struct {
	Input         string      `json:"input"`
	URL           string      `json:"url"`
	Timestamp     time.Time   `json:"timestamp"`
	Boxes         []TargetBox `json:"boxes,omitempty"`
	Union         *Box        `json:"union,omitempty"`
	FittedViewBox *ViewBox    `json:"fitted_view_box,omitempty"`
	Overlays      int         `json:"overlays,omitempty"`
	DurationMS    int64       `json:"duration_ms"`
	Error         string      `json:"error,omitempty"`
}
