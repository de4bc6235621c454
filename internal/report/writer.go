// Package report renders measurement results for the command line, either as
// machine-readable JSON or as an indented human-readable listing.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/observability"
)

// Format selects the output rendering.
type Format string

const (
	// FormatJSON emits the collected reports as one JSON array on Close.
	FormatJSON Format = "json"
	// FormatPretty emits an indented text block per report as it arrives.
	FormatPretty Format = "pretty"
)

// Writer renders measure reports to an output stream. Implementations are
// safe for concurrent Write calls.
type Writer interface {
	// Write records or renders a single report.
	Write(rep schemas.MeasureReport) error
	// Close finalizes the output and releases the underlying stream.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error { return nil }

// New creates a writer for the given format. An empty or "stdout" outputPath
// writes to standard output; anything else creates (or truncates) a file.
// The returned writer takes ownership of the stream.
func New(format Format, outputPath string) (Writer, error) {
	var writer io.WriteCloser
	if outputPath == "" || outputPath == "stdout" {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case FormatJSON:
		return NewJSONWriter(writer), nil
	case FormatPretty:
		return NewPrettyWriter(writer), nil
	default:
		writer.Close()
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// JSONWriter buffers reports and emits them as a single indented JSON array
// when closed. The array shape is stable regardless of how many inputs ran.
type JSONWriter struct {
	writer  io.WriteCloser
	logger  *zap.Logger
	mu      sync.Mutex
	reports []schemas.MeasureReport
}

// NewJSONWriter creates a reporter that writes a JSON array. It takes
// ownership of the writer.
func NewJSONWriter(writer io.WriteCloser) *JSONWriter {
	return &JSONWriter{
		writer:  writer,
		logger:  observability.GetLogger().Named("report"),
		reports: []schemas.MeasureReport{},
	}
}

// Write appends one report to the pending array.
func (w *JSONWriter) Write(rep schemas.MeasureReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports = append(w.reports, rep)
	return nil
}

// Close encodes the collected reports and closes the output stream.
func (w *JSONWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	encoder := json.NewEncoder(w.writer)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(w.reports)
	closeErr := w.writer.Close()

	if encodeErr != nil {
		w.logger.Error("Failed to encode report output", zap.Error(encodeErr))
		return fmt.Errorf("failed to encode report output: %w", encodeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output writer: %w", closeErr)
	}

	w.logger.Debug("Wrote report output", zap.Int("report_count", len(w.reports)))
	return nil
}

// PrettyWriter renders each report as an indented text block the moment it
// arrives, so long batch runs show progress.
type PrettyWriter struct {
	writer io.WriteCloser
	mu     sync.Mutex
}

// NewPrettyWriter creates a human-readable reporter. It takes ownership of
// the writer.
func NewPrettyWriter(writer io.WriteCloser) *PrettyWriter {
	return &PrettyWriter{writer: writer}
}

// Write renders one report.
func (w *PrettyWriter) Write(rep schemas.MeasureReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  (%s)  %dms\n", rep.Input, rep.URL, rep.DurationMS)

	if rep.Error != "" {
		fmt.Fprintf(&sb, "  error: %s\n", rep.Error)
	}
	for _, tb := range rep.Boxes {
		fmt.Fprintf(&sb, "  %s  [%s]\n", tb.Target, tb.Source)
		writeBox(&sb, "local ", tb.Local)
		if tb.Screen != nil {
			writeBox(&sb, "screen", *tb.Screen)
		}
	}
	if rep.Union != nil {
		sb.WriteString("  union\n")
		writeBox(&sb, "local ", *rep.Union)
	}
	if rep.FittedViewBox != nil {
		vb := rep.FittedViewBox
		fmt.Fprintf(&sb, "  fitted viewBox: %g %g %g %g\n", vb.MinX, vb.MinY, vb.Width, vb.Height)
	}
	if rep.Overlays > 0 {
		fmt.Fprintf(&sb, "  overlays inserted: %d\n", rep.Overlays)
	}

	if _, err := io.WriteString(w.writer, sb.String()); err != nil {
		return fmt.Errorf("failed to write report output: %w", err)
	}
	return nil
}

// Close releases the output stream.
func (w *PrettyWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("failed to close output writer: %w", err)
	}
	return nil
}

func writeBox(sb *strings.Builder, label string, box schemas.Box) {
	fmt.Fprintf(sb, "    %s  x=%g y=%g width=%g height=%g\n", label, box.X, box.Y, box.Width, box.Height)
}
