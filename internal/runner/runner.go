// Package runner fans a batch of input documents out over a bounded worker
// group and collects one report per input, in input order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
)

// ErrInputFailed marks a batch in which at least one input produced an error
// report. The remaining reports are still valid.
var ErrInputFailed = errors.New("one or more inputs failed")

// Input pairs a raw command-line argument with the URL the browser loads.
type Input struct {
	Raw string
	URL string
	// Path is the local filesystem path behind the URL, empty for http(s)
	// inputs. Commands that rewrite files in place require it.
	Path string
}

// Job measures one resolved input and returns its report. Jobs run
// concurrently; each call owns whatever session it opens.
type Job func(ctx context.Context, in Input) (schemas.MeasureReport, error)

// Runner executes a job across many inputs with bounded concurrency.
type Runner struct {
	concurrency int
	logger      *zap.Logger
}

// New creates a runner that keeps at most concurrency jobs in flight.
func New(concurrency int, logger *zap.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		concurrency: concurrency,
		logger:      logger.Named("runner"),
	}
}

// Run resolves each raw input and executes job for it. Per-input failures are
// recorded in that report's Error field and do not stop the rest of the
// batch; Run then returns an error wrapping ErrInputFailed. Cancellation of
// ctx stops the batch and returns the context's error. Reports come back in
// the same order as the inputs, each stamped with its wall-clock duration.
func (r *Runner) Run(ctx context.Context, rawInputs []string, job Job) ([]schemas.MeasureReport, error) {
	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	reports := make([]schemas.MeasureReport, len(rawInputs))
	for i, raw := range rawInputs {
		g.Go(func() error {
			start := time.Now()
			rep, err := r.runOne(groupCtx, raw, job)
			rep.DurationMS = time.Since(start).Milliseconds()
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				r.logger.Warn("Input failed", zap.String("input", raw), zap.Error(err))
				rep.Error = err.Error()
			}
			reports[i] = rep
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}

	failed := 0
	for _, rep := range reports {
		if rep.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return reports, fmt.Errorf("%d of %d inputs failed: %w", failed, len(rawInputs), ErrInputFailed)
	}
	return reports, nil
}

func (r *Runner) runOne(ctx context.Context, raw string, job Job) (schemas.MeasureReport, error) {
	rep := schemas.MeasureReport{Input: raw, Timestamp: time.Now()}

	in, err := Resolve(raw)
	if err != nil {
		return rep, err
	}
	rep.URL = in.URL

	r.logger.Debug("Measuring input", zap.String("input", raw), zap.String("url", in.URL))
	out, err := job(ctx, in)
	if err != nil {
		return rep, err
	}

	out.Input = raw
	out.URL = in.URL
	out.Timestamp = rep.Timestamp
	return out, nil
}

// Resolve turns a command-line input into a navigable URL. Arguments with an
// http, https, or file scheme pass through; anything else must name an
// existing local file, which is served by absolute file:// URL.
func Resolve(raw string) (Input, error) {
	if u, err := url.Parse(raw); err == nil {
		switch u.Scheme {
		case "http", "https":
			return Input{Raw: raw, URL: raw}, nil
		case "file":
			return Input{Raw: raw, URL: raw, Path: u.Path}, nil
		}
	}

	abs, err := filepath.Abs(raw)
	if err != nil {
		return Input{}, fmt.Errorf("resolving %s: %w", raw, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return Input{}, fmt.Errorf("input %s: %w", raw, err)
	}
	u := &url.URL{Scheme: "file", Path: abs}
	return Input{Raw: raw, URL: u.String(), Path: abs}, nil
}
