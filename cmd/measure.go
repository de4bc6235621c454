package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/config"
	"github.com/xkilldash9x/svgscope-cli/internal/measure"
	"github.com/xkilldash9x/svgscope-cli/internal/observability"
	"github.com/xkilldash9x/svgscope-cli/internal/report"
	"github.com/xkilldash9x/svgscope-cli/internal/runner"
	"github.com/xkilldash9x/svgscope-cli/pkg/browser"
)

// defaultSelector measures the first svg element when no --target is given.
const defaultSelector = "svg"

// newMeasureCmd creates the `measure` command.
func newMeasureCmd(state *rootState) *cobra.Command {
	measureCmd := &cobra.Command{
		Use:   "measure [inputs...]",
		Short: "Measures the rendered bounding boxes of elements in one or more documents",
		Long: `Measure loads each input (a .svg or .html file, or a URL) in a browser tab,
measures every --target selector, and reports the boxes in local user units.
With --screen each box is also projected to on-screen pixels; with --union
the enclosing box over all targets is reported as well.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind override flags to their viper keys so command-line values
			// win over config file and environment.
			return state.v.BindPFlag("browser.concurrency", cmd.Flags().Lookup("concurrency"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := state.reload()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			selectors, err := flags.GetStringArray("target")
			if err != nil {
				return err
			}
			if len(selectors) == 0 {
				selectors = []string{defaultSelector}
			}
			withUnion, _ := flags.GetBool("union")
			withScreen, _ := flags.GetBool("screen")
			paddingPx, _ := flags.GetFloat64("padding")
			asJSON, _ := flags.GetBool("json")
			outputPath, _ := flags.GetString("output")

			format := report.FormatPretty
			if asJSON {
				format = report.FormatJSON
			}

			logger.Info("Starting measurement run",
				zap.Int("inputs", len(args)),
				zap.Strings("targets", selectors),
				zap.Int("concurrency", cfg.Browser.Concurrency))

			mgr, err := browser.NewManager(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer func() {
				if err := mgr.Shutdown(ctx); err != nil {
					logger.Warn("Browser shutdown reported an error", zap.Error(err))
				}
			}()

			batch := runner.New(cfg.Browser.Concurrency, logger)
			job := measureJob(mgr, cfg, selectors, withUnion, withScreen, paddingPx, logger)
			reports, runErr := batch.Run(ctx, args, job)
			if runErr != nil && !isPartialFailure(runErr) {
				return runErr
			}

			writer, err := report.New(format, outputPath)
			if err != nil {
				return err
			}
			writeErr := writeReports(writer, reports)
			closeErr := writer.Close()
			if writeErr != nil {
				return writeErr
			}
			if closeErr != nil {
				return closeErr
			}
			return runErr
		},
	}

	measureCmd.Flags().StringArrayP("target", "t", nil, "CSS selector of an element to measure (repeatable; default: the first svg element)")
	measureCmd.Flags().Bool("union", false, "also report the union box over all targets")
	measureCmd.Flags().Bool("screen", false, "also report each box projected to on-screen pixels")
	measureCmd.Flags().Float64("padding", 0, "screen-space padding in pixels applied to --screen boxes")
	measureCmd.Flags().Bool("json", false, "emit the report as a JSON array")
	measureCmd.Flags().Bool("pretty", false, "emit a human-readable report (the default)")
	measureCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	measureCmd.Flags().IntP("concurrency", "j", 0, "number of documents measured in parallel (overrides config/env)")
	measureCmd.MarkFlagsMutuallyExclusive("json", "pretty")

	return measureCmd
}

// measureJob builds the per-input job handed to the batch runner. Each call
// owns one browser session for the lifetime of the measurement.
func measureJob(mgr *browser.Manager, cfg *config.Config, selectors []string, withUnion, withScreen bool, paddingPx float64, logger *zap.Logger) runner.Job {
	return func(ctx context.Context, in runner.Input) (schemas.MeasureReport, error) {
		var rep schemas.MeasureReport

		sess, err := mgr.NewSession(ctx)
		if err != nil {
			return rep, fmt.Errorf("opening session: %w", err)
		}
		defer func() {
			if err := sess.Close(ctx); err != nil {
				logger.Warn("Session close reported an error", zap.Error(err))
			}
		}()

		if err := sess.Navigate(ctx, in.URL); err != nil {
			return rep, err
		}

		env := browser.NewEnv(sess, logger)
		meas := measure.New(env, cfg.Measure, logger)

		targets := make([]schemas.Target, len(selectors))
		for i, sel := range selectors {
			targets[i] = schemas.TargetSelector(sel)
		}

		results, err := meas.MeasureTargets(ctx, targets)
		if err != nil {
			return rep, err
		}

		for _, res := range results {
			tb := schemas.TargetBox{
				Target: res.Target.String(),
				Source: res.Measurement.Source,
				Local:  res.Measurement.Box,
			}
			if withScreen {
				screen, err := meas.MapToScreen(ctx, res.Resolution.Root, res.Measurement.Box, paddingPx)
				if err != nil {
					return rep, err
				}
				tb.Screen = &screen
			}
			rep.Boxes = append(rep.Boxes, tb)
		}

		if withUnion {
			union, err := meas.Union(results)
			if err != nil {
				return rep, err
			}
			rep.Union = &union
		}
		return rep, nil
	}
}

// writeReports feeds every report to the writer, stopping on the first error.
func writeReports(w report.Writer, reports []schemas.MeasureReport) error {
	for _, rep := range reports {
		if err := w.Write(rep); err != nil {
			return err
		}
	}
	return nil
}

// isPartialFailure distinguishes "some inputs failed but the batch finished"
// from errors that aborted the run entirely. Partial failures still produce a
// report for every input.
func isPartialFailure(err error) bool {
	return errors.Is(err, runner.ErrInputFailed)
}
