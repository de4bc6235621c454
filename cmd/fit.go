package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/geometry"
	"github.com/xkilldash9x/svgscope-cli/internal/measure"
	"github.com/xkilldash9x/svgscope-cli/internal/observability"
	"github.com/xkilldash9x/svgscope-cli/internal/runner"
	"github.com/xkilldash9x/svgscope-cli/internal/svgfile"
	"github.com/xkilldash9x/svgscope-cli/pkg/browser"
)

// newFitCmd creates the `fit` command.
func newFitCmd(state *rootState) *cobra.Command {
	fitCmd := &cobra.Command{
		Use:   "fit [input]",
		Short: "Computes a viewBox that tightly encloses the rendered content",
		Long: `Fit measures the union of the --target elements (by default the svg root's
own content) and prints a viewBox attribute that encloses them with the
configured padding. With --apply the computed viewBox is written back into
the input file, which must be a local .svg document.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return state.v.BindPFlag("measure.fit_padding", cmd.Flags().Lookup("padding"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			flags := cmd.Flags()
			selectors, err := flags.GetStringArray("target")
			if err != nil {
				return err
			}
			if len(selectors) == 0 {
				selectors = []string{defaultSelector}
			}
			apply, _ := flags.GetBool("apply")

			in, err := runner.Resolve(args[0])
			if err != nil {
				return err
			}
			if apply && (in.Path == "" || !strings.EqualFold(filepath.Ext(in.Path), ".svg")) {
				return fmt.Errorf("--apply requires a local .svg input, got %s", in.Raw)
			}

			cfg, err := state.reload()
			if err != nil {
				return err
			}

			logger.Info("Starting fit run",
				zap.String("input", in.Raw),
				zap.Strings("targets", selectors),
				zap.Float64("padding", cfg.Measure.FitPadding))

			mgr, err := browser.NewManager(ctx, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer func() {
				if err := mgr.Shutdown(ctx); err != nil {
					logger.Warn("Browser shutdown reported an error", zap.Error(err))
				}
			}()

			sess, err := mgr.NewSession(ctx)
			if err != nil {
				return fmt.Errorf("opening session: %w", err)
			}
			defer func() {
				if err := sess.Close(ctx); err != nil {
					logger.Warn("Session close reported an error", zap.Error(err))
				}
			}()

			if err := sess.Navigate(ctx, in.URL); err != nil {
				return err
			}

			env := browser.NewEnv(sess, logger)
			meas := measure.New(env, cfg.Measure, logger)

			targets := make([]schemas.Target, len(selectors))
			for i, sel := range selectors {
				targets[i] = schemas.TargetSelector(sel)
			}

			vb, _, err := meas.FitToContent(ctx, targets, cfg.Measure.FitPadding)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "viewBox=%q\n", geometry.FormatViewBox(vb))

			if apply {
				if err := svgfile.ApplyViewBox(in.Path, vb); err != nil {
					return err
				}
				logger.Info("Applied fitted viewBox",
					zap.String("path", in.Path),
					zap.String("viewBox", geometry.FormatViewBox(vb)))
			}
			return nil
		},
	}

	fitCmd.Flags().StringArrayP("target", "t", nil, "CSS selector whose content the viewBox should enclose (repeatable)")
	fitCmd.Flags().Float64("padding", 0, "padding in user units added around the fitted content")
	fitCmd.Flags().Bool("apply", false, "write the computed viewBox back into the input file")

	return fitCmd
}
