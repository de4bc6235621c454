package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/api/schemas"
	"github.com/xkilldash9x/svgscope-cli/internal/measure"
	"github.com/xkilldash9x/svgscope-cli/internal/observability"
	"github.com/xkilldash9x/svgscope-cli/internal/overlay"
	"github.com/xkilldash9x/svgscope-cli/internal/runner"
	"github.com/xkilldash9x/svgscope-cli/pkg/browser"
)

// newOverlayCmd creates the `overlay` command.
func newOverlayCmd(state *rootState) *cobra.Command {
	overlayCmd := &cobra.Command{
		Use:   "overlay [input]",
		Short: "Draws visual markers around measured elements",
		Long: `Overlay loads the input in a browser tab, measures each --target selector,
and inserts a rectangular marker around it in screen space. Markers never
intercept pointer events. Use --screenshot to capture the decorated page,
and --hold to keep the tab open for visual inspection.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			v := state.v
			flags := cmd.Flags()
			if err := v.BindPFlag("overlay.theme", flags.Lookup("theme")); err != nil {
				return err
			}
			if err := v.BindPFlag("overlay.border_color", flags.Lookup("border-color")); err != nil {
				return err
			}
			if err := v.BindPFlag("overlay.padding_px", flags.Lookup("padding")); err != nil {
				return err
			}
			if err := v.BindPFlag("overlay.hold", flags.Lookup("hold")); err != nil {
				return err
			}
			return v.BindPFlag("browser.headless", flags.Lookup("headless"))
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
			screenshotPath, _ := flags.GetString("screenshot")

			in, err := runner.Resolve(args[0])
			if err != nil {
				return err
			}

			logger.Info("Starting overlay run",
				zap.String("input", in.Raw),
				zap.Strings("targets", selectors),
				zap.String("theme", cfg.Overlay.Theme))

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
			renderer := overlay.NewRenderer(env, meas, cfg.Overlay, logger)

			out := cmd.OutOrStdout()
			// Theme, color, and padding come from config, which the bound
			// flags already feed. A negative padding defers to config.
			opts := schemas.OverlayOptions{Padding: -1}
			for _, sel := range selectors {
				res, err := renderer.Show(ctx, schemas.TargetSelector(sel), opts)
				if err != nil {
					return fmt.Errorf("overlaying %s: %w", sel, err)
				}
				fmt.Fprintf(out, "%s  x=%g y=%g width=%g height=%g\n",
					sel, res.Box.X, res.Box.Y, res.Box.Width, res.Box.Height)
			}

			if screenshotPath != "" {
				png, err := sess.CaptureScreenshot(ctx)
				if err != nil {
					return fmt.Errorf("capturing screenshot: %w", err)
				}
				if err := os.WriteFile(screenshotPath, png, 0644); err != nil {
					return fmt.Errorf("writing screenshot %s: %w", screenshotPath, err)
				}
				logger.Info("Screenshot saved", zap.String("path", screenshotPath))
			}

			if cfg.Overlay.Hold > 0 {
				logger.Info("Holding the page open", zap.Duration("hold", cfg.Overlay.Hold))
				select {
				case <-time.After(cfg.Overlay.Hold):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		},
	}

	overlayCmd.Flags().StringArrayP("target", "t", nil, "CSS selector of an element to mark (repeatable; default: the first svg element)")
	overlayCmd.Flags().String("theme", "auto", "border contrast strategy: auto, light, or dark")
	overlayCmd.Flags().String("border-color", "", "explicit CSS border color (overrides the theme)")
	overlayCmd.Flags().Float64("padding", schemas.DefaultPaddingPx, "screen-space padding in pixels between the element and its marker")
	overlayCmd.Flags().String("screenshot", "", "capture the decorated page to this PNG file")
	overlayCmd.Flags().Duration("hold", 0, "keep the page open for this long after drawing markers")
	overlayCmd.Flags().Bool("headless", true, "run the browser headless (use --headless=false with --hold to watch)")

	return overlayCmd
}
