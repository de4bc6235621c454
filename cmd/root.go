// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/internal/config"
	"github.com/xkilldash9x/svgscope-cli/internal/observability"
)

// rootState carries what the root command resolves for its subcommands: the
// viper instance their flags bind into and the configuration unmarshaled
// from it.
type rootState struct {
	v   *viper.Viper
	cfg *config.Config
}

// reload re-unmarshals the configuration so flag bindings done in a
// subcommand's PreRunE take effect with the right precedence.
func (s *rootState) reload() (*config.Config, error) {
	cfg, err := config.NewConfigFromViper(s.v)
	if err != nil {
		return nil, err
	}
	s.cfg = cfg
	return cfg, nil
}

// newRootCmd builds the root command tree and the state it shares with its
// subcommands. Tests create a fresh tree per run to keep flag state isolated.
func newRootCmd() (*cobra.Command, *rootState) {
	state := &rootState{}
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "svgscope",
		Short: "svgscope measures the visually accurate bounding boxes of vector graphics in a live browser",
		Long: `svgscope renders SVG documents (standalone or inline in HTML) in a headless
browser and measures what is actually drawn: declared geometry unioned with
rendered extents, so stroke outlines, filter bleed, and late-loading text are
included. Boxes can be reported in local user units or on-screen pixels,
shown as overlay markers, or used to re-fit the document's viewBox.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// This runs before any command, setting up config and logging.
			v, err := initializeConfig(cfgFile)
			if err != nil {
				return err
			}
			state.v = v

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				// A fallback logger so the failure is still visible somewhere.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "svgscope"})
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			state.cfg = cfg

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting svgscope", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: svgscope.yaml in . or $HOME)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(
		newMeasureCmd(state),
		newOverlayCmd(state),
		newFitCmd(state),
		newTargetsCmd(),
		newVersionCmd(),
	)
	return rootCmd, state
}

// Execute runs the CLI against the given signal-aware context and reports the
// outcome. Errors are logged here, once.
func Execute(ctx context.Context) error {
	rootCmd, _ := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger := observability.GetLogger()
		if errors.Is(err, context.Canceled) {
			logger.Warn("Aborted by user signal.")
		} else {
			logger.Error("Command execution failed", zap.Error(err))
		}
	}
	return err
}

// initializeConfig builds the viper instance: defaults first, then the config
// file if one is found, then SVGSCOPE_* environment variables.
func initializeConfig(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("svgscope")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix("SVGSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}
	return v, nil
}
